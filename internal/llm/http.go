package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
)

// post sends one provider request under its own deadline and returns the
// raw 2xx body. Every failure comes back as a *ProviderError: Status 0 for
// transport errors (including the deadline), the HTTP status otherwise.
func post(ctx context.Context, client *http.Client, id ProviderID, hr HTTPRequest, timeout time.Duration, logger *slog.Logger) ([]byte, error) {
	if client == nil {
		client = &http.Client{}
	}
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	log := logger.With("req_id", reqID, "url", redact(hr.URL))

	bs, err := json.Marshal(hr.Body)
	if err != nil {
		return nil, &ProviderError{Provider: id, Err: fmt.Errorf("encode json: %w", err)}
	}

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(actx, http.MethodPost, hr.URL, bytes.NewReader(bs))
	if err != nil {
		return nil, &ProviderError{Provider: id, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hr.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	log.Info("llm.http.request", "content_length", len(bs), "timeout_ms", timeout.Milliseconds())

	resp, err := client.Do(req)
	if err != nil {
		log.Error("llm.http.send_error", "error", err, "timeout", isTimeout(err), "elapsed_ms", time.Since(start).Milliseconds())
		return nil, &ProviderError{Provider: id, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("llm.http.response_body_close_error", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		// a deadline can also land while the body streams in
		log.Error("llm.http.read_error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, &ProviderError{Provider: id, Err: fmt.Errorf("read body: %w", err)}
	}

	log.Info("llm.http.response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return nil, newStatusError(id, resp.StatusCode, raw)
	}
	return raw, nil
}

// redact drops the query string, which carries the key for some providers.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	return u.String()
}
