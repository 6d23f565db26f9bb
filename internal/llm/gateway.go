package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
)

// ErrNoProvider is returned by a gateway built without a binding.
var ErrNoProvider = errors.New("no llm provider configured")

type GatewayConfig struct {
	Timeout         time.Duration // per attempt when Request.Timeout is zero, default 180s
	RequestsPerMin  int           // 0 = unlimited
	BreakerFailures uint32        // consecutive failures before opening, default 5
	BreakerCooldown time.Duration // open -> half-open, default 60s
}

// Gateway sends requests to a single provider chosen for the session.
type Gateway struct {
	provider Provider
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	limiter  *rate.Limiter
	cfg      GatewayConfig
	logger   *slog.Logger
}

type GatewayOption func(*Gateway)

// WithHTTPClient overrides the transport; timeouts still come from requests.
func WithHTTPClient(c *http.Client) GatewayOption { return func(g *Gateway) { g.client = c } }

func NewGateway(p Provider, cfg GatewayConfig, logger *slog.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 60 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerMin > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMin) / 60.0)
	}

	name := ProviderNone.String()
	if p != nil {
		name = p.ID().String()
	}
	g := &Gateway{
		provider: p,
		client:   &http.Client{},
		limiter:  rate.NewLimiter(limit, 1),
		cfg:      cfg,
		logger:   logger.With("provider", name),
	}
	g.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "llm-" + name,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("llm.breaker.state", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Provider() ProviderID {
	if g.provider == nil {
		return ProviderNone
	}
	return g.provider.ID()
}

func (g *Gateway) SupportsVision() bool {
	return g.provider != nil && g.provider.SupportsVision()
}

// Complete sends req and returns the provider's raw completion text. A
// timeout on the first attempt is retried once with half the text budget
// and without the appendix. Every other failure is a *ProviderError.
func (g *Gateway) Complete(ctx context.Context, req Request) (Completion, error) {
	if g.provider == nil {
		return Completion{}, &ProviderError{Provider: ProviderNone, Err: ErrNoProvider}
	}
	id := g.provider.ID()
	logger := common.LoggerFrom(ctx, g.logger)

	vision := req.Vision && g.provider.SupportsVision()
	budget := g.provider.TextBudget(vision)

	var images []EncodedImage
	if vision {
		for _, p := range req.Images {
			img, err := readImage(p)
			if err != nil {
				logger.Warn("llm.complete.image_skipped", "path", p, "error", err)
				continue
			}
			images = append(images, img)
		}
	}

	logger.Info("llm.complete.start",
		"vision", vision,
		"images", len(images),
		"content_chars", len(req.Content),
		"budget", budget,
	)

	text, err := g.attempt(ctx, req, budget, req.Appendix, images)
	if err == nil {
		return Completion{Provider: id, Text: text, Images: len(images)}, nil
	}

	var pe *ProviderError
	if errors.As(err, &pe) && pe.Timeout() && ctx.Err() == nil {
		logger.Warn("llm.complete.retry_reduced", "budget", budget/2, "error", err)
		text, err = g.attempt(ctx, req, budget/2, "", images)
		if err == nil {
			return Completion{Provider: id, Text: text, Images: len(images), Retried: true}, nil
		}
	}

	logger.Error("llm.complete.failed", "error", err)
	return Completion{}, err
}

func (g *Gateway) attempt(ctx context.Context, req Request, budget int, appendix string, images []EncodedImage) (string, error) {
	id := g.provider.ID()

	hr, err := g.provider.BuildRequest(Payload{
		System:      req.System,
		Text:        userText(req.Prompt, req.ContentLabel, TruncateRunes(req.Content, budget), appendix),
		Images:      images,
		MaxTokens:   req.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", &ProviderError{Provider: id, Err: err}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{Provider: id, Err: err}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = g.cfg.Timeout
	}

	raw, err := g.breaker.Execute(func() ([]byte, error) {
		return post(ctx, g.client, id, hr, timeout, g.logger)
	})
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return "", pe
		}
		// breaker open or half-open saturation
		return "", &ProviderError{Provider: id, Err: err}
	}

	text, err := g.provider.ParseResponse(raw)
	if err != nil {
		pe := newStatusError(id, http.StatusOK, raw)
		pe.Err = err
		return "", pe
	}
	return text, nil
}
