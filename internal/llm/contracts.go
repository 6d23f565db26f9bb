package llm

import (
	"context"
	"time"
)

// ProviderID names a backend binding.
type ProviderID string

const (
	ProviderNone        ProviderID = ""
	ProviderDeepSeek    ProviderID = "deepseek"
	ProviderAnthropic   ProviderID = "anthropic"
	ProviderHuggingFace ProviderID = "huggingface"
	ProviderGoogle      ProviderID = "google"
	ProviderOpenAI      ProviderID = "openai"
)

func (id ProviderID) String() string {
	if id == ProviderNone {
		return "none"
	}
	return string(id)
}

// Credentials holds one raw key per backend, read once at startup.
type Credentials struct {
	DeepSeek    string
	Anthropic   string
	HuggingFace string
	Google      string
	OpenAI      string
}

// Request is what callers hand to the gateway. Content is truncated to the
// provider's budget; Prompt and System never are.
type Request struct {
	System       string
	Prompt       string
	ContentLabel string // heading placed before Content, e.g. "Extracted Text:"
	Content      string
	Appendix     string   // supplementary text (tables); dropped on the reduced retry
	Images       []string // page raster paths; ignored by text-only providers
	Vision       bool
	MaxTokens    int
	Timeout      time.Duration
}

// EncodedImage is an image ready for a wire body.
type EncodedImage struct {
	MimeType string
	Base64   string
}

// DataURL renders the image as a data: URL.
func (i EncodedImage) DataURL() string {
	return "data:" + i.MimeType + ";base64," + i.Base64
}

// Payload is the provider-neutral message a binding turns into its wire body.
type Payload struct {
	System      string
	Text        string
	Images      []EncodedImage
	MaxTokens   int
	Temperature float64
}

// HTTPRequest is a fully resolved POST.
type HTTPRequest struct {
	URL     string
	Headers map[string]string
	Body    any
}

// Completion is the unwrapped model text.
type Completion struct {
	Provider ProviderID
	Text     string
	Images   int
	Retried  bool
}

// Provider is one backend binding: wire format and capabilities only.
type Provider interface {
	ID() ProviderID
	SupportsVision() bool
	// TextBudget is the number of characters of Request.Content sent.
	TextBudget(vision bool) int
	BuildRequest(p Payload) (HTTPRequest, error)
	ParseResponse(body []byte) (string, error)
}

// Completer is what the structurer and translator depend on.
type Completer interface {
	Provider() ProviderID
	SupportsVision() bool
	Complete(ctx context.Context, req Request) (Completion, error)
}
