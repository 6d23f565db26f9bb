package llm

import "strings"

// SelectProvider picks the backend from credential shape alone, in fixed
// priority order. It never touches the network.
func SelectProvider(c Credentials) ProviderID {
	deepseek := strings.TrimSpace(c.DeepSeek)
	anthropic := strings.TrimSpace(c.Anthropic)
	hf := strings.TrimSpace(c.HuggingFace)
	google := strings.TrimSpace(c.Google)
	openai := strings.TrimSpace(c.OpenAI)

	switch {
	case strings.HasPrefix(deepseek, "sk-"):
		return ProviderDeepSeek
	case strings.HasPrefix(anthropic, "sk-ant-"):
		return ProviderAnthropic
	case strings.HasPrefix(hf, "hf_") || len(hf) > 20:
		return ProviderHuggingFace
	case len(google) > 20:
		return ProviderGoogle
	case strings.HasPrefix(openai, "sk-") && len(openai) > 20:
		return ProviderOpenAI
	}
	return ProviderNone
}

// Key returns the credential for id.
func (c Credentials) Key(id ProviderID) string {
	switch id {
	case ProviderDeepSeek:
		return strings.TrimSpace(c.DeepSeek)
	case ProviderAnthropic:
		return strings.TrimSpace(c.Anthropic)
	case ProviderHuggingFace:
		return strings.TrimSpace(c.HuggingFace)
	case ProviderGoogle:
		return strings.TrimSpace(c.Google)
	case ProviderOpenAI:
		return strings.TrimSpace(c.OpenAI)
	}
	return ""
}
