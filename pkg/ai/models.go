package ai

// ModelInfo captures the fields needed for model selection and display.
type ModelInfo struct {
	ID          string
	Description string
}

// KnownModels lists commonly used models per provider for the
// interactive `models` command. The list is advisory; any model
// identifier the provider accepts can be configured.
func KnownModels(provider ProviderType) []ModelInfo {
	switch provider {
	case ProviderOpenAI:
		return []ModelInfo{
			{ID: "gpt-4o", Description: "Flagship multimodal model"},
			{ID: "gpt-4o-mini", Description: "Fast, low-cost"},
			{ID: "gpt-4.1", Description: "Long-context flagship"},
			{ID: "o4-mini", Description: "Reasoning, low-cost"},
		}
	case ProviderGoogle:
		return []ModelInfo{
			{ID: "gemini-3-flash-preview", Description: "Fast preview model"},
			{ID: "gemini-2.5-pro", Description: "Strongest reasoning"},
			{ID: "gemini-2.5-flash", Description: "Balanced speed/quality"},
		}
	case ProviderAnthropic:
		return []ModelInfo{
			{ID: "claude-sonnet-4-20250514", Description: "Balanced flagship"},
			{ID: "claude-opus-4-20250514", Description: "Most capable"},
			{ID: "claude-3-5-haiku-20241022", Description: "Fast, low-cost"},
		}
	default:
		return nil
	}
}
