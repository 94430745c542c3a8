package llm

import "fmt"

// DefaultModel is used when no model is configured. Estimates are short,
// so the fastest tier is enough.
const DefaultModel = "claude-haiku-4-5-20251001"

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "claude-haiku-4-5-20251001")
	Name        string // Human-readable name (e.g., "Claude Haiku 4.5")
	Description string // Brief description
}

// claudeModels lists models usable for estimates.
// Updated: 2026-01-30 from https://docs.anthropic.com/en/docs/about-claude/models
var claudeModels = []ModelInfo{
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fastest, most cost-effective ($1/$5 per MTok)"},
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance of speed and capability ($3/$15 per MTok)"},
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Premium model, maximum intelligence ($5/$25 per MTok)"},
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Previous balanced model ($3/$15 per MTok)"},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Legacy budget model ($0.25/$1.25 per MTok)"},
}

// Models returns the selectable models, default first.
func Models() []ModelInfo {
	out := make([]ModelInfo, len(claudeModels))
	copy(out, claudeModels)
	return out
}

// LookupModel returns the catalog entry for id.
func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range claudeModels {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// NewAdapter builds the adapter for a provider name.
func NewAdapter(provider string, config Config) (Adapter, error) {
	switch provider {
	case "", "anthropic", "anthropic-api":
		return NewAnthropicAPIAdapter(config), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
