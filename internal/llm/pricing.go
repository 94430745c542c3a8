package llm

import (
	"fmt"
	"strings"
)

// ModelPricing contains pricing per 1M tokens for various models.
// Prices are in USD. Updated: 2026-01-30 from https://docs.anthropic.com/en/docs/about-claude/models
var ModelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	// Claude 4.5 models (latest)
	"claude-opus-4-5-20251101":   {InputPer1M: 5.0, OutputPer1M: 25.0},
	"claude-sonnet-4-5-20250929": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-haiku-4-5-20251001":  {InputPer1M: 1.0, OutputPer1M: 5.0},

	// Claude 4.x legacy models
	"claude-opus-4-1-20250805": {InputPer1M: 15.0, OutputPer1M: 75.0},
	"claude-sonnet-4-20250514": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-opus-4-20250514":   {InputPer1M: 15.0, OutputPer1M: 75.0},

	// Claude 3.x legacy models
	"claude-3-7-sonnet-20250219": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},

	// Fallback for unknown models (use conservative estimate)
	"default": {InputPer1M: 5.0, OutputPer1M: 15.0},
}

// EstimateTokens estimates token count from character count when the
// provider does not report usage. 1 token ≈ 4 characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateCost calculates the estimated cost for a model given token counts.
// Returns cost in USD.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing, ok = ModelPricing[aliasOf(model)]
	}
	if !ok {
		pricing = ModelPricing["default"]
	}

	inputCost := float64(inputTokens) * pricing.InputPer1M / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputPer1M / 1_000_000

	return inputCost + outputCost
}

// aliasOf maps a reported alias like "claude-haiku-4-5" onto the catalog
// ID that is the alias plus a date suffix. "claude-opus-4" resolves to
// claude-opus-4-20250514, never to claude-opus-4-5-*.
func aliasOf(model string) string {
	for id := range ModelPricing {
		suffix, ok := strings.CutPrefix(id, model+"-")
		if ok && isDateStamp(suffix) {
			return id
		}
	}
	return model
}

func isDateStamp(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatCost formats a cost in USD for display.
// Uses appropriate precision based on the magnitude.
func FormatCost(cost float64) string {
	if cost < 0.001 {
		return fmt.Sprintf("$%.4f", cost)
	}
	if cost < 0.01 {
		return fmt.Sprintf("$%.3f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatTokens formats a token count for display.
// Uses k suffix for thousands.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 10000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%dk", tokens/1000)
}

// DescribeCost renders token usage and estimated cost for request logs.
func DescribeCost(model string, inputTokens, outputTokens int) string {
	cost := EstimateCost(model, inputTokens, outputTokens)
	return fmt.Sprintf("~%s tokens, %s", FormatTokens(inputTokens+outputTokens), FormatCost(cost))
}
