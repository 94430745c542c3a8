package llm

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/dhabedank/burnlog/internal/core"
)

// APIKeyEnv is the environment variable holding the credential.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// APIKeyPrefix is the prefix every Anthropic API key carries.
const APIKeyPrefix = "sk-ant-"

// jsonPrefill is sent as the start of the assistant turn so the model
// continues a JSON object instead of writing prose.
const jsonPrefill = "{"

// AnthropicAPIAdapter uses the Anthropic Messages API.
type AnthropicAPIAdapter struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewAnthropicAPIAdapter creates an Anthropic API adapter. A missing or
// malformed key is not an error here; Check reports it per request so the
// server can still start and answer health checks.
func NewAnthropicAPIAdapter(config Config) *AnthropicAPIAdapter {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0), // one upstream call per estimate
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &AnthropicAPIAdapter{
		client:    anthropic.NewClient(opts...),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (a *AnthropicAPIAdapter) Name() string {
	return "anthropic-api"
}

// Model returns the configured model ID.
func (a *AnthropicAPIAdapter) Model() string {
	return a.model
}

// Check rejects a missing key or one without the expected prefix.
func (a *AnthropicAPIAdapter) Check() error {
	return CheckAPIKey(a.apiKey)
}

// CheckAPIKey validates the syntactic shape of an Anthropic API key.
func CheckAPIKey(key string) error {
	if key == "" {
		return &core.Error{
			Kind:    core.KindConfig,
			Message: "AI service is not configured",
			Details: APIKeyEnv + " not set",
		}
	}
	if !strings.HasPrefix(key, APIKeyPrefix) {
		return &core.Error{
			Kind:    core.KindConfig,
			Message: "AI service is not configured",
			Details: APIKeyEnv + " is malformed (expected " + APIKeyPrefix + " prefix)",
		}
	}
	return nil
}

func (a *AnthropicAPIAdapter) Complete(ctx context.Context, systemPrompt, userPrompt string) (*core.Completion, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(a.maxTokens),
		Temperature: anthropic.Float(Temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(jsonPrefill)),
		},
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	// Extract text from response
	var output string
	for _, block := range resp.Content {
		if block.Type == "text" {
			output += block.Text
		}
	}

	completion := &core.Completion{
		Text:         joinPrefill(output),
		Model:        string(resp.Model),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}
	if completion.Model == "" {
		completion.Model = a.model
	}
	if completion.InputTokens == 0 {
		completion.InputTokens = EstimateTokens(len(systemPrompt) + len(userPrompt))
	}
	if completion.OutputTokens == 0 {
		completion.OutputTokens = EstimateTokens(len(output))
	}
	return completion, nil
}

// joinPrefill restores the prefilled brace. If the model ignored the prefill
// and answered in prose, the prose is returned untouched.
func joinPrefill(output string) string {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, jsonPrefill) {
		return trimmed
	}
	joined := jsonPrefill + output
	if gjson.Valid(joined) {
		return joined
	}
	return output
}

// upstreamError keeps the upstream status and message of an API failure.
func upstreamError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		msg := gjson.Get(apiErr.RawJSON(), "error.message").String()
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return &core.Error{
			Kind:    core.KindUpstream,
			Message: "AI service error",
			Details: msg,
			Status:  apiErr.StatusCode,
			Err:     err,
		}
	}
	return &core.Error{
		Kind:    core.KindUpstream,
		Message: "AI service error",
		Details: err.Error(),
		Err:     err,
	}
}
