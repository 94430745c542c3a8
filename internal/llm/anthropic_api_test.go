package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dhabedank/burnlog/internal/core"
)

const testKey = "sk-ant-test-key"

func messageJSON(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-haiku-4-5-20251001",
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"usage": map[string]any{"input_tokens": 120, "output_tokens": 30},
	})
	return string(body)
}

func newTestServer(t *testing.T, status int, body string, calls *int32, inspect func(map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s, want /v1/messages", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != testKey {
			t.Errorf("x-api-key = %q, want %q", got, testKey)
		}
		if inspect != nil {
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode request: %v", err)
			}
			inspect(payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicAPIAdapterName(t *testing.T) {
	adapter := NewAnthropicAPIAdapter(Config{APIKey: testKey})
	if adapter.Name() != "anthropic-api" {
		t.Errorf("Name() = %s, want anthropic-api", adapter.Name())
	}
	if adapter.Model() != DefaultModel {
		t.Errorf("Model() = %s, want %s", adapter.Model(), DefaultModel)
	}
}

func TestCheckAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "sk-ant-api03-abc", false},
		{"empty", "", true},
		{"wrong prefix", "sk-proj-abc", true},
		{"garbage", "hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckAPIKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && core.KindOf(err) != core.KindConfig {
				t.Errorf("kind = %s, want config", core.KindOf(err))
			}
		})
	}
}

func TestAnthropicAPIAdapterCheckUsesEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	if err := NewAnthropicAPIAdapter(Config{}).Check(); err == nil {
		t.Error("Check() should fail without a key")
	}

	t.Setenv(APIKeyEnv, testKey)
	if err := NewAnthropicAPIAdapter(Config{}).Check(); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}
}

func TestAnthropicAPIAdapterComplete(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, messageJSON(`"calories": 310, "explanation": "Brisk run."}`), &calls, func(payload map[string]any) {
		if payload["temperature"] != Temperature {
			t.Errorf("temperature = %v, want %v", payload["temperature"], Temperature)
		}
		msgs, _ := payload["messages"].([]any)
		if len(msgs) != 2 {
			t.Errorf("messages = %d, want 2 (user + prefill)", len(msgs))
			return
		}
		last, _ := msgs[1].(map[string]any)
		if last["role"] != "assistant" {
			t.Errorf("last role = %v, want assistant", last["role"])
		}
	})

	adapter := NewAnthropicAPIAdapter(Config{APIKey: testKey, BaseURL: srv.URL + "/"})
	completion, err := adapter.Complete(context.Background(), core.SystemPrompt, "Workout type: run")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if completion.Text != `{"calories": 310, "explanation": "Brisk run."}` {
		t.Errorf("Text = %q", completion.Text)
	}
	if completion.InputTokens != 120 || completion.OutputTokens != 30 {
		t.Errorf("usage = %d/%d, want 120/30", completion.InputTokens, completion.OutputTokens)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestAnthropicAPIAdapterUpstreamError(t *testing.T) {
	var calls int32
	body := `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`
	srv := newTestServer(t, 529, body, &calls, nil)

	adapter := NewAnthropicAPIAdapter(Config{APIKey: testKey, BaseURL: srv.URL + "/"})
	_, err := adapter.Complete(context.Background(), "system", "user")

	var ce *core.Error
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *core.Error", err)
	}
	if ce.Kind != core.KindUpstream {
		t.Errorf("Kind = %s, want upstream", ce.Kind)
	}
	if ce.Status != 529 {
		t.Errorf("Status = %d, want 529", ce.Status)
	}
	if ce.Details != "Overloaded" {
		t.Errorf("Details = %q, want Overloaded", ce.Details)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want exactly 1 (no retries)", calls)
	}
}

func TestJoinPrefill(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"continuation", `"calories": 5}`, `{"calories": 5}`},
		{"model repeated brace", `{"calories": 5}`, `{"calories": 5}`},
		{"prose", "About 480 calories.", "About 480 calories."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinPrefill(tt.output); got != tt.want {
				t.Errorf("joinPrefill(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestNewAdapter(t *testing.T) {
	if _, err := NewAdapter("anthropic", Config{}); err != nil {
		t.Errorf("NewAdapter(anthropic) error = %v", err)
	}
	if _, err := NewAdapter("carrier-pigeon", Config{}); err == nil {
		t.Error("NewAdapter should reject unknown providers")
	}
}
