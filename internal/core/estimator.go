package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Completion is the raw reply of one completion call.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// LLMAdapter is the interface for completion providers used by the estimator.
// This matches llm.Adapter but is defined here to avoid import cycles.
type LLMAdapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Check reports a missing or malformed credential as a KindConfig *Error.
	Check() error

	// Complete sends one system + user prompt pair and returns the raw reply.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
}

// CostFunc describes the cost of a completion for the request log. Optional.
type CostFunc func(model string, inputTokens, outputTokens int) string

// Estimator runs the fail-fast checks, the completion call and the reply
// normalization for one request. It holds no per-request state.
type Estimator struct {
	adapter LLMAdapter
	cost    CostFunc
	logger  *log.Logger
}

// NewEstimator creates an Estimator. logger may be nil to disable logging.
func NewEstimator(adapter LLMAdapter, cost CostFunc, logger *log.Logger) *Estimator {
	return &Estimator{adapter: adapter, cost: cost, logger: logger}
}

// Estimate validates req, calls the completion service once and returns the
// normalized response. Every failure is an *Error.
func (e *Estimator) Estimate(ctx context.Context, req *EstimateRequest) (*EstimateResponse, error) {
	if err := req.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, &Error{Kind: KindValidation, Message: validationMessage(ve), Err: err}
		}
		return nil, &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	if err := e.adapter.Check(); err != nil {
		if KindOf(err) == KindConfig {
			return nil, err
		}
		return nil, &Error{Kind: KindConfig, Message: "AI service is not configured", Details: err.Error(), Err: err}
	}

	userPrompt := BuildUserPrompt(req)

	start := time.Now()
	completion, err := e.adapter.Complete(ctx, SystemPrompt, userPrompt)
	if err != nil {
		if KindOf(err) != 0 {
			return nil, err
		}
		return nil, &Error{Kind: KindUpstream, Message: "AI service error", Details: err.Error(), Err: err}
	}
	e.logCompletion(completion, time.Since(start))

	estimate, err := ParseReply(completion.Text)
	if err != nil {
		e.logf("Reply rejected (%s): %v", KindOf(err), err)
		return nil, err
	}
	if estimate.Fallback {
		e.logf("Reply was not JSON, used first number %d", estimate.Calories)
	}

	resp := &EstimateResponse{
		Calories:    estimate.Calories,
		Explanation: estimate.Explanation,
		WorkoutType: req.WorkoutType,
	}
	if req.HasDuration() {
		d := req.Duration.Value
		resp.Duration = &d
	}
	if req.HasReps() {
		r := int(req.Reps.Value)
		resp.Reps = &r
	}
	return resp, nil
}

func (e *Estimator) logCompletion(c *Completion, took time.Duration) {
	if e.logger == nil {
		return
	}
	msg := fmt.Sprintf("Completion via %s (%s): %d in / %d out tokens in %s",
		e.adapter.Name(), c.Model, c.InputTokens, c.OutputTokens, took.Truncate(time.Millisecond))
	if e.cost != nil {
		msg += ", " + e.cost(c.Model, c.InputTokens, c.OutputTokens)
	}
	e.logger.Print(msg)
}

func (e *Estimator) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
