package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dhabedank/burnlog/internal/core"
)

// Estimator sends one estimation request.
type Estimator interface {
	Estimate(ctx context.Context, req *core.EstimateRequest) (*core.EstimateResponse, error)
}

// Store persists the history list and the weight-unit preference.
type Store interface {
	LoadHistory(ctx context.Context) ([]core.WorkoutEntry, error)
	SaveHistory(ctx context.Context, entries []core.WorkoutEntry) error
	LoadWeightUnit(ctx context.Context) (core.WeightUnit, error)
	SaveWeightUnit(ctx context.Context, unit core.WeightUnit) error
}

// ConfirmFunc asks a yes/no question and blocks until answered. A nil
// ConfirmFunc counts as yes.
type ConfirmFunc func(prompt string) bool

// ErrCancelled is returned when a confirmation was declined.
var ErrCancelled = errors.New("cancelled")

// Controller owns the form state and applies transitions to it. It is safe
// for use from the UI goroutine and a background submit.
type Controller struct {
	estimator Estimator
	store     Store

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string

	mu    sync.Mutex
	state State

	// saveMu orders history writes so the last write carries the latest list.
	saveMu sync.Mutex
}

// NewController creates a controller with an empty state. Call Load to
// restore persisted history.
func NewController(estimator Estimator, store Store) *Controller {
	return &Controller{
		estimator: estimator,
		store:     store,
		Now:       time.Now,
		NewID:     uuid.NewString,
		state:     NewState(core.DefaultWeightUnit),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load restores history and the unit preference.
func (c *Controller) Load(ctx context.Context) error {
	history, err := c.store.LoadHistory(ctx)
	if err != nil {
		return err
	}
	unit, err := c.store.LoadWeightUnit(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.History = history
	c.state = c.state.SetUnit(unit)
	return nil
}

// Edit replaces the form inputs.
func (c *Controller) Edit(in Inputs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.Edit(in)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// SetWeightUnit switches and persists the unit. The weight value itself is
// never stored.
func (c *Controller) SetWeightUnit(ctx context.Context, unit core.WeightUnit) error {
	c.mu.Lock()
	c.state = c.state.SetUnit(unit)
	c.mu.Unlock()
	return c.store.SaveWeightUnit(ctx, unit)
}

// Submit validates the form and, if valid, sends exactly one request.
// Validation failures return a *ValidationError without touching the
// network. A second Submit while one is in flight returns ErrSubmitPending.
func (c *Controller) Submit(ctx context.Context) (*core.EstimateResponse, error) {
	c.mu.Lock()
	req, err := c.state.Validate()
	if err != nil {
		c.state = c.state.Reject(err)
		c.mu.Unlock()
		return nil, err
	}
	next, err := c.state.Begin()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.state = next
	c.mu.Unlock()

	resp, err := c.estimator.Estimate(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.state = c.state.Fail(err)
		c.mu.Unlock()
		return nil, err
	}
	c.state = c.state.Succeed(resp, c.newEntry(req, resp))
	c.mu.Unlock()

	if err := c.saveHistory(ctx); err != nil {
		return resp, fmt.Errorf("estimate logged but not saved: %w", err)
	}
	return resp, nil
}

// newEntry builds the history record. The quantity comes from the request
// so exactly one of Duration or Reps is set.
func (c *Controller) newEntry(req *core.EstimateRequest, resp *core.EstimateResponse) core.WorkoutEntry {
	entry := core.WorkoutEntry{
		ID:          c.NewID(),
		WorkoutType: resp.WorkoutType,
		Calories:    resp.Calories,
		Explanation: resp.Explanation,
		Timestamp:   c.Now().UTC().Format(time.RFC3339),
	}
	if entry.WorkoutType == "" {
		entry.WorkoutType = req.WorkoutType
	}
	if core.IsPushupWorkout(req.WorkoutType) && req.HasReps() {
		reps := int(req.Reps.Value)
		entry.Reps = &reps
	} else if req.HasDuration() {
		duration := req.Duration.Value
		entry.Duration = &duration
	}
	return entry
}

// DeleteEntry removes one entry after confirmation.
func (c *Controller) DeleteEntry(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil && !confirm("Delete this workout?") {
		return ErrCancelled
	}
	c.mu.Lock()
	c.state = c.state.Delete(id)
	c.mu.Unlock()
	return c.saveHistory(ctx)
}

// ClearHistory removes every entry after confirmation.
func (c *Controller) ClearHistory(ctx context.Context, confirm ConfirmFunc) error {
	if confirm != nil && !confirm("Clear all workout history?") {
		return ErrCancelled
	}
	c.mu.Lock()
	c.state = c.state.Clear()
	c.mu.Unlock()
	return c.saveHistory(ctx)
}

// saveHistory writes the history as it is when the write starts, not as it
// was when the caller changed it.
func (c *Controller) saveHistory(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	history := c.state.History
	c.mu.Unlock()
	return c.store.SaveHistory(ctx, history)
}
