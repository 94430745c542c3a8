// Package form holds the workout form state and the controller that drives
// one estimation round trip from it.
package form

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dhabedank/burnlog/internal/core"
)

// ErrSubmitPending is returned when a submission is already in flight.
var ErrSubmitPending = errors.New("a submission is already in progress")

// ValidationError blocks a submission before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Inputs are the raw form fields as typed by the user.
type Inputs struct {
	WorkoutType string
	Duration    string
	Reps        string
	RunningPace string
	Weight      string
	WeightUnit  core.WeightUnit
}

// Fields reports which inputs are shown for the current workout type.
type Fields struct {
	Reps     bool
	Duration bool
	Weight   bool
	Unit     bool
	Pace     bool
}

// State is the complete form state. Transitions return a new State and
// never mutate the receiver's history slice.
type State struct {
	Inputs  Inputs
	History []core.WorkoutEntry // newest first
	Result  *core.EstimateResponse
	Error   string
	Pending bool
}

// NewState returns an empty form using unit as the weight unit.
func NewState(unit core.WeightUnit) State {
	if unit == "" {
		unit = core.DefaultWeightUnit
	}
	return State{Inputs: Inputs{WeightUnit: unit}, History: []core.WorkoutEntry{}}
}

// PushupMode reports whether the quantity is entered as reps.
func (s State) PushupMode() bool {
	return core.IsPushupWorkout(s.Inputs.WorkoutType)
}

// Fields returns the visible inputs.
func (s State) Fields() Fields {
	pushup := s.PushupMode()
	running := core.IsRunningWorkout(s.Inputs.WorkoutType)
	return Fields{
		Reps:     pushup,
		Duration: !pushup,
		Weight:   running,
		Unit:     running,
		Pace:     running,
	}
}

// Validate turns the inputs into a request. Only the visible quantity is
// sent: reps in push-up mode, duration otherwise.
func (s State) Validate() (*core.EstimateRequest, error) {
	in := s.Inputs
	workoutType := strings.TrimSpace(in.WorkoutType)
	if workoutType == "" {
		return nil, &ValidationError{Field: "workoutType", Message: "Please enter a workout type"}
	}

	req := &core.EstimateRequest{WorkoutType: workoutType}
	fields := s.Fields()

	if fields.Reps {
		reps, err := strconv.ParseFloat(strings.TrimSpace(in.Reps), 64)
		if err != nil || reps <= 0 || reps > core.MaxReps || reps != math.Trunc(reps) {
			return nil, &ValidationError{Field: "reps", Message: "Please enter a valid number of reps (a positive whole number)"}
		}
		req.Reps = core.NewNumber(reps)
	} else {
		duration, err := strconv.ParseFloat(strings.TrimSpace(in.Duration), 64)
		if err != nil || duration <= 0 || math.IsInf(duration, 0) || math.IsNaN(duration) {
			return nil, &ValidationError{Field: "duration", Message: "Please enter a valid duration in minutes"}
		}
		req.Duration = core.NewNumber(duration)
	}

	if fields.Pace {
		req.RunningPace = strings.TrimSpace(in.RunningPace)
	}
	if fields.Weight && strings.TrimSpace(in.Weight) != "" {
		weight, err := strconv.ParseFloat(strings.TrimSpace(in.Weight), 64)
		if err != nil || weight < 0 || math.IsInf(weight, 0) || math.IsNaN(weight) {
			return nil, &ValidationError{Field: "weight", Message: "Please enter a valid body weight"}
		}
		req.Weight = core.NewNumber(weight)
		req.WeightUnit = in.WeightUnit
	}

	return req, nil
}

// Edit replaces the inputs. Edits are refused while a submission is pending.
func (s State) Edit(in Inputs) (State, error) {
	if s.Pending {
		return s, ErrSubmitPending
	}
	if in.WeightUnit == "" {
		in.WeightUnit = s.Inputs.WeightUnit
	}
	s.Inputs = in
	return s, nil
}

// Reject records a validation failure. Nothing else changes.
func (s State) Reject(err error) State {
	s.Error = err.Error()
	return s
}

// Begin marks a submission in flight.
func (s State) Begin() (State, error) {
	if s.Pending {
		return s, ErrSubmitPending
	}
	s.Pending = true
	s.Error = ""
	return s, nil
}

// Succeed shows resp, prepends entry and clears every input except the unit.
func (s State) Succeed(resp *core.EstimateResponse, entry core.WorkoutEntry) State {
	history := make([]core.WorkoutEntry, 0, len(s.History)+1)
	history = append(history, entry)
	history = append(history, s.History...)

	s.History = history
	s.Result = resp
	s.Error = ""
	s.Pending = false
	s.Inputs = Inputs{WeightUnit: s.Inputs.WeightUnit}
	return s
}

// Fail shows the error, clears the result panel and keeps the inputs and
// history.
func (s State) Fail(err error) State {
	s.Error = err.Error()
	s.Result = nil
	s.Pending = false
	return s
}

// Delete removes the entry with id. Unknown ids leave the state unchanged.
func (s State) Delete(id string) State {
	history := make([]core.WorkoutEntry, 0, len(s.History))
	for _, e := range s.History {
		if e.ID != id {
			history = append(history, e)
		}
	}
	s.History = history
	return s
}

// Clear empties the history.
func (s State) Clear() State {
	s.History = []core.WorkoutEntry{}
	return s
}

// SetUnit switches the weight unit.
func (s State) SetUnit(unit core.WeightUnit) State {
	s.Inputs.WeightUnit = unit
	return s
}

// TotalCalories sums the history.
func (s State) TotalCalories() int {
	total := 0
	for _, e := range s.History {
		total += e.Calories
	}
	return total
}
