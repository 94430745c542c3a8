package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON quantity that may arrive as a number or a numeric string.
// Non-numeric input is kept (Valid=false) so validation can report it instead
// of failing the whole body decode.
type Number struct {
	Value float64
	Raw   string
	Set   bool // key was present and not null
	Valid bool // Raw parsed as a finite number
}

// NewNumber returns a present, valid Number.
func NewNumber(v float64) *Number {
	return &Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Set: true, Valid: true}
}

// UnmarshalJSON accepts 30, 30.5, "30" and "30.5".
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	*n = Number{Raw: raw, Set: raw != ""}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		n.Value = v
		n.Valid = true
	}
	return nil
}

// MarshalJSON writes the numeric value, or the raw string if it never parsed.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return json.Marshal(n.Raw)
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// WeightUnit is the unit a body weight was entered in.
type WeightUnit string

const (
	UnitKilograms WeightUnit = "kg"
	UnitPounds    WeightUnit = "lbs"
)

// DefaultWeightUnit is used when no preference has been stored.
const DefaultWeightUnit = UnitPounds

// ParseWeightUnit maps user input onto a known unit.
func ParseWeightUnit(s string) (WeightUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilograms":
		return UnitKilograms, true
	case "lb", "lbs", "pounds":
		return UnitPounds, true
	}
	return "", false
}

// EstimateRequest is the body of POST /api/calculate-calories.
// Exactly one of Duration (minutes) or Reps is expected.
type EstimateRequest struct {
	WorkoutType string     `json:"workoutType"`
	Duration    *Number    `json:"duration,omitempty"`
	Reps        *Number    `json:"reps,omitempty"`
	RunningPace string     `json:"runningPace,omitempty"`
	Weight      *Number    `json:"weight,omitempty"`
	WeightUnit  WeightUnit `json:"weightUnit,omitempty"`
}

// HasDuration reports whether a duration key was supplied.
func (r *EstimateRequest) HasDuration() bool { return r.Duration != nil && r.Duration.Set }

// HasReps reports whether a reps key was supplied.
func (r *EstimateRequest) HasReps() bool { return r.Reps != nil && r.Reps.Set }

// EstimateResponse is the success body returned by the gateway.
type EstimateResponse struct {
	Calories    int      `json:"calories"`
	Explanation string   `json:"explanation"`
	WorkoutType string   `json:"workoutType"`
	Duration    *float64 `json:"duration,omitempty"`
	Reps        *int     `json:"reps,omitempty"`
}

// ErrorResponse is the failure body returned by the gateway.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WorkoutEntry is one logged session in the client's history.
// Exactly one of Duration or Reps is set.
type WorkoutEntry struct {
	ID          string   `json:"id"`
	WorkoutType string   `json:"workoutType"`
	Duration    *float64 `json:"duration,omitempty"` // minutes
	Reps        *int     `json:"reps,omitempty"`
	Calories    int      `json:"calories"`
	Explanation string   `json:"explanation,omitempty"`
	Timestamp   string   `json:"timestamp"` // RFC 3339
}

// Estimate is a normalized completion reply.
type Estimate struct {
	Calories    int
	Explanation string
	Fallback    bool // calories came from the digit-run fallback
}
