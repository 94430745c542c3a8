package form

import (
	"errors"
	"testing"

	"github.com/dhabedank/burnlog/internal/core"
)

func TestFields(t *testing.T) {
	tests := []struct {
		workoutType string
		want        Fields
	}{
		{"Push-Ups", Fields{Reps: true}},
		{"push ups", Fields{Reps: true}},
		{"Cycling", Fields{Duration: true}},
		{"", Fields{Duration: true}},
		{"Running", Fields{Duration: true, Weight: true, Unit: true, Pace: true}},
		{" run ", Fields{Duration: true, Weight: true, Unit: true, Pace: true}},
		{"trail running", Fields{Duration: true}},
	}

	for _, tt := range tests {
		t.Run(tt.workoutType, func(t *testing.T) {
			s := NewState("")
			s.Inputs.WorkoutType = tt.workoutType
			if got := s.Fields(); got != tt.want {
				t.Errorf("Fields() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateReps(t *testing.T) {
	tests := []struct {
		reps    string
		wantErr bool
	}{
		{"10", false},
		{" 25 ", false},
		{"0", true},
		{"-5", true},
		{"3.5", true},
		{"", true},
		{"ten", true},
		{"1000000", false},
		{"1000001", true},
		{"1e30", true},
		{"Inf", true},
	}

	for _, tt := range tests {
		t.Run(tt.reps, func(t *testing.T) {
			s := NewState("")
			s.Inputs = Inputs{WorkoutType: "pushups", Reps: tt.reps, Duration: "30"}
			req, err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Field != "reps" {
					t.Errorf("error = %v, want reps ValidationError", err)
				}
				return
			}
			if req.Duration != nil {
				t.Error("push-up request must not carry a duration")
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		duration string
		wantErr  bool
	}{
		{"30", false},
		{"12.5", false},
		{"0", true},
		{"-1", true},
		{"half an hour", true},
		{"NaN", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			s := NewState("")
			s.Inputs = Inputs{WorkoutType: "Yoga", Duration: tt.duration, Reps: "10"}
			req, err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && req.Reps != nil {
				t.Error("duration request must not carry reps")
			}
		})
	}
}

func TestValidateEmptyWorkoutType(t *testing.T) {
	s := NewState("")
	s.Inputs = Inputs{WorkoutType: "   ", Duration: "30"}
	_, err := s.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "workoutType" {
		t.Fatalf("error = %v, want workoutType ValidationError", err)
	}
}

func TestValidateRunningExtras(t *testing.T) {
	s := NewState(core.UnitKilograms)
	s.Inputs = Inputs{WorkoutType: "Running", Duration: "30", RunningPace: "5:30", Weight: "72", WeightUnit: core.UnitKilograms}
	req, err := s.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.RunningPace != "5:30" || req.Weight == nil || req.Weight.Value != 72 || req.WeightUnit != core.UnitKilograms {
		t.Errorf("running request = %+v", req)
	}

	s.Inputs.Weight = "-3"
	if _, err := s.Validate(); err == nil {
		t.Error("negative weight should fail")
	}

	// Pace and weight are hidden for other workouts and not sent.
	s.Inputs = Inputs{WorkoutType: "Cycling", Duration: "30", RunningPace: "5:30", Weight: "72"}
	req, err = s.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if req.RunningPace != "" || req.Weight != nil {
		t.Errorf("non-running request carried running fields: %+v", req)
	}
}

func TestTransitions(t *testing.T) {
	s := NewState(core.UnitKilograms)
	s.Inputs = Inputs{WorkoutType: "Cycling", Duration: "30", WeightUnit: core.UnitKilograms}

	s, err := s.Begin()
	if err != nil || !s.Pending {
		t.Fatalf("Begin() = %+v, %v", s, err)
	}
	if _, err := s.Begin(); !errors.Is(err, ErrSubmitPending) {
		t.Errorf("second Begin() error = %v, want ErrSubmitPending", err)
	}
	if _, err := s.Edit(Inputs{WorkoutType: "Yoga"}); !errors.Is(err, ErrSubmitPending) {
		t.Errorf("Edit() while pending error = %v, want ErrSubmitPending", err)
	}

	resp := &core.EstimateResponse{Calories: 251, Explanation: "Steady.", WorkoutType: "Cycling"}
	s = s.Succeed(resp, core.WorkoutEntry{ID: "1", Calories: 251})
	if s.Pending || s.Result != resp || len(s.History) != 1 {
		t.Fatalf("Succeed() = %+v", s)
	}
	if s.Inputs != (Inputs{WeightUnit: core.UnitKilograms}) {
		t.Errorf("inputs not cleared: %+v", s.Inputs)
	}

	s.Inputs = Inputs{WorkoutType: "Yoga", Duration: "20", WeightUnit: core.UnitKilograms}
	s, _ = s.Begin()
	s = s.Fail(errors.New("AI service error"))
	if s.Pending || s.Result != nil || s.Error != "AI service error" {
		t.Errorf("Fail() = %+v", s)
	}
	if len(s.History) != 1 || s.Inputs.WorkoutType != "Yoga" {
		t.Errorf("Fail() should keep history and inputs: %+v", s)
	}
}

func TestSucceedPrependsWithoutAliasing(t *testing.T) {
	s := NewState("")
	s = s.Succeed(&core.EstimateResponse{}, core.WorkoutEntry{ID: "old"})
	before := s

	s = s.Succeed(&core.EstimateResponse{}, core.WorkoutEntry{ID: "new"})
	if s.History[0].ID != "new" || s.History[1].ID != "old" {
		t.Errorf("history order = %v", s.History)
	}
	if len(before.History) != 1 || before.History[0].ID != "old" {
		t.Errorf("previous state was mutated: %v", before.History)
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := NewState("")
	s.History = []core.WorkoutEntry{{ID: "a", Calories: 10}, {ID: "b", Calories: 5}}

	if got := s.TotalCalories(); got != 15 {
		t.Errorf("TotalCalories() = %d, want 15", got)
	}

	deleted := s.Delete("a")
	if len(deleted.History) != 1 || deleted.History[0].ID != "b" {
		t.Errorf("Delete(a) = %v", deleted.History)
	}
	if len(s.History) != 2 {
		t.Error("Delete mutated the original state")
	}
	if got := s.Delete("zzz"); len(got.History) != 2 {
		t.Error("Delete of unknown id changed history")
	}
	if got := s.Clear(); len(got.History) != 0 {
		t.Errorf("Clear() = %v", got.History)
	}
}
