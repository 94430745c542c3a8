package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dhabedank/burnlog/internal/core"
)

// Fixed keys in the client store.
const (
	HistoryKey    = "workoutHistory"
	WeightUnitKey = "weightUnit"
)

// HistoryStore persists the workout history list and the weight-unit
// preference. The weight value itself is never stored.
type HistoryStore struct {
	kv     KV
	logger *log.Logger
}

// NewHistoryStore wraps kv. logger defaults to the standard logger.
func NewHistoryStore(kv KV, logger *log.Logger) *HistoryStore {
	if logger == nil {
		logger = log.Default()
	}
	return &HistoryStore{kv: kv, logger: logger}
}

// LoadHistory returns the saved entries, newest first. A missing or
// unreadable record yields an empty list; only storage failures are errors.
func (s *HistoryStore) LoadHistory(ctx context.Context) ([]core.WorkoutEntry, error) {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok {
		return []core.WorkoutEntry{}, nil
	}

	var entries []core.WorkoutEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Printf("Warning: invalid history JSON, starting empty: %v", err)
		return []core.WorkoutEntry{}, nil
	}
	if entries == nil {
		entries = []core.WorkoutEntry{}
	}
	return entries, nil
}

// SaveHistory writes the full list. An empty list removes the record
// instead of persisting "[]".
func (s *HistoryStore) SaveHistory(ctx context.Context, entries []core.WorkoutEntry) error {
	if len(entries) == 0 {
		if err := s.kv.Delete(ctx, HistoryKey); err != nil {
			return fmt.Errorf("failed to remove history: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := s.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// LoadWeightUnit returns the saved unit, or core.DefaultWeightUnit.
func (s *HistoryStore) LoadWeightUnit(ctx context.Context) (core.WeightUnit, error) {
	raw, ok, err := s.kv.Get(ctx, WeightUnitKey)
	if err != nil {
		return core.DefaultWeightUnit, fmt.Errorf("failed to read weight unit: %w", err)
	}
	if !ok {
		return core.DefaultWeightUnit, nil
	}
	unit, valid := core.ParseWeightUnit(raw)
	if !valid {
		s.logger.Printf("Warning: unknown weight unit %q, using %s", raw, core.DefaultWeightUnit)
		return core.DefaultWeightUnit, nil
	}
	return unit, nil
}

// SaveWeightUnit persists the unit preference.
func (s *HistoryStore) SaveWeightUnit(ctx context.Context, unit core.WeightUnit) error {
	if err := s.kv.Set(ctx, WeightUnitKey, string(unit)); err != nil {
		return fmt.Errorf("failed to save weight unit: %w", err)
	}
	return nil
}
