package storage

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhabedank/burnlog/internal/core"
)

func openTestDB(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "burnlog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKVImplementations(t *testing.T) {
	impls := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"sqlite": func(t *testing.T) KV { return openTestDB(t) },
	}

	for name, open := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := open(t)

			if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
			}
			if err := kv.Set(ctx, "k", "v1"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := kv.Set(ctx, "k", "v2"); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			v, ok, err := kv.Get(ctx, "k")
			if err != nil || !ok || v != "v2" {
				t.Errorf("Get(k) = %q, %v, %v; want v2", v, ok, err)
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "k"); ok {
				t.Error("key should be gone after Delete")
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete(missing) error = %v", err)
			}
		})
	}
}

func TestSQLiteKVPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burnlog.db")
	ctx := context.Background()

	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, WeightUnitKey, "kg"); err != nil {
		t.Fatal(err)
	}
	_ = kv.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, WeightUnitKey)
	if err != nil || !ok || v != "kg" {
		t.Errorf("Get after reopen = %q, %v, %v; want kg", v, ok, err)
	}
}

func sampleEntries() []core.WorkoutEntry {
	d := 30.0
	r := 20
	return []core.WorkoutEntry{
		{ID: "b", WorkoutType: "Push-Ups", Reps: &r, Calories: 8, Timestamp: "2026-10-17T08:00:00Z"},
		{ID: "a", WorkoutType: "Cycling", Duration: &d, Calories: 251, Explanation: "Steady.", Timestamp: "2026-10-16T08:00:00Z"},
	}
}

func TestHistoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(openTestDB(t), log.New(io.Discard, "", 0))

	entries, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("fresh history has %d entries, want 0", len(entries))
	}

	if err := store.SaveHistory(ctx, sampleEntries()); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}
	entries, err = store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "b" || entries[1].ID != "a" {
		t.Fatalf("LoadHistory() = %+v", entries)
	}
	if entries[0].Reps == nil || *entries[0].Reps != 20 || entries[0].Duration != nil {
		t.Errorf("reps entry lost its shape: %+v", entries[0])
	}
}

func TestHistoryStoreEmptyRemovesRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewHistoryStore(kv, log.New(io.Discard, "", 0))

	if err := store.SaveHistory(ctx, sampleEntries()[:1]); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveHistory(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get(ctx, HistoryKey); ok {
		t.Error("empty history should remove the record, not store []")
	}
}

func TestHistoryStoreCorruptRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Set(ctx, HistoryKey, "{not json")

	var buf bytes.Buffer
	store := NewHistoryStore(kv, log.New(&buf, "", 0))

	entries, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v, want nil", err)
	}
	if len(entries) != 0 {
		t.Errorf("corrupt history loaded %d entries, want 0", len(entries))
	}
	if !strings.Contains(buf.String(), "invalid history JSON") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestHistoryStoreWeightUnit(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewHistoryStore(kv, log.New(io.Discard, "", 0))

	unit, err := store.LoadWeightUnit(ctx)
	if err != nil || unit != core.DefaultWeightUnit {
		t.Errorf("default unit = %s, %v; want %s", unit, err, core.DefaultWeightUnit)
	}

	if err := store.SaveWeightUnit(ctx, core.UnitKilograms); err != nil {
		t.Fatal(err)
	}
	unit, _ = store.LoadWeightUnit(ctx)
	if unit != core.UnitKilograms {
		t.Errorf("unit = %s, want kg", unit)
	}

	_ = kv.Set(ctx, WeightUnitKey, "stone")
	unit, _ = store.LoadWeightUnit(ctx)
	if unit != core.DefaultWeightUnit {
		t.Errorf("unknown unit = %s, want default", unit)
	}
}
