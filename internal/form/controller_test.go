package form

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dhabedank/burnlog/internal/client"
	"github.com/dhabedank/burnlog/internal/core"
	"github.com/dhabedank/burnlog/internal/storage"
)

type fakeEstimator struct {
	calls int
	last  *core.EstimateRequest
	resp  *core.EstimateResponse
	err   error
}

func (f *fakeEstimator) Estimate(_ context.Context, req *core.EstimateRequest) (*core.EstimateResponse, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

func newTestController(t *testing.T, est Estimator) (*Controller, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	c := NewController(est, storage.NewHistoryStore(kv, log.New(io.Discard, "", 0)))
	c.Now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }
	n := 0
	c.NewID = func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
	return c, kv
}

func TestSubmitEmptyWorkoutTypeSkipsNetwork(t *testing.T) {
	est := &fakeEstimator{}
	c, _ := newTestController(t, est)
	_ = c.Edit(Inputs{WorkoutType: "", Duration: "30"})

	_, err := c.Submit(context.Background())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if est.calls != 0 {
		t.Errorf("estimator called %d times, want 0", est.calls)
	}
	if c.State().Error == "" {
		t.Error("validation failure should be surfaced in state")
	}
}

func TestSubmitSuccessPersistsHistory(t *testing.T) {
	est := &fakeEstimator{resp: &core.EstimateResponse{Calories: 251, Explanation: "Steady.", WorkoutType: "Cycling"}}
	c, kv := newTestController(t, est)
	_ = c.Edit(Inputs{WorkoutType: "Cycling", Duration: "30"})

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if est.calls != 1 {
		t.Errorf("estimator called %d times, want 1", est.calls)
	}

	s := c.State()
	if len(s.History) != 1 {
		t.Fatalf("history = %v", s.History)
	}
	entry := s.History[0]
	if entry.ID != "id-1" || entry.Calories != 251 || entry.Timestamp != "2026-10-17T09:30:00Z" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Duration == nil || *entry.Duration != 30 || entry.Reps != nil {
		t.Errorf("entry quantity = %v / %v, want duration 30 only", entry.Duration, entry.Reps)
	}

	raw, ok, _ := kv.Get(context.Background(), storage.HistoryKey)
	if !ok {
		t.Fatal("history was not persisted")
	}
	var saved []core.WorkoutEntry
	if err := json.Unmarshal([]byte(raw), &saved); err != nil || len(saved) != 1 {
		t.Errorf("persisted history = %s (%v)", raw, err)
	}
}

func TestSubmitFailureKeepsHistory(t *testing.T) {
	est := &fakeEstimator{resp: &core.EstimateResponse{Calories: 100, WorkoutType: "Yoga"}}
	c, _ := newTestController(t, est)
	_ = c.Edit(Inputs{WorkoutType: "Yoga", Duration: "20"})
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	est.err = errors.New("AI service error")
	_ = c.Edit(Inputs{WorkoutType: "Yoga", Duration: "25"})
	if _, err := c.Submit(context.Background()); err == nil {
		t.Fatal("Submit() should fail")
	}

	s := c.State()
	if len(s.History) != 1 || s.Result != nil || s.Error != "AI service error" || s.Pending {
		t.Errorf("state after failure = %+v", s)
	}
}

func TestDeleteLastEntryRemovesRecord(t *testing.T) {
	est := &fakeEstimator{resp: &core.EstimateResponse{Calories: 8, WorkoutType: "Push-Ups"}}
	c, kv := newTestController(t, est)
	ctx := context.Background()
	_ = c.Edit(Inputs{WorkoutType: "Push-Ups", Reps: "20"})
	if _, err := c.Submit(ctx); err != nil {
		t.Fatal(err)
	}

	id := c.State().History[0].ID
	if err := c.DeleteEntry(ctx, id, func(string) bool { return false }); !errors.Is(err, ErrCancelled) {
		t.Fatalf("declined DeleteEntry() error = %v, want ErrCancelled", err)
	}
	if len(c.State().History) != 1 {
		t.Fatal("declined delete removed the entry")
	}

	if err := c.DeleteEntry(ctx, id, func(string) bool { return true }); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if _, ok, _ := kv.Get(ctx, storage.HistoryKey); ok {
		t.Error("deleting the last entry should remove the persisted record")
	}
}

// gatedStore holds the first history write until release is closed.
type gatedStore struct {
	Store
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedStore) SaveHistory(ctx context.Context, entries []core.WorkoutEntry) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.started)
		<-g.release
	}
	return g.Store.SaveHistory(ctx, entries)
}

func TestDeleteDuringSubmitSaveIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	base := storage.NewHistoryStore(storage.NewMemoryKV(), log.New(io.Discard, "", 0))
	if err := base.SaveHistory(ctx, []core.WorkoutEntry{{ID: "old", WorkoutType: "Yoga", Calories: 90}}); err != nil {
		t.Fatal(err)
	}
	store := &gatedStore{Store: base, started: make(chan struct{}), release: make(chan struct{})}

	est := &fakeEstimator{resp: &core.EstimateResponse{Calories: 251, WorkoutType: "Cycling"}}
	c := NewController(est, store)
	c.NewID = func() string { return "new" }
	if err := c.Load(ctx); err != nil {
		t.Fatal(err)
	}
	_ = c.Edit(Inputs{WorkoutType: "Cycling", Duration: "30"})

	submitErr := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx)
		submitErr <- err
	}()
	<-store.started

	deleteErr := make(chan error, 1)
	go func() { deleteErr <- c.DeleteEntry(ctx, "old", nil) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(c.State().History) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("delete never reached the state")
		}
		time.Sleep(time.Millisecond)
	}
	close(store.release)

	if err := <-submitErr; err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := <-deleteErr; err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}

	saved, err := base.LoadHistory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].ID != "new" {
		t.Errorf("saved history = %+v, want only the new entry", saved)
	}
}

func TestClearHistory(t *testing.T) {
	est := &fakeEstimator{resp: &core.EstimateResponse{Calories: 8, WorkoutType: "Plank"}}
	c, kv := newTestController(t, est)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_ = c.Edit(Inputs{WorkoutType: "Plank", Duration: "2"})
		if _, err := c.Submit(ctx); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.ClearHistory(ctx, nil); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	if len(c.State().History) != 0 {
		t.Error("history not cleared")
	}
	if _, ok, _ := kv.Get(ctx, storage.HistoryKey); ok {
		t.Error("cleared history should not be persisted")
	}
}

func TestWeightUnitPreference(t *testing.T) {
	c, kv := newTestController(t, &fakeEstimator{})
	ctx := context.Background()

	if err := c.SetWeightUnit(ctx, core.UnitKilograms); err != nil {
		t.Fatal(err)
	}
	raw, _, _ := kv.Get(ctx, storage.WeightUnitKey)
	if raw != "kg" {
		t.Errorf("stored unit = %q, want kg", raw)
	}

	reloaded := NewController(&fakeEstimator{}, storage.NewHistoryStore(kv, log.New(io.Discard, "", 0)))
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.State().Inputs.WeightUnit; got != core.UnitKilograms {
		t.Errorf("reloaded unit = %s, want kg", got)
	}
}

func TestPushupsEndToEnd(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"calories":8,"explanation":"Short set.","workoutType":"Push-Ups","reps":20}`)
	}))
	defer srv.Close()

	c, _ := newTestController(t, client.New(srv.URL, srv.Client()))
	_ = c.Edit(Inputs{WorkoutType: "Push-Ups", Reps: "20"})

	fields := c.State().Fields()
	if !fields.Reps || fields.Duration {
		t.Fatalf("Fields() = %+v, want reps shown and duration hidden", fields)
	}

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if body["workoutType"] != "Push-Ups" || body["reps"] != float64(20) {
		t.Errorf("request body = %v", body)
	}
	if _, ok := body["duration"]; ok {
		t.Errorf("request body has a duration key: %v", body)
	}

	entry := c.State().History[0]
	if entry.Reps == nil || *entry.Reps != 20 || entry.Duration != nil {
		t.Errorf("entry = %+v, want reps 20 only", entry)
	}
}
