package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/workday"
)

const testKey = "anon-key"

// fakeStore serves the subset of PostgREST the client uses.
type fakeStore struct {
	mu     sync.Mutex
	ranges []map[string]any
	todos  map[string]todoRow
	fail   bool
}

func newFakeStore(t *testing.T) (*fakeStore, *Client) {
	t.Helper()
	fs := &fakeStore{todos: map[string]todoRow{}}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	return fs, New(srv.URL+"/", testKey, time.Second)
}

func eq(r *http.Request, field string) (string, bool) {
	v := r.URL.Query().Get(field)
	if !strings.HasPrefix(v, "eq.") {
		return "", false
	}
	return strings.TrimPrefix(v, "eq."), true
}

func (fs *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != testKey || r.Header.Get("Authorization") != "Bearer "+testKey {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.fail {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		return
	}

	switch strings.TrimPrefix(r.URL.Path, apiPrefix) {
	case tableRanges:
		fs.serveRanges(w, r)
	case tableTodos:
		fs.serveTodos(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (fs *fakeStore) serveRanges(w http.ResponseWriter, r *http.Request) {
	id, byID := eq(r, "id")
	var matched []map[string]any
	var rest []map[string]any
	for _, row := range fs.ranges {
		if !byID || row["id"] == id {
			matched = append(matched, row)
		} else {
			rest = append(rest, row)
		}
	}
	if matched == nil {
		matched = []map[string]any{}
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, matched)
	case http.MethodPost:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.ranges = append(fs.ranges, row)
		w.WriteHeader(http.StatusCreated)
	case http.MethodPatch:
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, row := range matched {
			for k, v := range patch {
				row[k] = v
			}
		}
		writeJSON(w, matched)
	case http.MethodDelete:
		fs.ranges = rest
		writeJSON(w, matched)
	}
}

func (fs *fakeStore) serveTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rangeID, _ := eq(r, "range_id")
		dateKey, _ := eq(r, "date_key")
		row, ok := fs.todos[rangeID+"/"+dateKey]
		if !ok {
			writeJSON(w, []todoRow{})
			return
		}
		writeJSON(w, []todoRow{row})
	case http.MethodPost:
		if r.Header.Get("Prefer") != "resolution=merge-duplicates" {
			http.Error(w, `{"message":"duplicate key"}`, http.StatusConflict)
			return
		}
		var row todoRow
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.todos[row.RangeID+"/"+row.DateKey] = row
		w.WriteHeader(http.StatusCreated)
	case http.MethodDelete:
		rangeID, _ := eq(r, "range_id")
		for k := range fs.todos {
			if strings.HasPrefix(k, rangeID+"/") {
				delete(fs.todos, k)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (fs *fakeStore) setFail() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fail = true
}

func (fs *fakeStore) snapshot() ([]map[string]any, int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.ranges, len(fs.todos)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SavedRangeLifecycle(t *testing.T) {
	fs, c := newFakeStore(t)
	ctx := context.Background()

	custom, _ := workday.NewCustomWorkingDays(5)
	r, err := saved.New("Sprint", calendar.Date(2026, 3, 4), calendar.Date(2026, 3, 23), custom)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.CreateSavedRange(ctx, r); err != nil {
		t.Fatalf("CreateSavedRange failed: %v", err)
	}
	ranges, _ := fs.snapshot()
	if got := ranges[0]["start"]; got != "2026-03-04" {
		t.Errorf("start crossed the wire as %v, want ISO date", got)
	}

	list, err := c.ListSavedRanges(ctx)
	if err != nil {
		t.Fatalf("ListSavedRanges failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != r.ID {
		t.Fatalf("list = %+v", list)
	}
	got := list[0]
	if !got.Start.Equal(calendar.Date(2026, 3, 4)) || got.EndKey() != "2026-03-23" {
		t.Errorf("range = %s..%s", got.StartKey(), got.EndKey())
	}
	if got.PlusDays == nil || *got.PlusDays != 5 {
		t.Errorf("PlusDays = %v", got.PlusDays)
	}

	end := calendar.Date(2026, 3, 24)
	ded := []string{"2026-03-05"}
	if err := c.UpdateSavedRange(ctx, r.ID, saved.Patch{End: &end, Deducted: &ded}); err != nil {
		t.Fatalf("UpdateSavedRange failed: %v", err)
	}
	got, err = c.GetSavedRange(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetSavedRange failed: %v", err)
	}
	if got.EndKey() != "2026-03-24" || len(got.Deducted) != 1 || got.Title != "Sprint" {
		t.Errorf("after update: %+v", got)
	}

	if err := c.DeleteSavedRange(ctx, r.ID); err != nil {
		t.Fatalf("DeleteSavedRange failed: %v", err)
	}
	if _, err := c.GetSavedRange(ctx, r.ID); !errors.Is(err, saved.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := c.DeleteSavedRange(ctx, r.ID); !errors.Is(err, saved.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestClient_UpdateMissing(t *testing.T) {
	_, c := newFakeStore(t)

	end := calendar.Date(2026, 3, 24)
	err := c.UpdateSavedRange(context.Background(), "missing", saved.Patch{End: &end})
	if !errors.Is(err, saved.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_TodoTasks(t *testing.T) {
	fs, c := newFakeStore(t)
	ctx := context.Background()

	got, err := c.LoadTodoTasks(ctx, "r1", "2026-03-02")
	if err != nil {
		t.Fatalf("LoadTodoTasks failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}

	a, _ := saved.NewTodoTask("draft")
	b, _ := saved.NewTodoTask("send")
	b.Done = true
	if err := c.SaveTodoTasks(ctx, "r1", "2026-03-02", []saved.TodoTask{a, b}); err != nil {
		t.Fatalf("SaveTodoTasks failed: %v", err)
	}
	// second save upserts instead of conflicting
	if err := c.SaveTodoTasks(ctx, "r1", "2026-03-02", []saved.TodoTask{b}); err != nil {
		t.Fatalf("SaveTodoTasks upsert failed: %v", err)
	}
	if _, n := fs.snapshot(); n != 1 {
		t.Errorf("stored %d lists, want 1", n)
	}

	got, err = c.LoadTodoTasks(ctx, "r1", "2026-03-02")
	if err != nil {
		t.Fatalf("LoadTodoTasks failed: %v", err)
	}
	if len(got) != 1 || got[0] != b {
		t.Errorf("tasks = %+v", got)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	fs, c := newFakeStore(t)
	fs.setFail()

	_, err := c.ListSavedRanges(context.Background())
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestClient_BadKey(t *testing.T) {
	fs, _ := newFakeStore(t)
	srv := httptest.NewServer(fs)
	defer srv.Close()

	c := New(srv.URL, "wrong", 0)
	if _, err := c.ListSavedRanges(context.Background()); !errors.Is(err, ErrStatus) {
		t.Errorf("expected ErrStatus, got %v", err)
	}
}

func TestClient_BestEffortDegrades(t *testing.T) {
	fs, c := newFakeStore(t)
	fs.setFail()

	b := saved.NewBestEffort(c)
	if got := b.List(context.Background()); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
	if b.Err() == nil {
		t.Error("expected failure to be recorded")
	}
}
