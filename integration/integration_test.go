package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/db"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/workday"
)

// openRepo opens the database at path with automatic cleanup.
func openRepo(t *testing.T, path string) *db.SQLite {
	t.Helper()
	repo, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func d(year int, month time.Month, day int) time.Time {
	return calendar.Date(year, month, day)
}

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "patro.db")
	repo := openRepo(t, path)

	custom, err := workday.NewCustomWorkingDays(5)
	if err != nil {
		t.Fatalf("NewCustomWorkingDays failed: %v", err)
	}

	// 1. Build and save a range in custom:5.
	sel := selection.New(custom, d(2026, 3, 1))
	if err := sel.Pick(d(2026, 3, 13)); err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if err := sel.Pick(d(2026, 3, 2)); err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if got := sel.WorkingDays(); got != 9 {
		t.Fatalf("working days = %d, want 9", got)
	}
	if err := sel.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	r, err := sel.Save("Sprint 12")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.CreateSavedRange(ctx, r); err != nil {
		t.Fatalf("CreateSavedRange failed: %v", err)
	}

	// 2. Toggle a working Wednesday and a Friday off day.
	if !sel.ToggleDay(d(2026, 3, 4)) || !sel.ToggleDay(d(2026, 3, 6)) {
		t.Fatal("expected both toggles to change the overrides")
	}
	if sel.ToggleDay(d(2026, 3, 7)) {
		t.Error("saturday toggle should be ignored")
	}
	patch, err := sel.OverridesPatch()
	if err != nil {
		t.Fatalf("OverridesPatch failed: %v", err)
	}
	if err := repo.UpdateSavedRange(ctx, r.ID, patch); err != nil {
		t.Fatalf("UpdateSavedRange failed: %v", err)
	}

	// 3. Extend by one working day.
	patch, err = sel.Extend()
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	if err := repo.UpdateSavedRange(ctx, r.ID, patch); err != nil {
		t.Fatalf("UpdateSavedRange failed: %v", err)
	}

	// 4. Attach a todo list.
	task, err := saved.NewTodoTask("Write release notes")
	if err != nil {
		t.Fatalf("NewTodoTask failed: %v", err)
	}
	if err := repo.SaveTodoTasks(ctx, r.ID, "2026-03-05", []saved.TodoTask{task}); err != nil {
		t.Fatalf("SaveTodoTasks failed: %v", err)
	}

	// 5. Reopen the file and review the range from scratch.
	_ = repo.Close()
	reopened := openRepo(t, path)

	got, err := reopened.GetSavedRange(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetSavedRange failed: %v", err)
	}
	if got.Title != "Sprint 12" || got.StartKey() != "2026-03-02" || got.EndKey() != "2026-03-15" {
		t.Errorf("range = %q %s..%s", got.Title, got.StartKey(), got.EndKey())
	}
	if got.PlusDays == nil || *got.PlusDays != 5 {
		t.Errorf("PlusDays = %v, want 5", got.PlusDays)
	}

	review := selection.New(workday.AllDays(), d(2026, 3, 1))
	review.Load(got)
	if review.State() != selection.Review {
		t.Fatalf("state = %s, want review", review.State())
	}
	// 9 working days, one deducted, one added, then Sunday the 15th.
	if got := review.WorkingDays(); got != 10 {
		t.Errorf("working days = %d, want 10", got)
	}
	stats, _ := review.Stats()
	if stats.Deducted != 1 || stats.Added != 1 {
		t.Errorf("stats = %+v", stats)
	}

	tasks, err := reopened.LoadTodoTasks(ctx, r.ID, "2026-03-05")
	if err != nil {
		t.Fatalf("LoadTodoTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "Write release notes" {
		t.Errorf("tasks = %+v", tasks)
	}

	// 6. Delete takes the todo lists with it.
	if err := reopened.DeleteSavedRange(ctx, r.ID); err != nil {
		t.Fatalf("DeleteSavedRange failed: %v", err)
	}
	if _, err := reopened.GetSavedRange(ctx, r.ID); err == nil {
		t.Error("expected not found after delete")
	}
	tasks, err = reopened.LoadTodoTasks(ctx, r.ID, "2026-03-05")
	if err != nil {
		t.Fatalf("LoadTodoTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected todo lists removed, got %+v", tasks)
	}
}

func TestBSDaysMode(t *testing.T) {
	sel := selection.New(workday.ExcludeWeekends(), d(2026, 1, 20))
	sel.SetMode(selection.ModeBS)

	// Magh 1, 2082 is a Thursday.
	if ok, err := sel.TypeStart("10/01"); err != nil || !ok {
		t.Fatalf("TypeStart = %v, %v", ok, err)
	}
	if err := sel.SetDays(5); err != nil {
		t.Fatalf("SetDays failed: %v", err)
	}
	rng, ok := sel.Range()
	if !ok {
		t.Fatal("expected a complete range")
	}
	if got := calendar.DateKey(rng.Start); got != "2026-01-15" {
		t.Errorf("start = %s, want 2026-01-15", got)
	}
	// Thu, Fri, then Mon..Wed.
	if got := calendar.DateKey(rng.End); got != "2026-01-21" {
		t.Errorf("end = %s, want 2026-01-21", got)
	}
	if got := bs.FormatShort(rng.End); got != "10/07" {
		t.Errorf("B.S. end = %s, want 10/07", got)
	}
}
