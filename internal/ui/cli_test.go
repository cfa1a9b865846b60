package ui

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/config"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/workday"
)

// fixedNow is Tuesday, March 10 2026.
var fixedNow = calendar.Date(2026, 3, 10)

func newTestApp(t *testing.T, repo saved.Repository) (*App, *bytes.Buffer) {
	t.Helper()
	DisableColor()

	cfg := config.Default()
	cfg.Log.File = ""
	cfg.Storage.Backend = config.BackendMemory

	app := NewApp(repo, cfg)
	app.now = func() time.Time { return fixedNow }
	app.SetConfigPath(filepath.Join(t.TempDir(), "config.toml"))

	var buf bytes.Buffer
	app.SetOutput(&buf)
	return app, &buf
}

// run executes one command line against repo with a fresh App, since cobra
// flag values stick between executions.
func run(t *testing.T, repo saved.Repository, args ...string) (string, error) {
	t.Helper()
	app, buf := newTestApp(t, repo)
	app.SetArgs(args)
	err := app.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, repo saved.Repository, args ...string) string {
	t.Helper()
	out, err := run(t, repo, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func onlyRange(t *testing.T, repo saved.Repository) *saved.SavedRange {
	t.Helper()
	ranges, err := repo.ListSavedRanges(context.Background())
	if err != nil {
		t.Fatalf("ListSavedRanges failed: %v", err)
	}
	if len(ranges) != 1 {
		t.Fatalf("expected 1 saved range, got %d", len(ranges))
	}
	return ranges[0]
}

func TestVersion(t *testing.T) {
	out := mustRun(t, saved.NewMemory(), "version")
	if out != "patro dev (commit: none)\n" {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		dates string
		stats string
	}{
		{
			name:  "weekdays",
			args:  []string{"--start", "2026-03-02", "--end", "2026-03-13", "--policy", "weekdays"},
			dates: "Mar 2, 2026 - Mar 13, 2026",
			stats: "10 working of 12 days (excluding weekends)",
		},
		{
			name:  "typed month day in current year",
			args:  []string{"--start", "03/13", "--end", "03/02", "--policy", "all"},
			dates: "Mar 2, 2026 - Mar 13, 2026",
			stats: "12 working of 12 days (all days)",
		},
		{
			name:  "relative names",
			args:  []string{"--start", "today", "--end", "friday", "--policy", "weekdays"},
			dates: "Mar 10, 2026 - Mar 13, 2026",
			stats: "4 working of 4 days (excluding weekends)",
		},
		{
			name:  "days from start",
			args:  []string{"--start", "2026-03-02", "--days", "5", "--policy", "custom:5"},
			dates: "Mar 2, 2026 - Mar 8, 2026",
			stats: "5 working of 7 days (first 5 days of week)",
		},
		{
			name:  "bikram sambat",
			args:  []string{"--bs", "--year", "2082", "--start", "10/01", "--end", "10/02", "--policy", "all"},
			dates: "Magh 1, 2082 - Magh 2, 2082",
			stats: "2 working of 2 days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, saved.NewMemory(), append([]string{"count"}, tt.args...)...)
			if !strings.Contains(out, tt.dates) {
				t.Errorf("expected %q in output:\n%s", tt.dates, out)
			}
			if !strings.Contains(out, tt.stats) {
				t.Errorf("expected %q in output:\n%s", tt.stats, out)
			}
		})
	}
}

func TestCount_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing start", []string{"--end", "03/02"}},
		{"end and days", []string{"--start", "03/02", "--end", "03/04", "--days", "2"}},
		{"neither end nor days", []string{"--start", "03/02"}},
		{"bad date", []string{"--start", "13/40", "--end", "03/02"}},
		{"bad policy", []string{"--start", "03/02", "--end", "03/04", "--policy", "custom:9"}},
		{"too many days", []string{"--start", "03/02", "--days", "1000"}},
		{"year outside table", []string{"--bs", "--year", "2090", "--start", "01/01", "--end", "01/02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, saved.NewMemory(), append([]string{"count"}, tt.args...)...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConvert(t *testing.T) {
	out := mustRun(t, saved.NewMemory(), "convert", "2026-01-15")
	if !strings.Contains(out, "2082/10/01") || !strings.Contains(out, "Magh 1, 2082") {
		t.Errorf("unexpected conversion:\n%s", out)
	}

	out = mustRun(t, saved.NewMemory(), "convert", "--bs", "--year", "2082", "10/01")
	if !strings.Contains(out, "2026-01-15") {
		t.Errorf("expected A.D. date in output:\n%s", out)
	}

	out = mustRun(t, saved.NewMemory(), "convert", "2020-01-01")
	if !strings.Contains(out, "outside the conversion table") {
		t.Errorf("expected out-of-table note:\n%s", out)
	}
}

func TestMonth(t *testing.T) {
	out := mustRun(t, saved.NewMemory(), "month", "--month", "2026-03")
	if !strings.Contains(out, "March 2026") {
		t.Errorf("expected month title:\n%s", out)
	}
	if !strings.Contains(out, weekdayHeader) {
		t.Errorf("expected weekday header:\n%s", out)
	}

	out = mustRun(t, saved.NewMemory(), "month", "--month", "2026-01", "--bs")
	if !strings.Contains(out, "Poush/Magh 2082") {
		t.Errorf("expected B.S. month span:\n%s", out)
	}

	if _, err := run(t, saved.NewMemory(), "month", "--month", "March"); !errors.Is(err, ErrBadDate) {
		t.Errorf("expected ErrBadDate, got %v", err)
	}
}

func TestRange_Lifecycle(t *testing.T) {
	repo := saved.NewMemory()

	out := mustRun(t, repo, "range", "new", "Sprint", "--start", "2026-03-02", "--end", "2026-03-13", "--policy", "custom:5")
	if !strings.Contains(out, `Saved`) || !strings.Contains(out, "9 working of 12 days") {
		t.Errorf("unexpected new output:\n%s", out)
	}
	r := onlyRange(t, repo)
	id := shortID(r.ID)

	out = mustRun(t, repo, "range", "list")
	if !strings.Contains(out, "Sprint") || !strings.Contains(out, "custom:5") || !strings.Contains(out, "9 days") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	// Wednesday is working, Friday is off, Saturday never changes.
	out = mustRun(t, repo, "range", "toggle", id, "03/04", "2026-03-06", "03/07")
	for _, want := range []string{"Mar 4, 2026 deducted", "Mar 6, 2026 added", "Mar 7, 2026 unchanged", "9 working days"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in toggle output:\n%s", want, out)
		}
	}
	r = onlyRange(t, repo)
	if strings.Join(r.Deducted, ",") != "2026-03-04" || strings.Join(r.Added, ",") != "2026-03-06" {
		t.Fatalf("overrides not persisted: -%v +%v", r.Deducted, r.Added)
	}

	out = mustRun(t, repo, "range", "show", id)
	for _, want := range []string{"Sprint", "March 2026", "deducted: Mar 4, 2026", "added: Mar 6, 2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in show output:\n%s", want, out)
		}
	}

	// Saturday 14 is excluded, so the next working day is Sunday 15.
	out = mustRun(t, repo, "range", "extend", id)
	if !strings.Contains(out, "Mar 15, 2026") || !strings.Contains(out, "10 working days") {
		t.Errorf("unexpected extend output:\n%s", out)
	}
	if got := onlyRange(t, repo).EndKey(); got != "2026-03-15" {
		t.Errorf("expected end 2026-03-15, got %s", got)
	}

	out = mustRun(t, repo, "range", "update", id, "--start", "2026-03-05")
	if !strings.Contains(out, "Dropped 1 overrides") {
		t.Errorf("expected pruned override:\n%s", out)
	}
	r = onlyRange(t, repo)
	if r.StartKey() != "2026-03-05" || len(r.Deducted) != 0 || len(r.Added) != 1 {
		t.Errorf("unexpected range after update: %s -%v +%v", r.StartKey(), r.Deducted, r.Added)
	}

	mustRun(t, repo, "range", "delete", id)
	out = mustRun(t, repo, "range", "list")
	if !strings.Contains(out, "No saved ranges.") {
		t.Errorf("expected empty list:\n%s", out)
	}
}

func TestRange_NewWeekdaysNotSnapshotted(t *testing.T) {
	repo := saved.NewMemory()
	out := mustRun(t, repo, "range", "new", "Week", "--start", "2026-03-02", "--end", "2026-03-08", "--policy", "weekdays")
	if !strings.Contains(out, "weekend exclusion is not stored") {
		t.Errorf("expected snapshot note:\n%s", out)
	}
	if r := onlyRange(t, repo); r.PlusDays != nil {
		t.Errorf("expected nil plus days, got %d", *r.PlusDays)
	}
}

func TestRange_Errors(t *testing.T) {
	repo := saved.NewMemory()
	mustRun(t, repo, "range", "new", "Sprint", "--start", "2026-03-02", "--end", "2026-03-13")
	id := shortID(onlyRange(t, repo).ID)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown id", []string{"range", "show", "zzzz"}, saved.ErrNotFound},
		{"toggle outside range", []string{"range", "toggle", id, "2026-04-01"}, ErrOutsideRange},
		{"toggle bad date", []string{"range", "toggle", id, "march"}, ErrBadDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, repo, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := run(t, repo, "range", "update", id); err == nil {
		t.Error("expected error for empty update")
	}
}

func TestResolveRange(t *testing.T) {
	repo := saved.NewMemory()
	ctx := context.Background()
	for _, id := range []string{"abc1", "abc2", "def"} {
		r, _ := saved.New(id, calendar.Date(2026, 3, 1), calendar.Date(2026, 3, 2), workday.AllDays())
		r.ID = id
		if err := repo.CreateSavedRange(ctx, r); err != nil {
			t.Fatalf("CreateSavedRange failed: %v", err)
		}
	}
	app, _ := newTestApp(t, repo)

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"abc1", "abc1", nil},
		{"d", "def", nil},
		{"abc", "", ErrAmbiguousID},
		{"x", "", saved.ErrNotFound},
		{"", "", saved.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r, err := app.resolveRange(ctx, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.ID != tt.wantID {
				t.Errorf("expected %s, got %s", tt.wantID, r.ID)
			}
		})
	}
}

func TestParseDateArg(t *testing.T) {
	display := calendar.Date(2026, 3, 10)
	tests := []struct {
		in   string
		mode selection.Mode
		want string
		ok   bool
	}{
		{"2026-03-04", selection.ModeAD, "2026-03-04", true},
		{"2026-03-04", selection.ModeBS, "2026-03-04", true},
		{"03/04", selection.ModeAD, "2026-03-04", true},
		{"3/4", selection.ModeAD, "", false},
		{"0304", selection.ModeAD, "2026-03-04", true},
		{"10/01", selection.ModeBS, "2026-01-15", true},
		{"02/30", selection.ModeAD, "", false},
		{"", selection.ModeAD, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDateArg(tt.in, tt.mode, display)
			if !tt.ok {
				if !errors.Is(err, ErrBadDate) {
					t.Errorf("expected ErrBadDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if calendar.DateKey(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, calendar.DateKey(got))
			}
		})
	}
}

func TestDayInRange_CrossesYear(t *testing.T) {
	holidays, err := saved.New("Holidays", calendar.Date(2026, 12, 20), calendar.Date(2027, 1, 10), workday.AllDays())
	if err != nil {
		t.Fatal(err)
	}
	newYear, err := saved.New("New year", calendar.Date(2026, 4, 10), calendar.Date(2026, 4, 20), workday.AllDays())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		r    *saved.SavedRange
		in   string
		mode selection.Mode
		want string
		err  error
	}{
		{"start year", holidays, "12/24", selection.ModeAD, "2026-12-24", nil},
		{"end year", holidays, "01/05", selection.ModeAD, "2027-01-05", nil},
		{"full date", holidays, "2027-01-10", selection.ModeAD, "2027-01-10", nil},
		{"outside both years", holidays, "02/01", selection.ModeAD, "", ErrOutsideRange},
		{"bad date", holidays, "13/01", selection.ModeAD, "", ErrBadDate},
		{"bs end year", newYear, "01/02", selection.ModeBS, "2026-04-15", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dayInRange(tt.in, tt.r, tt.mode)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if calendar.DateKey(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, calendar.DateKey(got))
			}
		})
	}
}

func TestRange_ToggleAcrossYear(t *testing.T) {
	repo := saved.NewMemory()
	mustRun(t, repo, "range", "new", "Holidays", "--start", "2026-12-20", "--end", "2027-01-10", "--policy", "custom:5")
	id := shortID(onlyRange(t, repo).ID)

	out := mustRun(t, repo, "range", "toggle", id, "01/05")
	if !strings.Contains(out, "Jan 5, 2027 deducted") {
		t.Errorf("unexpected toggle output:\n%s", out)
	}
	if r := onlyRange(t, repo); strings.Join(r.Deducted, ",") != "2027-01-05" {
		t.Errorf("expected 2027-01-05 deducted, got %v", r.Deducted)
	}
}

func TestTodo(t *testing.T) {
	repo := saved.NewMemory()
	mustRun(t, repo, "range", "new", "Sprint", "--start", "2026-03-02", "--end", "2026-03-13")
	r := onlyRange(t, repo)
	id := shortID(r.ID)

	out := mustRun(t, repo, "todo", "list", id, "03/04")
	if !strings.Contains(out, "No tasks.") {
		t.Errorf("expected empty list:\n%s", out)
	}

	mustRun(t, repo, "todo", "add", id, "03/04", "Write", "release", "notes")
	mustRun(t, repo, "todo", "add", id, "03/04", "Tag build")
	out = mustRun(t, repo, "todo", "done", id, "03/04", "1")
	for _, want := range []string{"1. [x] Write release notes", "2. [ ] Tag build", "1/2 done"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	mustRun(t, repo, "todo", "remove", id, "03/04", "2")
	tasks, err := repo.LoadTodoTasks(context.Background(), r.ID, "2026-03-04")
	if err != nil {
		t.Fatalf("LoadTodoTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "Write release notes" || !tasks[0].Done {
		t.Errorf("unexpected tasks: %+v", tasks)
	}

	if _, err := run(t, repo, "todo", "done", id, "03/04", "5"); !errors.Is(err, ErrBadTaskNumber) {
		t.Errorf("expected ErrBadTaskNumber, got %v", err)
	}
	if _, err := run(t, repo, "todo", "list", id, "2026-04-01"); !errors.Is(err, ErrOutsideRange) {
		t.Errorf("expected ErrOutsideRange, got %v", err)
	}
	if _, err := run(t, repo, "todo", "add", id, "03/04", "  "); !errors.Is(err, saved.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	app, buf := newTestApp(t, saved.NewMemory())
	app.SetArgs([]string{"config", "set", "calendar.policy", "custom:5"})
	if err := app.Execute(); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(buf.String(), "calendar.policy = custom:5") {
		t.Errorf("unexpected output %q", buf.String())
	}

	loaded, err := config.LoadFrom(app.configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Calendar.Policy != "custom:5" {
		t.Errorf("expected saved policy custom:5, got %s", loaded.Calendar.Policy)
	}

	app, _ = newTestApp(t, saved.NewMemory())
	app.SetArgs([]string{"config", "set", "calendar.policy", "custom:9"})
	if err := app.Execute(); err == nil {
		t.Error("expected validation error")
	}

	app, _ = newTestApp(t, saved.NewMemory())
	app.SetArgs([]string{"config", "set", "calendar.colour", "red"})
	if err := app.Execute(); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}

	out := mustRun(t, saved.NewMemory(), "config", "show")
	for _, want := range []string{"[calendar]", "policy   = all (all days)", "backend  = memory"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConfigInteractive(t *testing.T) {
	app, buf := newTestApp(t, saved.NewMemory())
	app.SetInput(strings.NewReader("y\nbs\nweekdays\nmemory\nlatte\n"))
	app.SetArgs([]string{"config"})
	if err := app.Execute(); err != nil {
		t.Fatalf("config failed: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Configuration saved!") {
		t.Errorf("expected save confirmation:\n%s", buf.String())
	}

	loaded, err := config.LoadFrom(app.configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !loaded.IsBS() || loaded.Calendar.Policy != "weekdays" || loaded.Storage.Backend != config.BackendMemory || loaded.UI.Theme != "latte" {
		t.Errorf("unexpected saved config: %+v", loaded)
	}
}

func TestConfigInteractive_Decline(t *testing.T) {
	app, buf := newTestApp(t, saved.NewMemory())
	app.SetInput(strings.NewReader("n\n"))
	app.SetArgs([]string{"config"})
	if err := app.Execute(); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Created ") || strings.Contains(buf.String(), "Configuration saved!") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestOpenRepository_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendMemory
	repo, err := OpenRepository(cfg)
	if err != nil {
		t.Fatalf("OpenRepository failed: %v", err)
	}
	defer func() { _ = repo.Close() }()
	if _, ok := repo.(*saved.Memory); !ok {
		t.Errorf("expected *saved.Memory, got %T", repo)
	}
}

func TestOpenRepository_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "nested", "patro.db")
	repo, err := OpenRepository(cfg)
	if err != nil {
		t.Fatalf("OpenRepository failed: %v", err)
	}
	_ = repo.Close()
}
