package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/workday"
)

// Stored dates are calendar days; they come back as local midnight with the
// same date key whatever time of day they were saved at.
func TestDateKeysSurviveStorage(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "tz.db"))

	now := time.Now()
	lateEvening := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, time.Local)
	earlyMorning := time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, time.Local).AddDate(0, 0, 3)

	r, err := saved.New("Timezones", lateEvening, earlyMorning, workday.AllDays())
	if err != nil {
		t.Fatalf("saved.New failed: %v", err)
	}
	if err := repo.CreateSavedRange(ctx, r); err != nil {
		t.Fatalf("CreateSavedRange failed: %v", err)
	}

	got, err := repo.GetSavedRange(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetSavedRange failed: %v", err)
	}
	t.Logf("stored %s..%s, read %v..%v", r.StartKey(), r.EndKey(), got.Start, got.End)

	if got.StartKey() != calendar.DateKey(lateEvening) {
		t.Errorf("start key = %s, want %s", got.StartKey(), calendar.DateKey(lateEvening))
	}
	if got.EndKey() != calendar.DateKey(earlyMorning) {
		t.Errorf("end key = %s, want %s", got.EndKey(), calendar.DateKey(earlyMorning))
	}
	if got.Start.Location() != time.Local {
		t.Errorf("start location = %v, want Local", got.Start.Location())
	}
	if h, m, s := got.Start.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("start is not midnight: %v", got.Start)
	}
	if days := got.Range().Days(); days != 4 {
		t.Errorf("range days = %d, want 4", days)
	}
}
