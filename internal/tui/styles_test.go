package tui

import (
	"testing"

	"github.com/javiermolinar/patro/internal/tui/theme"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	th, err := theme.Load("mocha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := NewStyles(th)
	palette := theme.NewPalette(th)

	if s.colorBg != palette.Bg {
		t.Errorf("colorBg = %s, want %s", s.colorBg, palette.Bg)
	}
	if got := s.Month.RangeBg; got != palette.RangeBg {
		t.Errorf("RangeBg = %s, want %s", got, palette.RangeBg)
	}
	if got := s.Month.LockedBg; got != palette.LockedBg {
		t.Errorf("LockedBg = %s, want %s", got, palette.LockedBg)
	}
	if got := s.Month.Working.GetForeground(); got != palette.Working {
		t.Errorf("Working foreground = %v, want %s", got, palette.Working)
	}
	if !s.Month.Deducted.GetStrikethrough() {
		t.Error("deducted days should be struck through")
	}
	if s.PromptStyle.GetBorderStyle() == (s.HelpStyle.GetBorderStyle()) {
		t.Error("prompt should have a border")
	}
}
