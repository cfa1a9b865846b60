// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/patro/internal/config"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is used for empty or unknown theme names.
const DefaultName = "frappe"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Range fill, panels
	BgSelection string `toml:"bg_selection"` // Cursor
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Padding days, help text
	Accent      string `toml:"accent"`       // Title, borders, range edges

	Working  string `toml:"working"`  // Working days inside the range
	Excluded string `toml:"excluded"` // Saturdays and excluded weekends
	Off      string `toml:"off"`      // Custom-policy off days
	Deducted string `toml:"deducted"` // Working days turned off
	Added    string `toml:"added"`    // Off days turned on
	Today    string `toml:"today"`
	Warning  string `toml:"warning"` // Status errors
}

// Load loads a theme by name from embedded files.
// Falls back to DefaultName if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight, t.Accent)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.Working = coalesce(t.Working, t.Fg)
	t.Excluded = coalesce(t.Excluded, t.FgMuted)
	t.Off = coalesce(t.Off, t.FgMuted)
	t.Deducted = coalesce(t.Deducted, t.Warning, t.Fg)
	t.Added = coalesce(t.Added, t.Accent)
	t.Today = coalesce(t.Today, t.Accent)
	t.Warning = coalesce(t.Warning, t.Excluded)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return slices.Clone(config.Themes)
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(config.Themes, strings.ToLower(name))
}
