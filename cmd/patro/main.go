package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/javiermolinar/patro/internal/config"
	"github.com/javiermolinar/patro/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		// "patro config" must still start so it can rewrite a broken file.
		if !isConfigCommand(args) {
			return fmt.Errorf("loading config: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: %v; starting from defaults\n", err)
		cfg = config.Default()
	}

	app := ui.NewApp(nil, cfg)
	defer func() { _ = app.Close() }()
	return app.Execute()
}

// isConfigCommand reports whether the first non-flag argument is "config".
func isConfigCommand(args []string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg == "config"
	}
	return false
}
