package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhabedank/burnlog/internal/tui"
)

// FirstRun tracks whether the welcome notice was shown.
type FirstRun struct {
	// ConfigPath is the wizard's config file; its presence means set up.
	ConfigPath string
	// MarkerPath is written once the notice was shown.
	MarkerPath string
}

// NewFirstRun uses ~/.burnlog.yaml and ~/.burnlog/.initialized.
func NewFirstRun(configPath string) *FirstRun {
	return &FirstRun{ConfigPath: configPath, MarkerPath: dataPath(".initialized")}
}

// IsFirstRun reports whether neither the config nor the marker exists.
func (f *FirstRun) IsFirstRun() bool {
	if f.MarkerPath == "" {
		return false
	}
	if f.ConfigPath != "" {
		if _, err := os.Stat(f.ConfigPath); err == nil {
			return false
		}
	}
	_, err := os.Stat(f.MarkerPath)
	return os.IsNotExist(err)
}

// MarkInitialized writes the marker.
func (f *FirstRun) MarkInitialized() {
	if f.MarkerPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(f.MarkerPath), 0755); err != nil {
		return
	}
	_ = os.WriteFile(f.MarkerPath, []byte{}, 0644)
}

// PrintNotice writes the welcome message and marks the run initialized.
func (f *FirstRun) PrintNotice(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to burnlog!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Export %s for the gateway\n", tui.ModelStyle.Render("ANTHROPIC_API_KEY"))
	fmt.Fprintf(w, "    2. Pick a model and weight unit: %s\n", tui.ModelStyle.Render("burnlog setup"))
	fmt.Fprintf(w, "    3. Start the gateway: %s\n", tui.ModelStyle.Render("burnlog serve"))
	fmt.Fprintf(w, "    4. Log a workout: %s\n", tui.ModelStyle.Render("burnlog log"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'burnlog --help' for all commands"))
	fmt.Fprintln(w)

	f.MarkInitialized()
}
