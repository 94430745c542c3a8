// Package version checks GitHub for newer burnlog releases and greets
// first-time users.
package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dhabedank/burnlog/internal/tui"
)

const (
	// GitHubRepo is the repository for release checks.
	GitHubRepo = "dhabedank/burnlog"

	// CheckInterval is how often to check for updates.
	CheckInterval = 24 * time.Hour
)

// CheckResult describes an available update.
type CheckResult struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker looks up the latest release at most once per CheckInterval.
type Checker struct {
	// APIURL is the latest-release endpoint.
	APIURL string
	// MarkerPath is touched after every check. Empty disables throttling.
	MarkerPath string
	HTTPClient *http.Client
}

// NewChecker returns a checker for GitHubRepo with the marker in ~/.burnlog.
func NewChecker() *Checker {
	return &Checker{
		APIURL:     fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", GitHubRepo),
		MarkerPath: dataPath(".last-update-check"),
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Check returns a result when a newer release exists. Dev builds, recent
// checks and every failure return nil.
func (c *Checker) Check(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}
	if c.checkedRecently() {
		return nil
	}
	c.markChecked()

	tag, url, err := c.latestRelease(ctx)
	if err != nil || tag == "" {
		return nil
	}

	if !isNewerVersion(strings.TrimPrefix(tag, "v"), strings.TrimPrefix(currentVersion, "v")) {
		return nil
	}
	return &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  tag,
		ReleaseURL:     url,
	}
}

// PrintUpdateNotice writes an update notice for result, if any.
func PrintUpdateNotice(w io.Writer, result *CheckResult) {
	if result == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s A new version of burnlog is available: %s (you have %s)\n",
		tui.WarningStyle.Render("!"),
		tui.SuccessStyle.Render(result.LatestVersion),
		result.CurrentVersion,
	)
	fmt.Fprintf(w, "  Update: %s\n", tui.HelpStyle.Render("go install github.com/"+GitHubRepo+"@latest"))
	if result.ReleaseURL != "" {
		fmt.Fprintf(w, "  Notes:  %s\n", tui.HelpStyle.Render(result.ReleaseURL))
	}
	fmt.Fprintln(w)
}

func (c *Checker) latestRelease(ctx context.Context) (tag, url string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", err
	}
	release := gjson.ParseBytes(body)
	return release.Get("tag_name").String(), release.Get("html_url").String(), nil
}

func (c *Checker) checkedRecently() bool {
	if c.MarkerPath == "" {
		return false
	}
	info, err := os.Stat(c.MarkerPath)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < CheckInterval
}

func (c *Checker) markChecked() {
	if c.MarkerPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.MarkerPath), 0755); err != nil {
		return
	}
	now := time.Now()
	if err := os.Chtimes(c.MarkerPath, now, now); os.IsNotExist(err) {
		_ = os.WriteFile(c.MarkerPath, []byte{}, 0644)
	}
}

// dataPath returns a file under ~/.burnlog, or "" without a home directory.
func dataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".burnlog", name)
}

// isNewerVersion compares dotted versions numerically.
func isNewerVersion(latest, current string) bool {
	latestParts := strings.Split(latest, ".")
	currentParts := strings.Split(current, ".")

	for i := 0; i < len(latestParts) && i < len(currentParts); i++ {
		l := parseVersionPart(latestParts[i])
		c := parseVersionPart(currentParts[i])
		if l != c {
			return l > c
		}
	}
	return len(latestParts) > len(currentParts)
}

// parseVersionPart reads the leading number of a part ("1" from "1-beta").
func parseVersionPart(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}
