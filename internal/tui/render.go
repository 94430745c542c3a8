package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dhabedank/burnlog/internal/core"
)

// FormatQuantity renders the entry's reps or duration.
func FormatQuantity(e core.WorkoutEntry) string {
	switch {
	case e.Reps != nil:
		return fmt.Sprintf("%d reps", *e.Reps)
	case e.Duration != nil:
		return strconv.FormatFloat(*e.Duration, 'f', -1, 64) + " min"
	}
	return ""
}

// FormatTimestamp shows an RFC 3339 timestamp in local time. Unparseable
// values are returned as stored.
func FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("Jan 2 15:04")
}

// RenderEntry renders one history row.
func RenderEntry(e core.WorkoutEntry, selected bool) string {
	marker := "  "
	workout := WorkoutStyle.Render(e.WorkoutType)
	if selected {
		marker = SelectedStyle.Render("▸ ")
		workout = SelectedStyle.Render(e.WorkoutType)
	}
	return fmt.Sprintf("%s%s  %s  %s  %s",
		marker,
		workout,
		FormatQuantity(e),
		CaloriesStyle.Render(fmt.Sprintf("%d kcal", e.Calories)),
		TimestampStyle.Render(FormatTimestamp(e.Timestamp)),
	)
}

// RenderResult renders an estimate with its explanation.
func RenderResult(resp *core.EstimateResponse) string {
	var b strings.Builder
	b.WriteString(CaloriesStyle.Render(fmt.Sprintf("≈ %d kcal", resp.Calories)))
	b.WriteString("  ")
	b.WriteString(WorkoutStyle.Render(resp.WorkoutType))
	if resp.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(resp.Explanation)
	}
	return b.String()
}

// RenderTotal renders the history footer.
func RenderTotal(entries []core.WorkoutEntry) string {
	total := 0
	for _, e := range entries {
		total += e.Calories
	}
	noun := "workouts"
	if len(entries) == 1 {
		noun = "workout"
	}
	return SubtitleStyle.Render(fmt.Sprintf("%d %s, %d kcal total", len(entries), noun, total))
}
