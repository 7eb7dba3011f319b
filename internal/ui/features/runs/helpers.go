package runs

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapquery/internal/history"
)

const sqlPreviewLen = 80

func runStatusClass(status string) string {
	switch history.Status(status) {
	case history.StatusOK:
		return "run-status--ok"
	case history.StatusError:
		return "run-status--error"
	default:
		return "run-status--unknown"
	}
}

// previewSQL collapses whitespace and shortens s for the list view.
func previewSQL(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > sqlPreviewLen {
		return string(r[:sqlPreviewLen-1]) + "…"
	}
	return s
}

func toItem(e *history.Entry, now time.Time) RunItem {
	return RunItem{
		ID:       e.ID,
		Source:   e.Source,
		Status:   string(e.Status),
		SQL:      e.SQL,
		Rows:     e.RowCount,
		Ago:      formatTimeAgo(e.ExecutedAt, now),
		Duration: formatDuration(e.Duration),
	}
}

func toItems(entries []*history.Entry, now time.Time) []RunItem {
	items := make([]RunItem, len(entries))
	for i, e := range entries {
		items[i] = toItem(e, now)
	}
	return items
}

func toDetail(e *history.Entry, now time.Time) RunDetail {
	return RunDetail{
		RunItem:    toItem(e, now),
		ExecutedAt: e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
		Error:      e.Error,
	}
}

// formatTimeAgo formats t relative to now.
func formatTimeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	return t.Local().Format("Jan 2, 15:04")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
