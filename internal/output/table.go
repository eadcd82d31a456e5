package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/snapback/internal/backup"
)

// RenderBackupTable renders recent backup records, most recent first.
// Records are expected pre-sorted by the caller (the store returns them
// newest-first already).
func RenderBackupTable(records []*backup.Record) string {
	if len(records) == 0 {
		return "No backups recorded yet.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-32s %-9s %-15s %s\n",
		"File", "Size", "When", "Stored As"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%-32s %-9s %-15s %s\n",
			truncate(rec.RelPath, 32),
			FormatSize(rec.SizeBytes),
			FormatRelativeTime(rec.Timestamp),
			rec.DestName))
	}

	return sb.String()
}

// truncate shortens s to max characters, ellipsizing the middle so both
// the leading directory and the file name stay visible.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	head := (max - 3) / 2
	tail := max - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}

// FormatSize converts bytes to human-readable size (GB, MB, KB).
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
