// Package view projects dashboard state into table rows and chart datasets.
// Nothing here holds state between calls.
package view

import (
	"fmt"
	"time"
)

// RelativeTime renders t relative to now: "Just now", "5m ago", "3h ago",
// "2d ago", then a short date with the year only when it differs.
func RelativeTime(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	d := now.Sub(*t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
	local := t.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

var auditIcons = map[string]string{
	"LOGIN_SUCCESS":      "✅",
	"LOGIN_FAILURE":      "❌",
	"USER_CREATED":       "👤",
	"XP_ADJUSTED":        "⭐",
	"STREAK_RESET":       "🔥",
	"STREAK_ADJUSTED":    "🔥",
	"SUBJECT_CREATED":    "📘",
	"SUBJECT_UPDATED":    "📝",
	"SUBJECT_DELETED":    "🗑️",
	"FEEDBACK_RESOLVED":  "✔️",
	"FEEDBACK_SUBMITTED": "💬",
	"ADMIN_ACTION":       "⚙️",
}

func AuditIcon(kind string) string {
	if icon, ok := auditIcons[kind]; ok {
		return icon
	}
	return "📋"
}
