package view

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

type UserFilter string

const (
	UserFilterAll      UserFilter = "all"
	UserFilterActive   UserFilter = "active"
	UserFilterInactive UserFilter = "inactive"

	ActiveWindow = 7 * 24 * time.Hour
)

func ParseUserFilter(s string) UserFilter {
	switch UserFilter(strings.ToLower(strings.TrimSpace(s))) {
	case UserFilterActive:
		return UserFilterActive
	case UserFilterInactive:
		return UserFilterInactive
	default:
		return UserFilterAll
	}
}

type UserRow struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Level          int       `json:"level"`
	Streak         int       `json:"streak"`
	XP             int64     `json:"xp"`
	TasksCompleted int64     `json:"tasks_completed"`
	TotalTasks     int64     `json:"total_tasks"`
	LastActive     string    `json:"last_active"`
	Degraded       bool      `json:"degraded,omitempty"`
}

func orText(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func NewUserRow(u types.UserSummary, now time.Time) UserRow {
	last := "Never"
	if la, ok := u.ValidLastActive(); ok {
		last = RelativeTime(&la, now)
	} else if u.CreatedAt != nil {
		last = RelativeTime(u.CreatedAt, now)
	}
	level := u.Level
	if level <= 0 {
		level = 1
	}
	return UserRow{
		ID:             u.ID,
		Name:           orText(u.Name, "Unknown"),
		Email:          orText(u.Email, "N/A"),
		Level:          level,
		Streak:         u.Streak,
		XP:             u.XP,
		TasksCompleted: u.TasksCompleted,
		TotalTasks:     u.TotalTasks,
		LastActive:     last,
		Degraded:       len(u.Degraded) > 0,
	}
}

func contains(hay, needle string) bool {
	return hay != "" && strings.Contains(strings.ToLower(hay), needle)
}

func normalizeQuery(q string) string { return strings.ToLower(strings.TrimSpace(q)) }

// FilterUsers applies the text search (name, email, id) and then the
// activity filter over a seven-day window.
func FilterUsers(users []types.UserSummary, filter UserFilter, search string, now time.Time) []types.UserSummary {
	q := normalizeQuery(search)
	out := make([]types.UserSummary, 0, len(users))
	for _, u := range users {
		if q != "" && !contains(u.Name, q) && !contains(u.Email, q) && !contains(u.ID.String(), q) {
			continue
		}
		switch filter {
		case UserFilterActive:
			if !aggregate.ActiveWithin(u, ActiveWindow, now) {
				continue
			}
		case UserFilterInactive:
			if aggregate.ActiveWithin(u, ActiveWindow, now) {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

func UserRows(users []types.UserSummary, now time.Time) []UserRow {
	out := make([]UserRow, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserRow(u, now))
	}
	return out
}

type SubjectRow struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Department string    `json:"department"`
	Color      string    `json:"color"`
}

func FilterSubjects(subjects []*types.Subject, search string) []SubjectRow {
	q := normalizeQuery(search)
	out := make([]SubjectRow, 0, len(subjects))
	for _, s := range subjects {
		if s == nil {
			continue
		}
		if q != "" && !contains(s.Code, q) && !contains(s.Name, q) && !contains(s.Category, q) && !contains(s.Department, q) {
			continue
		}
		out = append(out, SubjectRow{
			ID:         s.ID,
			Code:       orText(s.Code, "N/A"),
			Name:       orText(s.Name, "Unnamed Subject"),
			Category:   orText(s.Category, types.DefaultSubjectCategory),
			Department: orText(s.Department, types.DefaultSubjectDepartment),
			Color:      orText(s.Color, types.DefaultSubjectColor),
		})
	}
	return out
}

type FeedbackRow struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Type        string    `json:"type"`
	Category    string    `json:"category,omitempty"`
	Message     string    `json:"message"`
	Rating      int       `json:"rating,omitempty"`
	Suggestions string    `json:"suggestions,omitempty"`
	Status      string    `json:"status"`
	Submitted   string    `json:"submitted"`
}

// UserNames indexes display names by id.
func UserNames(users []types.UserSummary) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Name
	}
	return out
}

func NewFeedbackRow(f *types.Feedback, names map[uuid.UUID]string, now time.Time) FeedbackRow {
	name, ok := names[f.UserID]
	if !ok || strings.TrimSpace(name) == "" {
		name = "Unknown User"
	}
	row := FeedbackRow{
		ID:          f.ID,
		UserID:      f.UserID,
		UserName:    name,
		Type:        f.TypeOrDefault(),
		Category:    f.Category,
		Message:     f.Body(),
		Suggestions: f.Suggestions,
		Status:      f.StatusOrOpen(),
		Submitted:   RelativeTime(f.CreatedAt, now),
	}
	if f.Rating != nil {
		row.Rating = *f.Rating
	}
	return row
}

// FilterFeedback searches the submitter's name, the message and the
// category.
func FilterFeedback(items []*types.Feedback, names map[uuid.UUID]string, search string, now time.Time) []FeedbackRow {
	q := normalizeQuery(search)
	out := make([]FeedbackRow, 0, len(items))
	for _, f := range items {
		if f == nil {
			continue
		}
		if q != "" && !contains(names[f.UserID], q) && !contains(f.Body(), q) && !contains(f.Category, q) {
			continue
		}
		out = append(out, NewFeedbackRow(f, names, now))
	}
	return out
}

type AuditRow struct {
	ID         uuid.UUID `json:"id"`
	Icon       string    `json:"icon"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	AdminEmail string    `json:"admin_email"`
	When       string    `json:"when"`
}

func FilterAuditLogs(logs []*types.AuditLog, search string, now time.Time) []AuditRow {
	q := normalizeQuery(search)
	out := make([]AuditRow, 0, len(logs))
	for _, l := range logs {
		if l == nil {
			continue
		}
		if q != "" && !contains(l.Type, q) && !contains(l.Message, q) && !contains(l.Description, q) {
			continue
		}
		when := "Unknown time"
		if !l.Timestamp.IsZero() {
			ts := l.Timestamp
			when = RelativeTime(&ts, now)
		}
		out = append(out, AuditRow{
			ID:         l.ID,
			Icon:       AuditIcon(l.Type),
			Type:       l.TypeOrUnknown(),
			Message:    l.Text(),
			AdminEmail: orText(l.AdminEmail, "System"),
			When:       when,
		})
	}
	return out
}
