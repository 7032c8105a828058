package aggregate

import (
	"fmt"
	"sort"
	"time"

	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

const (
	DefaultSubjectLimit = 10
	TimelineDays        = 30
)

// SubjectRanking counts tasks per resolved subject label, sorts by count
// descending with ties kept in first-appearance order, and keeps the top
// limit entries.
func SubjectRanking(tasks []*types.Task, limit int) []Bucket {
	c := newCounter()
	for _, t := range tasks {
		if t != nil {
			c.add(t.SubjectLabel())
		}
	}
	out := c.buckets()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type StatusBreakdown struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

// Statuses folds empty status into pending; unknown statuses are ignored.
func Statuses(tasks []*types.Task) StatusBreakdown {
	var b StatusBreakdown
	for _, t := range tasks {
		if t == nil {
			continue
		}
		switch t.StatusBucket() {
		case types.TaskStatusCompleted:
			b.Completed++
		case types.TaskStatusPending:
			b.Pending++
		case types.TaskStatusOverdue:
			b.Overdue++
		}
	}
	return b
}

func (b StatusBreakdown) Buckets() []Bucket {
	return []Bucket{
		{Label: "Completed", Value: float64(b.Completed)},
		{Label: "Pending", Value: float64(b.Pending)},
		{Label: "Overdue", Value: float64(b.Overdue)},
	}
}

// Timeline counts tasks created on each of the last days days, oldest
// first, zero-filled, labeled M/D in loc.
func Timeline(tasks []*types.Task, now time.Time, loc *time.Location, days int) []Bucket {
	if days <= 0 {
		days = TimelineDays
	}
	today := startOfDay(now, loc)
	first := today.AddDate(0, 0, -(days - 1))
	index := make(map[string]int, days)
	out := make([]Bucket, days)
	for i := 0; i < days; i++ {
		d := first.AddDate(0, 0, i)
		index[d.Format("2006-01-02")] = i
		out[i] = Bucket{Label: fmt.Sprintf("%d/%d", int(d.Month()), d.Day())}
	}
	for _, t := range tasks {
		if t == nil || t.CreatedAt == nil || t.CreatedAt.IsZero() {
			continue
		}
		key := t.CreatedAt.In(today.Location()).Format("2006-01-02")
		if i, ok := index[key]; ok {
			out[i].Value++
		}
	}
	return out
}

// CompletedSince counts completed tasks whose completion time is not
// before local midnight of now.
func CompletedSince(tasks []*types.Task, now time.Time, loc *time.Location) int {
	midnight := startOfDay(now, loc)
	n := 0
	for _, t := range tasks {
		if t == nil || t.StatusBucket() != types.TaskStatusCompleted {
			continue
		}
		if t.CompletedAt != nil && !t.CompletedAt.Before(midnight) {
			n++
		}
	}
	return n
}
