package aggregate

import (
	"time"

	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

// ActiveToday counts users whose last-active time is valid and not before
// local midnight of now.
func ActiveToday(users []types.UserSummary, now time.Time, loc *time.Location) int {
	midnight := startOfDay(now, loc)
	n := 0
	for i := range users {
		la, ok := users[i].ValidLastActive()
		if ok && !la.Before(midnight) {
			n++
		}
	}
	return n
}

// ActiveWithin reports whether the user was active in the window ending at
// now. Users without a valid timestamp are inactive.
func ActiveWithin(u types.UserSummary, window time.Duration, now time.Time) bool {
	la, ok := u.ValidLastActive()
	if !ok {
		return false
	}
	return now.Sub(la) <= window
}

var StreakLabels = []string{"0", "1-7", "8-30", "31-90", "90+"}

func StreakBucket(streak int) string {
	switch {
	case streak <= 0:
		return "0"
	case streak <= 7:
		return "1-7"
	case streak <= 30:
		return "8-30"
	case streak <= 90:
		return "31-90"
	default:
		return "90+"
	}
}

// StreakDistribution always returns all five buckets in fixed order.
func StreakDistribution(users []types.UserSummary) []Bucket {
	counts := make(map[string]int, len(StreakLabels))
	for i := range users {
		counts[StreakBucket(users[i].Streak)]++
	}
	out := make([]Bucket, 0, len(StreakLabels))
	for _, l := range StreakLabels {
		out = append(out, Bucket{Label: l, Value: float64(counts[l])})
	}
	return out
}

var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// UsageByWeekday sums session minutes per weekday of startedAt in loc,
// ordered Mon..Sun. Sessions without a start time are skipped.
func UsageByWeekday(sessions []*types.StudySession, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}
	var minutes [7]float64
	for _, s := range sessions {
		if s == nil || s.StartedAt == nil || s.StartedAt.IsZero() {
			continue
		}
		wd := s.StartedAt.In(loc).Weekday()
		idx := (int(wd) + 6) % 7
		minutes[idx] += s.DurationMinutes
	}
	out := make([]Bucket, 7)
	for i, l := range WeekdayLabels {
		out[i] = Bucket{Label: l, Value: minutes[i]}
	}
	return out
}

// TotalStudyMinutes sums durations over all sessions.
func TotalStudyMinutes(sessions []*types.StudySession) float64 {
	vals := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			vals = append(vals, s.DurationMinutes)
		}
	}
	return sum(vals)
}
