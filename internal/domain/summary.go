package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserSummary is the denormalized per-user row the dashboard reads. It is
// always rebuilt whole from the user document and its canonical sub-records.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`

	XP                int64 `json:"xp"`
	Level             int   `json:"level"`
	Streak            int   `json:"streak"`
	LongestStreak     int   `json:"longest_streak"`
	StudyPoints       int64 `json:"study_points"`
	TotalPointsEarned int64 `json:"total_points_earned"`

	TasksCompleted int64 `json:"tasks_completed"`
	TotalTasks     int64 `json:"total_tasks"`

	LastActive *time.Time `json:"last_active,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`

	// Degraded lists the lookups that failed and were defaulted.
	Degraded []string `json:"degraded,omitempty"`
}

// PointsEarned resolves totalPointsEarned > studyPoints > xp.
func (s *UserSummary) PointsEarned() int64 {
	for _, v := range []int64{s.TotalPointsEarned, s.StudyPoints, s.XP} {
		if v != 0 {
			return v
		}
	}
	return 0
}

// PointsBalance resolves studyPoints > xp.
func (s *UserSummary) PointsBalance() int64 {
	if s.StudyPoints != 0 {
		return s.StudyPoints
	}
	return s.XP
}

// ValidLastActive returns the last-active time when it is present and
// plausible. Zero and pre-epoch values are treated as unparseable.
func (s *UserSummary) ValidLastActive() (time.Time, bool) {
	if s.LastActive == nil || s.LastActive.IsZero() || s.LastActive.Unix() <= 0 {
		return time.Time{}, false
	}
	return *s.LastActive, true
}
