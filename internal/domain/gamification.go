package domain

import (
	"time"

	"github.com/google/uuid"
)

// GamificationProfile is the canonical home of a student's XP, level and
// streak. There is at most one per user.
type GamificationProfile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	XP            *int64    `gorm:"column:xp" json:"xp,omitempty"`
	StudyPoints   *int64    `gorm:"column:study_points" json:"study_points,omitempty"`
	Level         *int      `gorm:"column:level" json:"level,omitempty"`
	StreakDays    *int      `gorm:"column:streak_days" json:"streak_days,omitempty"`
	LongestStreak *int      `gorm:"column:longest_streak" json:"longest_streak,omitempty"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (GamificationProfile) TableName() string { return CollectionGamification }

// LevelForXP is the level curve used by every XP writer: one level per
// thousand points, starting at 1.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(xp/1000) + 1
}
