package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultAchievementCategory = "General"

type Achievement struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	Title           string     `gorm:"column:title" json:"title,omitempty"`
	Name            string     `gorm:"column:name" json:"name,omitempty"`
	AchievementName string     `gorm:"column:achievement_name" json:"achievement_name,omitempty"`
	Category        string     `gorm:"column:category" json:"category,omitempty"`
	UnlockedAt      *time.Time `gorm:"column:unlocked_at" json:"unlocked_at,omitempty"`
	EarnedAt        *time.Time `gorm:"column:earned_at" json:"earned_at,omitempty"`
	CreatedAt       *time.Time `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (Achievement) TableName() string { return CollectionAchievements }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// DisplayTitle resolves title > name > achievementName > fallback.
func (a *Achievement) DisplayTitle(fallback string) string {
	if t := firstText(a.Title, a.Name, a.AchievementName); t != "" {
		return t
	}
	return fallback
}

func (a *Achievement) CategoryOrDefault() string {
	if c := firstText(a.Category); c != "" {
		return c
	}
	return DefaultAchievementCategory
}

// Unlocked resolves unlockedAt > earnedAt > createdAt.
func (a *Achievement) Unlocked() *time.Time {
	for _, t := range []*time.Time{a.UnlockedAt, a.EarnedAt, a.CreatedAt} {
		if t != nil && !t.IsZero() {
			return t
		}
	}
	return nil
}
