package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const RoleAdmin = "admin"

// User is the root profile document. XP and streak columns are legacy
// mirrors of GamificationProfile and are only read as a fallback.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"column:name" json:"name"`
	Email    string    `gorm:"column:email;index" json:"email"`
	Password string    `gorm:"column:password" json:"-"`
	Role     string    `gorm:"column:role;index" json:"role"`

	XP                *int64 `gorm:"column:xp" json:"xp,omitempty"`
	Experience        *int64 `gorm:"column:experience" json:"experience,omitempty"`
	StudyPoints       *int64 `gorm:"column:study_points" json:"study_points,omitempty"`
	TotalPointsEarned *int64 `gorm:"column:total_points_earned" json:"total_points_earned,omitempty"`
	Level             *int   `gorm:"column:level" json:"level,omitempty"`
	CurrentStreak     *int   `gorm:"column:current_streak" json:"current_streak,omitempty"`
	LongestStreak     *int   `gorm:"column:longest_streak" json:"longest_streak,omitempty"`

	LastActive *time.Time `gorm:"column:last_active" json:"last_active,omitempty"`

	// Fields the app wrote that have no column of their own.
	Extra datatypes.JSON `gorm:"column:extra" json:"extra,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return CollectionUsers }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// LegacyXP resolves experience > studyPoints > xp on the root document.
func (u *User) LegacyXP() (int64, bool) {
	for _, v := range []*int64{u.Experience, u.StudyPoints, u.XP} {
		if v != nil && *v != 0 {
			return *v, true
		}
	}
	return 0, false
}
