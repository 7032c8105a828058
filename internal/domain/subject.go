package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultSubjectCategory   = "General"
	DefaultSubjectDepartment = "N/A"
	DefaultSubjectColor      = "#6C9EF8"
)

// Subject is owned entirely by admin CRUD. Tasks refer to subjects only by
// free-text label.
type Subject struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string     `gorm:"column:code;index" json:"code"`
	Name       string     `gorm:"column:name" json:"name"`
	Category   string     `gorm:"column:category" json:"category"`
	Department string     `gorm:"column:department" json:"department"`
	Color      string     `gorm:"column:color" json:"color"`
	CreatedBy  string     `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (Subject) TableName() string { return CollectionSubjects }

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s *Subject) ApplyDefaults() {
	if firstText(s.Category) == "" {
		s.Category = DefaultSubjectCategory
	}
	if firstText(s.Department) == "" {
		s.Department = DefaultSubjectDepartment
	}
	if firstText(s.Color) == "" {
		s.Color = DefaultSubjectColor
	}
}
