package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackStatusOpen     = "open"
	FeedbackStatusResolved = "resolved"
)

type Feedback struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	Type         string     `gorm:"column:type" json:"type,omitempty"`
	Category     string     `gorm:"column:category" json:"category,omitempty"`
	Message      string     `gorm:"column:message" json:"message,omitempty"`
	Content      string     `gorm:"column:content" json:"content,omitempty"`
	FeedbackText string     `gorm:"column:feedback_text" json:"feedback_text,omitempty"`
	Rating       *int       `gorm:"column:rating" json:"rating,omitempty"`
	Suggestions  string     `gorm:"column:suggestions" json:"suggestions,omitempty"`
	Status       string     `gorm:"column:status;index" json:"status"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy   string     `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	CreatedAt    *time.Time `gorm:"column:created_at;index" json:"created_at,omitempty"`
}

func (Feedback) TableName() string { return CollectionFeedback }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// Body resolves message > content > feedbackText.
func (f *Feedback) Body() string {
	if b := firstText(f.Message, f.Content, f.FeedbackText); b != "" {
		return b
	}
	return "No message"
}

func (f *Feedback) TypeOrDefault() string {
	if t := firstText(f.Type); t != "" {
		return t
	}
	return "General"
}

func (f *Feedback) StatusOrOpen() string {
	if s := firstText(f.Status); s != "" {
		return s
	}
	return FeedbackStatusOpen
}

func (f *Feedback) IsResolved() bool { return f.StatusOrOpen() == FeedbackStatusResolved }
