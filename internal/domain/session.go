package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is immutable once written by the app. Technique is free text
// and is only ever classified at read time, see ClassifyTechnique.
type StudySession struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	Technique       string     `gorm:"column:technique" json:"technique"`
	Topic           string     `gorm:"column:topic" json:"topic,omitempty"`
	DurationMinutes float64    `gorm:"column:duration_minutes" json:"duration_minutes"`
	Status          string     `gorm:"column:status" json:"status,omitempty"`
	Completed       *bool      `gorm:"column:completed" json:"completed,omitempty"`
	PomodoroCount   int        `gorm:"column:pomodoro_count" json:"pomodoro_count"`
	CorrectAnswers  int        `gorm:"column:correct_answers" json:"correct_answers"`
	TotalQuestions  int        `gorm:"column:total_questions" json:"total_questions"`
	CardsCorrect    int        `gorm:"column:cards_correct" json:"cards_correct"`
	StartedAt       *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CreatedAt       *time.Time `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (StudySession) TableName() string { return CollectionSessions }

func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// IsCompleted accepts both status spellings the app has used plus the
// boolean flag.
func (s *StudySession) IsCompleted() bool {
	if s.Completed != nil && *s.Completed {
		return true
	}
	return s.Status == "completed" || s.Status == "Completed"
}

func (s *StudySession) Class() Technique { return ClassifyTechnique(s.Technique) }
