package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusCompleted = "completed"
	TaskStatusPending   = "pending"
	TaskStatusOverdue   = "overdue"

	NoSubject = "No Subject"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Status      string     `gorm:"column:status;index" json:"status"`
	Subject     string     `gorm:"column:subject" json:"subject,omitempty"`
	SubjectName string     `gorm:"column:subject_name" json:"subject_name,omitempty"`
	CourseCode  string     `gorm:"column:course_code" json:"course_code,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   *time.Time `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (Task) TableName() string { return CollectionTasks }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// SubjectLabel resolves subject > subjectName > courseCode > "No Subject".
func (t *Task) SubjectLabel() string {
	if label := firstText(t.Subject, t.SubjectName, t.CourseCode); label != "" {
		return label
	}
	return NoSubject
}

// StatusBucket folds an empty status into pending.
func (t *Task) StatusBucket() string {
	switch t.Status {
	case TaskStatusCompleted, TaskStatusOverdue:
		return t.Status
	case "", TaskStatusPending:
		return TaskStatusPending
	default:
		return t.Status
	}
}
