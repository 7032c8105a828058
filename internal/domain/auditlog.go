package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuditLoginSuccess     = "LOGIN_SUCCESS"
	AuditLoginFailure     = "LOGIN_FAILURE"
	AuditXPAdjusted       = "XP_ADJUSTED"
	AuditStreakAdjusted   = "STREAK_ADJUSTED"
	AuditSubjectCreated   = "SUBJECT_CREATED"
	AuditSubjectUpdated   = "SUBJECT_UPDATED"
	AuditSubjectDeleted   = "SUBJECT_DELETED"
	AuditFeedbackResolved = "FEEDBACK_RESOLVED"
	AuditAdminAction      = "ADMIN_ACTION"
)

// AuditLog entries are write-once.
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type        string         `gorm:"column:type;index" json:"type"`
	Message     string         `gorm:"column:message" json:"message,omitempty"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	AdminID     string         `gorm:"column:admin_id" json:"admin_id,omitempty"`
	AdminEmail  string         `gorm:"column:admin_email" json:"admin_email,omitempty"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Timestamp   time.Time      `gorm:"column:timestamp;index" json:"timestamp"`
}

func (AuditLog) TableName() string { return CollectionAuditLogs }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

// Text resolves message > description.
func (a *AuditLog) Text() string {
	if t := firstText(a.Message, a.Description); t != "" {
		return t
	}
	return "No description"
}

func (a *AuditLog) TypeOrUnknown() string {
	if t := firstText(a.Type); t != "" {
		return t
	}
	return "UNKNOWN"
}
