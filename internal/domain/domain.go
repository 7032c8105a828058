// Package domain holds the persisted shapes of the study app's documents.
//
// The mobile app has written several generations of these records, so many
// fields are optional and some concepts live under more than one name. Each
// type resolves its synonyms in exactly one method; callers never chain
// fallbacks themselves.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Collection names double as table names and change-feed channels.
const (
	CollectionUsers        = "users"
	CollectionGamification = "gamification_profiles"
	CollectionTasks        = "tasks"
	CollectionSessions     = "study_sessions"
	CollectionAchievements = "achievements"
	CollectionSubjects     = "subjects"
	CollectionFeedback     = "feedback"
	CollectionAuditLogs    = "audit_logs"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// firstText returns the first candidate that is non-empty after trimming.
func firstText(candidates ...string) string {
	for _, c := range candidates {
		if t := strings.TrimSpace(c); t != "" {
			return t
		}
	}
	return ""
}
