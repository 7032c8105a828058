package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Name:  "Student " + email,
		Email: email,
		Role:  "student",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGamification(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, xp int64, streak int) *types.GamificationProfile {
	tb.Helper()
	level := types.LevelForXP(xp)
	gp := &types.GamificationProfile{
		UserID:     userID,
		XP:         &xp,
		Level:      &level,
		StreakDays: &streak,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(gp).Error; err != nil {
		tb.Fatalf("seed gamification: %v", err)
	}
	return gp
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, status, subject string) *types.Task {
	tb.Helper()
	now := time.Now().UTC()
	t := &types.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "task",
		Status:    status,
		Subject:   subject,
		CreatedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, technique string, minutes float64) *types.StudySession {
	tb.Helper()
	now := time.Now().UTC()
	s := &types.StudySession{
		ID:              uuid.New(),
		UserID:          userID,
		Technique:       technique,
		DurationMinutes: minutes,
		Status:          "completed",
		StartedAt:       &now,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}
