package aggregate

import (
	"strings"

	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

type TechniqueCounts struct {
	Pomodoro         int `json:"pomodoro"`
	ActiveRecall     int `json:"active_recall"`
	SpacedRepetition int `json:"spaced_repetition"`
	Unclassified     int `json:"unclassified"`
}

func (c TechniqueCounts) Total() int {
	return c.Pomodoro + c.ActiveRecall + c.SpacedRepetition + c.Unclassified
}

func CountTechniques(sessions []*types.StudySession) TechniqueCounts {
	var c TechniqueCounts
	for _, s := range sessions {
		if s == nil {
			continue
		}
		switch s.Class() {
		case types.TechniquePomodoro:
			c.Pomodoro++
		case types.TechniqueActiveRecall:
			c.ActiveRecall++
		case types.TechniqueSpacedRepetition:
			c.SpacedRepetition++
		default:
			c.Unclassified++
		}
	}
	return c
}

// RawTechniqueBreakdown counts sessions by their stored label without
// classification; a missing label counts as "Unknown".
func RawTechniqueBreakdown(sessions []*types.StudySession) []Bucket {
	c := newCounter()
	for _, s := range sessions {
		if s == nil {
			continue
		}
		label := strings.TrimSpace(s.Technique)
		if label == "" {
			label = "Unknown"
		}
		c.add(label)
	}
	return c.buckets()
}

func sessionsOf(sessions []*types.StudySession, t types.Technique) []*types.StudySession {
	out := make([]*types.StudySession, 0, len(sessions))
	for _, s := range sessions {
		if s != nil && s.Class() == t {
			out = append(out, s)
		}
	}
	return out
}

// TechniqueKPI holds the per-technique figures shown on the performance
// cards. Ratios are percentages.
type TechniqueKPI struct {
	Technique          types.Technique `json:"technique"`
	Sessions           int             `json:"sessions"`
	AvgDurationMinutes float64         `json:"avg_duration_minutes"`
	CompletionRatio    float64         `json:"completion_ratio"`
}

// KPIFor computes session count, mean duration and completion ratio.
// A technique with no sessions reports a 100% completion ratio.
func KPIFor(sessions []*types.StudySession, t types.Technique) TechniqueKPI {
	ss := sessionsOf(sessions, t)
	durations := make([]float64, 0, len(ss))
	completed := 0
	for _, s := range ss {
		durations = append(durations, s.DurationMinutes)
		if s.IsCompleted() {
			completed++
		}
	}
	return TechniqueKPI{
		Technique:          t,
		Sessions:           len(ss),
		AvgDurationMinutes: mean(durations),
		CompletionRatio:    percent(float64(completed), float64(len(ss)), 100),
	}
}

const (
	DefaultPomodoroMinutes = 25
	pomodoroWindowDays     = 30
)

type PomodoroStats struct {
	TechniqueKPI
	TotalPomodoros int     `json:"total_pomodoros"`
	PerDay         float64 `json:"per_day"`
	// Display is the pomodoro total when any were recorded, else the
	// session count.
	Display int `json:"display"`
}

func Pomodoro(sessions []*types.StudySession) PomodoroStats {
	kpi := KPIFor(sessions, types.TechniquePomodoro)
	total := 0
	for _, s := range sessionsOf(sessions, types.TechniquePomodoro) {
		total += s.PomodoroCount
	}
	if kpi.Sessions == 0 {
		kpi.AvgDurationMinutes = DefaultPomodoroMinutes
	}
	display := total
	if display == 0 {
		display = kpi.Sessions
	}
	return PomodoroStats{
		TechniqueKPI:   kpi,
		TotalPomodoros: total,
		PerDay:         float64(kpi.Sessions) / pomodoroWindowDays,
		Display:        display,
	}
}

type SpacedRepetitionStats struct {
	TechniqueKPI
	CardsReviewed int     `json:"cards_reviewed"`
	CardsCorrect  int     `json:"cards_correct"`
	Accuracy      float64 `json:"accuracy"`
}

// SpacedRepetition counts each session as one reviewed card.
func SpacedRepetition(sessions []*types.StudySession) SpacedRepetitionStats {
	kpi := KPIFor(sessions, types.TechniqueSpacedRepetition)
	correct := 0
	for _, s := range sessionsOf(sessions, types.TechniqueSpacedRepetition) {
		correct += s.CardsCorrect
	}
	return SpacedRepetitionStats{
		TechniqueKPI:  kpi,
		CardsReviewed: kpi.Sessions,
		CardsCorrect:  correct,
		Accuracy:      percent(float64(correct), float64(kpi.Sessions), 0),
	}
}

type ActiveRecallStats struct {
	TechniqueKPI
	Tests          int     `json:"tests"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Accuracy       float64 `json:"accuracy"`
}

// ActiveRecall accuracy is correct/total questions, 0 when no questions.
func ActiveRecall(sessions []*types.StudySession) ActiveRecallStats {
	kpi := KPIFor(sessions, types.TechniqueActiveRecall)
	var correct, total int
	for _, s := range sessionsOf(sessions, types.TechniqueActiveRecall) {
		correct += s.CorrectAnswers
		total += s.TotalQuestions
	}
	return ActiveRecallStats{
		TechniqueKPI:   kpi,
		Tests:          kpi.Sessions,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Accuracy:       percent(float64(correct), float64(total), 0),
	}
}

type TechniquePerformance struct {
	Pomodoro         PomodoroStats         `json:"pomodoro"`
	SpacedRepetition SpacedRepetitionStats `json:"spaced_repetition"`
	ActiveRecall     ActiveRecallStats     `json:"active_recall"`
}

func Performance(sessions []*types.StudySession) TechniquePerformance {
	return TechniquePerformance{
		Pomodoro:         Pomodoro(sessions),
		SpacedRepetition: SpacedRepetition(sessions),
		ActiveRecall:     ActiveRecall(sessions),
	}
}
