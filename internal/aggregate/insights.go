package aggregate

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type Insight struct {
	Key         string `json:"key"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Thresholds controls when each overview insight fires. Values are strict
// lower bounds.
type Thresholds struct {
	ActiveShare         float64 `yaml:"active_share"`
	PomodoroSessions    int     `yaml:"pomodoro_sessions"`
	TasksCompletedToday int     `yaml:"tasks_completed_today"`
	StudyMinutes        float64 `yaml:"study_minutes"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ActiveShare:         0.3,
		PomodoroSessions:    0,
		TasksCompletedToday: 10,
		StudyMinutes:        1000,
	}
}

// LoadThresholds reads a YAML override file on top of the defaults. An empty
// path returns the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	th := DefaultThresholds()
	if path == "" {
		return th, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return th, fmt.Errorf("read insights config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &th); err != nil {
		return DefaultThresholds(), fmt.Errorf("parse insights config: %w", err)
	}
	return th, nil
}

func Insights(o Overview, th Thresholds) []Insight {
	out := []Insight{}
	if o.TotalUsers > 0 && float64(o.ActiveToday) > float64(o.TotalUsers)*th.ActiveShare {
		share := math.Round(float64(o.ActiveToday) / float64(o.TotalUsers) * 100)
		out = append(out, Insight{
			Key:         "high_engagement",
			Icon:        "🎯",
			Title:       "High Engagement",
			Description: fmt.Sprintf("%.0f%% of users active today", share),
		})
	}
	if o.Techniques.Pomodoro > th.PomodoroSessions {
		out = append(out, Insight{
			Key:         "pomodoro_popular",
			Icon:        "📚",
			Title:       "Pomodoro Popular",
			Description: fmt.Sprintf("%d Pomodoro sessions completed", o.Techniques.Pomodoro),
		})
	}
	if o.TasksCompletedToday > th.TasksCompletedToday {
		out = append(out, Insight{
			Key:         "productive_day",
			Icon:        "✅",
			Title:       "Productive Day",
			Description: fmt.Sprintf("%d tasks completed today", o.TasksCompletedToday),
		})
	}
	if o.TotalStudyMinutes > th.StudyMinutes {
		out = append(out, Insight{
			Key:         "study_time_milestone",
			Icon:        "⏱️",
			Title:       "Study Time Milestone",
			Description: fmt.Sprintf("%.0f hours of study logged", o.TotalStudyMinutes/60),
		})
	}
	return out
}
