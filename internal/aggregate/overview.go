package aggregate

import (
	"time"

	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

// Inputs is the set of held collections an overview is computed from.
type Inputs struct {
	Users    []types.UserSummary
	Tasks    []*types.Task
	Sessions []*types.StudySession
}

// Overview holds the headline counters. TasksCompleted is the running total
// across all users' enriched counts; TasksCompletedToday counts only tasks
// whose completion time falls on the current local day.
type Overview struct {
	TotalUsers          int             `json:"total_users"`
	ActiveToday         int             `json:"active_today"`
	TotalTasks          int64           `json:"total_tasks"`
	TasksCompleted      int64           `json:"tasks_completed"`
	TasksCompletedToday int             `json:"tasks_completed_today"`
	Techniques          TechniqueCounts `json:"techniques"`
	TotalStudyMinutes   float64         `json:"total_study_minutes"`
	Insights            []Insight       `json:"insights"`
	ComputedAt          time.Time       `json:"computed_at"`
}

func ComputeOverview(in Inputs, now time.Time, loc *time.Location, th Thresholds) Overview {
	o := Overview{
		TotalUsers:          len(in.Users),
		ActiveToday:         ActiveToday(in.Users, now, loc),
		TasksCompletedToday: CompletedSince(in.Tasks, now, loc),
		Techniques:          CountTechniques(in.Sessions),
		TotalStudyMinutes:   TotalStudyMinutes(in.Sessions),
		ComputedAt:          now,
	}
	for i := range in.Users {
		o.TotalTasks += in.Users[i].TotalTasks
		o.TasksCompleted += in.Users[i].TasksCompleted
	}
	o.Insights = Insights(o, th)
	return o
}
