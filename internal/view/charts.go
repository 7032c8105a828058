package view

import (
	"time"

	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

type ChartKind string

const (
	ChartPie      ChartKind = "pie"
	ChartDoughnut ChartKind = "doughnut"
	ChartBar      ChartKind = "bar"
	ChartHBar     ChartKind = "hbar"
	ChartLine     ChartKind = "line"
)

// Chart is a labeled numeric dataset ready for any renderer.
type Chart struct {
	Key         string             `json:"key"`
	Title       string             `json:"title"`
	Kind        ChartKind          `json:"kind"`
	SeriesLabel string             `json:"series_label,omitempty"`
	Buckets     []aggregate.Bucket `json:"buckets"`
}

// Source is everything a projection reads, captured at one instant.
type Source struct {
	Users        []types.UserSummary
	Tasks        []*types.Task
	Sessions     []*types.StudySession
	Achievements []*types.Achievement
	Subjects     []*types.Subject
	Feedback     []*types.Feedback
	AuditLogs    []*types.AuditLog
	Degraded     []dashboard.Kind
	Generation   uint64
	Now          time.Time
	Loc          *time.Location
}

func SourceFromStore(s *dashboard.Store, now time.Time) Source {
	c := s.Collections()
	src := Source{
		Users:        s.Users(),
		Tasks:        c.Tasks,
		Sessions:     c.Sessions,
		Achievements: c.Achievements,
		Subjects:     c.Subjects,
		Feedback:     c.Feedback,
		AuditLogs:    c.AuditLogs,
		Degraded:     c.Degraded,
		Now:          now,
		Loc:          s.Location(),
	}
	if snap := s.Snapshot(); snap != nil {
		src.Generation = snap.Generation
	}
	return src
}

func (s Source) Inputs() aggregate.Inputs {
	return aggregate.Inputs{Users: s.Users, Tasks: s.Tasks, Sessions: s.Sessions}
}

const (
	ChartTechniques   = "techniques"
	ChartUsage        = "usage_by_weekday"
	ChartStreaks      = "streak_distribution"
	ChartTimeline     = "tasks_timeline"
	ChartTaskStatus   = "task_status"
	ChartSubjects     = "tasks_by_subject"
	ChartEconomy      = "points_economy"
	ChartClassified   = "technique_classes"
	ChartAchievements = "top_achievements"
)

// Charts builds every dashboard chart in display order.
func Charts(src Source) []Chart {
	counts := aggregate.CountTechniques(src.Sessions)
	achievements := aggregate.AchievementRanking(src.Achievements, aggregate.DefaultAchievementLimit)
	achBuckets := make([]aggregate.Bucket, 0, len(achievements))
	for _, a := range achievements {
		achBuckets = append(achBuckets, aggregate.Bucket{Label: a.Title, Value: float64(a.Count)})
	}
	return []Chart{
		{Key: ChartTechniques, Title: "Study Techniques", Kind: ChartPie, Buckets: aggregate.RawTechniqueBreakdown(src.Sessions)},
		{Key: ChartClassified, Title: "Technique Classes", Kind: ChartDoughnut, Buckets: []aggregate.Bucket{
			{Label: string(types.TechniquePomodoro), Value: float64(counts.Pomodoro)},
			{Label: string(types.TechniqueActiveRecall), Value: float64(counts.ActiveRecall)},
			{Label: string(types.TechniqueSpacedRepetition), Value: float64(counts.SpacedRepetition)},
			{Label: string(types.TechniqueUnclassified), Value: float64(counts.Unclassified)},
		}},
		{Key: ChartUsage, Title: "Usage by Day", Kind: ChartBar, SeriesLabel: "Minutes", Buckets: aggregate.UsageByWeekday(src.Sessions, src.Loc)},
		{Key: ChartStreaks, Title: "Streak Distribution", Kind: ChartDoughnut, Buckets: aggregate.StreakDistribution(src.Users)},
		{Key: ChartTimeline, Title: "Tasks Created (30 days)", Kind: ChartLine, SeriesLabel: "Tasks Created", Buckets: aggregate.Timeline(src.Tasks, src.Now, src.Loc, aggregate.TimelineDays)},
		{Key: ChartTaskStatus, Title: "Completion vs Overdue", Kind: ChartDoughnut, Buckets: aggregate.Statuses(src.Tasks).Buckets()},
		{Key: ChartSubjects, Title: "Tasks by Subject", Kind: ChartHBar, SeriesLabel: "Tasks", Buckets: aggregate.SubjectRanking(src.Tasks, aggregate.DefaultSubjectLimit)},
		{Key: ChartEconomy, Title: "Points Economy", Kind: ChartBar, Buckets: aggregate.Economy(src.Users).Buckets()},
		{Key: ChartAchievements, Title: "Top Achievements", Kind: ChartHBar, SeriesLabel: "Unlocks", Buckets: achBuckets},
	}
}

func ChartByKey(src Source, key string) (Chart, bool) {
	for _, c := range Charts(src) {
		if c.Key == key {
			return c, true
		}
	}
	return Chart{}, false
}

// Report is the full dashboard projection.
type Report struct {
	Generation   uint64                         `json:"generation"`
	Overview     aggregate.Overview             `json:"overview"`
	Performance  aggregate.TechniquePerformance `json:"performance"`
	Achievements []aggregate.AchievementStat    `json:"achievements"`
	Economy      aggregate.PointsEconomy        `json:"economy"`
	Charts       []Chart                        `json:"charts"`
	Degraded     []dashboard.Kind               `json:"degraded,omitempty"`
}

func BuildReport(src Source, th aggregate.Thresholds) Report {
	return Report{
		Generation:   src.Generation,
		Overview:     aggregate.ComputeOverview(src.Inputs(), src.Now, src.Loc, th),
		Performance:  aggregate.Performance(src.Sessions),
		Achievements: aggregate.AchievementRanking(src.Achievements, aggregate.DefaultAchievementLimit),
		Economy:      aggregate.Economy(src.Users),
		Charts:       Charts(src),
		Degraded:     src.Degraded,
	}
}
