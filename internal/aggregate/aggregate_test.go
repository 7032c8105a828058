package aggregate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

var (
	utc = time.UTC
	// Wednesday.
	now = time.Date(2026, 3, 18, 15, 0, 0, 0, utc)
)

func tp(t time.Time) *time.Time { return &t }
func bp(b bool) *bool           { return &b }

func TestActiveTodayExcludesMissingAndInvalid(t *testing.T) {
	users := []types.UserSummary{
		{ID: uuid.New(), LastActive: tp(now.Add(-time.Hour))},
		{ID: uuid.New(), LastActive: tp(now.AddDate(0, 0, -1))},
		{ID: uuid.New()},
		{ID: uuid.New(), LastActive: tp(time.Time{})},
		{ID: uuid.New(), LastActive: tp(time.Unix(0, 0))},
		{ID: uuid.New(), LastActive: tp(startOfDay(now, utc))},
	}
	require.Equal(t, 2, ActiveToday(users, now, utc))
}

func TestEndToEndActiveToday(t *testing.T) {
	in := Inputs{Users: []types.UserSummary{
		{ID: uuid.New(), LastActive: tp(now)},
		{ID: uuid.New(), LastActive: tp(now.AddDate(0, 0, -1))},
		{ID: uuid.New(), LastActive: nil},
	}}
	o := ComputeOverview(in, now, utc, DefaultThresholds())
	require.Equal(t, 3, o.TotalUsers)
	require.Equal(t, 1, o.ActiveToday)
	require.Len(t, o.Insights, 1, "only high engagement fires")
	require.Equal(t, "high_engagement", o.Insights[0].Key)
}

func TestStreakBucket(t *testing.T) {
	cases := map[int]string{0: "0", -3: "0", 1: "1-7", 7: "1-7", 8: "8-30", 30: "8-30", 31: "31-90", 90: "31-90", 91: "90+"}
	for streak, want := range cases {
		require.Equal(t, want, StreakBucket(streak), "streak=%d", streak)
	}
	dist := StreakDistribution([]types.UserSummary{{Streak: 0}, {Streak: 7}, {Streak: 91}})
	require.Equal(t, []Bucket{
		{Label: "0", Value: 1},
		{Label: "1-7", Value: 1},
		{Label: "8-30", Value: 0},
		{Label: "31-90", Value: 0},
		{Label: "90+", Value: 1},
	}, dist)
}

func TestUsageByWeekdayOrderedMonToSun(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 10, 0, 0, 0, utc)
	monday := sunday.AddDate(0, 0, 1)
	sessions := []*types.StudySession{
		{DurationMinutes: 30, StartedAt: tp(sunday)},
		{DurationMinutes: 20, StartedAt: tp(monday)},
		{DurationMinutes: 5, StartedAt: tp(monday)},
		{DurationMinutes: 999},
	}
	got := UsageByWeekday(sessions, utc)
	require.Len(t, got, 7)
	require.Equal(t, Bucket{Label: "Mon", Value: 25}, got[0])
	require.Equal(t, Bucket{Label: "Sun", Value: 30}, got[6])
	require.Equal(t, 1054.0, TotalStudyMinutes(sessions))
}

func TestSubjectRankingStableTies(t *testing.T) {
	var tasks []*types.Task
	add := func(subject string, n int) {
		for i := 0; i < n; i++ {
			tasks = append(tasks, &types.Task{Subject: subject})
		}
	}
	add("C", 1)
	add("A", 5)
	add("B", 5)
	got := SubjectRanking(tasks, DefaultSubjectLimit)
	require.Equal(t, []Bucket{{"A", 5}, {"B", 5}, {"C", 1}}, got)
}

func TestSubjectRankingTopTenAndFallback(t *testing.T) {
	var tasks []*types.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, &types.Task{CourseCode: string(rune('a' + i))})
	}
	tasks = append(tasks, &types.Task{}, &types.Task{SubjectName: "  "})
	got := SubjectRanking(tasks, DefaultSubjectLimit)
	require.Len(t, got, 10)
	require.Equal(t, types.NoSubject, got[0].Label)
	require.Equal(t, 2.0, got[0].Value)
}

func TestCompletionRatioWithNoSessionsIsHundred(t *testing.T) {
	for _, tech := range types.Techniques {
		kpi := KPIFor(nil, tech)
		require.Equal(t, 0, kpi.Sessions)
		require.Equal(t, 100.0, kpi.CompletionRatio, "technique %s", tech)
	}
}

func TestActiveRecallAccuracyWithoutQuestionsIsZero(t *testing.T) {
	sessions := []*types.StudySession{{Technique: "active_recall", CorrectAnswers: 3}}
	st := ActiveRecall(sessions)
	require.Equal(t, 1, st.Tests)
	require.Equal(t, 0.0, st.Accuracy)

	st = ActiveRecall(append(sessions, &types.StudySession{Technique: "recall", CorrectAnswers: 3, TotalQuestions: 12}))
	require.InDelta(t, 50.0, st.Accuracy, 0.0001)
}

func TestPomodoroStats(t *testing.T) {
	empty := Pomodoro(nil)
	require.Equal(t, float64(DefaultPomodoroMinutes), empty.AvgDurationMinutes)
	require.Equal(t, 0, empty.Display)

	sessions := []*types.StudySession{
		{Technique: "Pomodoro", DurationMinutes: 20, Status: "Completed"},
		{Technique: "pomodoro", DurationMinutes: 30, Completed: bp(true), PomodoroCount: 2},
		{Technique: "pomodoro", DurationMinutes: 40, Status: "abandoned"},
		{Technique: "spaced", DurationMinutes: 5},
	}
	st := Pomodoro(sessions)
	require.Equal(t, 3, st.Sessions)
	require.Equal(t, 30.0, st.AvgDurationMinutes)
	require.InDelta(t, 66.666, st.CompletionRatio, 0.01)
	require.Equal(t, 2, st.TotalPomodoros)
	require.Equal(t, 2, st.Display)
	require.InDelta(t, 0.1, st.PerDay, 0.0001)
}

func TestSpacedRepetitionAccuracy(t *testing.T) {
	require.Equal(t, 0.0, SpacedRepetition(nil).Accuracy)
	st := SpacedRepetition([]*types.StudySession{
		{Technique: "spaced_repetition", CardsCorrect: 1},
		{Technique: "Spaced", CardsCorrect: 0},
	})
	require.Equal(t, 2, st.CardsReviewed)
	require.Equal(t, 50.0, st.Accuracy)
}

func TestCountTechniquesAndRawBreakdown(t *testing.T) {
	sessions := []*types.StudySession{
		{Technique: "pomodoro"}, {Technique: "Active Recall"}, {Technique: "spacedrepetition"},
		{Technique: "mind map"}, {Technique: ""},
	}
	c := CountTechniques(sessions)
	require.Equal(t, TechniqueCounts{Pomodoro: 1, ActiveRecall: 1, SpacedRepetition: 1, Unclassified: 2}, c)
	require.Equal(t, len(sessions), c.Total())

	raw := RawTechniqueBreakdown(sessions)
	require.Equal(t, "Unknown", raw[len(raw)-1].Label)
}

func TestTimelineZeroFilled(t *testing.T) {
	tasks := []*types.Task{
		{CreatedAt: tp(now)},
		{CreatedAt: tp(now.AddDate(0, 0, -29))},
		{CreatedAt: tp(now.AddDate(0, 0, -30))},
		{},
	}
	got := Timeline(tasks, now, utc, TimelineDays)
	require.Len(t, got, 30)
	require.Equal(t, Bucket{Label: "2/17", Value: 1}, got[0])
	require.Equal(t, Bucket{Label: "3/18", Value: 1}, got[29])
}

func TestStatusesAndCompletedToday(t *testing.T) {
	tasks := []*types.Task{
		{Status: "completed", CompletedAt: tp(now.Add(-time.Hour))},
		{Status: "completed", CompletedAt: tp(now.AddDate(0, 0, -2))},
		{Status: "completed"},
		{Status: ""},
		{Status: "pending"},
		{Status: "overdue"},
		{Status: "archived"},
	}
	require.Equal(t, StatusBreakdown{Completed: 3, Pending: 2, Overdue: 1}, Statuses(tasks))
	require.Equal(t, 1, CompletedSince(tasks, now, utc))
}

func TestOverviewKeepsBothCompletedVariants(t *testing.T) {
	in := Inputs{
		Users: []types.UserSummary{{TasksCompleted: 7, TotalTasks: 9}, {TasksCompleted: 5, TotalTasks: 5}},
		Tasks: []*types.Task{{Status: "completed", CompletedAt: tp(now)}},
	}
	o := ComputeOverview(in, now, utc, DefaultThresholds())
	require.Equal(t, int64(14), o.TotalTasks)
	require.Equal(t, int64(12), o.TasksCompleted)
	require.Equal(t, 1, o.TasksCompletedToday)
}

func TestAchievementRanking(t *testing.T) {
	items := []*types.Achievement{
		{Title: "Early Bird", Category: "Habits"},
		{Name: "Streaker"},
		{Name: "Streaker"},
		{},
	}
	got := AchievementRanking(items, DefaultAchievementLimit)
	require.Equal(t, []AchievementStat{
		{Title: "Streaker", Category: "General", Count: 2},
		{Title: "Early Bird", Category: "Habits", Count: 1},
		{Title: UnknownAchievement, Category: "General", Count: 1},
	}, got)
}

func TestEconomy(t *testing.T) {
	e := Economy([]types.UserSummary{
		{TotalPointsEarned: 500, StudyPoints: 200, XP: 900},
		{XP: 40},
	})
	require.Equal(t, PointsEconomy{TotalEarned: 540, CurrentBalance: 240}, e)
}

func TestLoadThresholds(t *testing.T) {
	th, err := LoadThresholds("")
	require.NoError(t, err)
	require.Equal(t, DefaultThresholds(), th)

	path := filepath.Join(t.TempDir(), "insights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks_completed_today: 2\n"), 0o600))
	th, err = LoadThresholds(path)
	require.NoError(t, err)
	require.Equal(t, 2, th.TasksCompletedToday)
	require.Equal(t, 1000.0, th.StudyMinutes)
}
