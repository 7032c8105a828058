package aggregate

import (
	"sort"

	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

const (
	DefaultAchievementLimit = 10
	UnknownAchievement      = "Unknown Achievement"
)

type AchievementStat struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AchievementRanking groups unlocks by title. The category is taken from the
// first unlock seen for that title.
func AchievementRanking(items []*types.Achievement, limit int) []AchievementStat {
	var order []string
	byTitle := map[string]*AchievementStat{}
	for _, a := range items {
		if a == nil {
			continue
		}
		title := a.DisplayTitle(UnknownAchievement)
		st, ok := byTitle[title]
		if !ok {
			st = &AchievementStat{Title: title, Category: a.CategoryOrDefault()}
			byTitle[title] = st
			order = append(order, title)
		}
		st.Count++
	}
	out := make([]AchievementStat, 0, len(order))
	for _, t := range order {
		out = append(out, *byTitle[t])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type PointsEconomy struct {
	TotalEarned    int64 `json:"total_earned"`
	CurrentBalance int64 `json:"current_balance"`
}

func Economy(users []types.UserSummary) PointsEconomy {
	var e PointsEconomy
	for i := range users {
		e.TotalEarned += users[i].PointsEarned()
		e.CurrentBalance += users[i].PointsBalance()
	}
	return e
}

func (e PointsEconomy) Buckets() []Bucket {
	return []Bucket{
		{Label: "Total Earned", Value: float64(e.TotalEarned)},
		{Label: "Current Balance", Value: float64(e.CurrentBalance)},
	}
}
