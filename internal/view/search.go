package view

import (
	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

type SearchResult struct {
	Query    string `json:"query"`
	Users    int    `json:"users"`
	Tasks    int    `json:"tasks"`
	Subjects int    `json:"subjects"`
	Feedback int    `json:"feedback"`
	Total    int    `json:"total"`
}

// GlobalSearch counts matches across the held collections. An empty query
// matches nothing.
func GlobalSearch(query string, users []types.UserSummary, tasks []*types.Task, subjects []*types.Subject, feedback []*types.Feedback) SearchResult {
	q := normalizeQuery(query)
	r := SearchResult{Query: query}
	if q == "" {
		return r
	}
	for _, u := range users {
		if contains(u.Name, q) || contains(u.Email, q) {
			r.Users++
		}
	}
	for _, t := range tasks {
		if t != nil && (contains(t.Title, q) || contains(t.Subject, q)) {
			r.Tasks++
		}
	}
	for _, s := range subjects {
		if s != nil && (contains(s.Code, q) || contains(s.Name, q)) {
			r.Subjects++
		}
	}
	for _, f := range feedback {
		if f != nil && contains(f.Body(), q) {
			r.Feedback++
		}
	}
	r.Total = r.Users + r.Tasks + r.Subjects + r.Feedback
	return r
}
