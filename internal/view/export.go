package view

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// WriteXLSX writes the report and the current tables as a workbook.
func WriteXLSX(w io.Writer, rep Report, src Source) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []sheet{overviewSheet(rep), usersSheet(src), chartsSheet(rep), subjectsSheet(src), feedbackSheet(src), auditSheet(src)}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, s sheet) error {
	for i, h := range s.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.name, cell, h); err != nil {
			return err
		}
	}
	for r, row := range s.rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(s.name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func overviewSheet(rep Report) sheet {
	o := rep.Overview
	p := rep.Performance
	return sheet{
		name:    "Overview",
		headers: []string{"Metric", "Value"},
		rows: [][]any{
			{"Generation", rep.Generation},
			{"Total users", o.TotalUsers},
			{"Active today", o.ActiveToday},
			{"Total tasks", o.TotalTasks},
			{"Tasks completed (all time)", o.TasksCompleted},
			{"Tasks completed today", o.TasksCompletedToday},
			{"Pomodoro sessions", o.Techniques.Pomodoro},
			{"Active recall sessions", o.Techniques.ActiveRecall},
			{"Spaced repetition sessions", o.Techniques.SpacedRepetition},
			{"Unclassified sessions", o.Techniques.Unclassified},
			{"Total study minutes", o.TotalStudyMinutes},
			{"Pomodoro completion %", p.Pomodoro.CompletionRatio},
			{"Pomodoro avg minutes", p.Pomodoro.AvgDurationMinutes},
			{"Active recall accuracy %", p.ActiveRecall.Accuracy},
			{"Spaced repetition accuracy %", p.SpacedRepetition.Accuracy},
			{"Points earned", rep.Economy.TotalEarned},
			{"Points balance", rep.Economy.CurrentBalance},
		},
	}
}

func usersSheet(src Source) sheet {
	s := sheet{name: "Users", headers: []string{"ID", "Name", "Email", "Level", "XP", "Streak", "Longest streak", "Tasks completed", "Total tasks", "Last active"}}
	for _, u := range src.Users {
		row := NewUserRow(u, src.Now)
		s.rows = append(s.rows, []any{u.ID.String(), row.Name, row.Email, row.Level, u.XP, u.Streak, u.LongestStreak, u.TasksCompleted, u.TotalTasks, row.LastActive})
	}
	return s
}

func chartsSheet(rep Report) sheet {
	s := sheet{name: "Charts", headers: []string{"Chart", "Label", "Value"}}
	for _, c := range rep.Charts {
		for _, b := range c.Buckets {
			s.rows = append(s.rows, []any{c.Title, b.Label, b.Value})
		}
	}
	return s
}

func subjectsSheet(src Source) sheet {
	s := sheet{name: "Subjects", headers: []string{"Code", "Name", "Category", "Department", "Color"}}
	for _, r := range FilterSubjects(src.Subjects, "") {
		s.rows = append(s.rows, []any{r.Code, r.Name, r.Category, r.Department, r.Color})
	}
	return s
}

func feedbackSheet(src Source) sheet {
	s := sheet{name: "Feedback", headers: []string{"User", "Type", "Category", "Status", "Rating", "Message", "Submitted"}}
	for _, r := range FilterFeedback(src.Feedback, UserNames(src.Users), "", src.Now) {
		s.rows = append(s.rows, []any{r.UserName, r.Type, r.Category, r.Status, r.Rating, r.Message, r.Submitted})
	}
	return s
}

func auditSheet(src Source) sheet {
	s := sheet{name: "Audit", headers: []string{"Type", "Message", "Admin", "When"}}
	for _, r := range FilterAuditLogs(src.AuditLogs, "", src.Now) {
		s.rows = append(s.rows, []any{r.Type, r.Message, r.AdminEmail, r.When})
	}
	return s
}
