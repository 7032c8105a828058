package domain

import (
	"strings"
	"testing"
)

func TestClassifyTechniqueSynonyms(t *testing.T) {
	cases := map[string]Technique{
		"pomodoro":            TechniquePomodoro,
		"Pomodoro Sprint":     TechniquePomodoro,
		"active_recall":       TechniqueActiveRecall,
		"activerecall":        TechniqueActiveRecall,
		"Free Recall":         TechniqueActiveRecall,
		"spaced_repetition":   TechniqueSpacedRepetition,
		"spacedrepetition":    TechniqueSpacedRepetition,
		"Spaced review":       TechniqueSpacedRepetition,
		"repetition drills":   TechniqueSpacedRepetition,
		"feynman":             TechniqueUnclassified,
		"":                    TechniqueUnclassified,
		"   ":                 TechniqueUnclassified,
		"pomodoro and recall": TechniquePomodoro,
	}
	for label, want := range cases {
		for _, variant := range []string{label, strings.ToUpper(label), strings.ToLower(label)} {
			got := ClassifyTechnique(variant)
			if got != want {
				t.Fatalf("ClassifyTechnique(%q): want=%s got=%s", variant, want, got)
			}
			if again := ClassifyTechnique(variant); again != got {
				t.Fatalf("ClassifyTechnique(%q) not deterministic: %s then %s", variant, got, again)
			}
		}
	}
}

func TestClassifyTechniqueIdempotentOnOutput(t *testing.T) {
	for _, tech := range Techniques {
		if got := ClassifyTechnique(string(tech)); got != tech {
			t.Fatalf("ClassifyTechnique(%q): want=%s got=%s", tech, tech, got)
		}
	}
}

func TestResolvers(t *testing.T) {
	task := &Task{SubjectName: "  ", CourseCode: " CS101 "}
	if got := task.SubjectLabel(); got != "CS101" {
		t.Fatalf("SubjectLabel: want=CS101 got=%q", got)
	}
	if got := (&Task{}).SubjectLabel(); got != NoSubject {
		t.Fatalf("SubjectLabel empty: want=%q got=%q", NoSubject, got)
	}
	fb := &Feedback{Content: "slow sync", FeedbackText: "ignored"}
	if got := fb.Body(); got != "slow sync" {
		t.Fatalf("Body: want=%q got=%q", "slow sync", got)
	}
	ach := &Achievement{AchievementName: "Night Owl"}
	if got := ach.DisplayTitle("x"); got != "Night Owl" {
		t.Fatalf("DisplayTitle: want=%q got=%q", "Night Owl", got)
	}
	if got := ach.CategoryOrDefault(); got != DefaultAchievementCategory {
		t.Fatalf("CategoryOrDefault: got %q", got)
	}
	xp, exp := int64(3), int64(900)
	u := &User{XP: &xp, Experience: &exp}
	if v, ok := u.LegacyXP(); !ok || v != 900 {
		t.Fatalf("LegacyXP: want=900 got=%d", v)
	}
}

func TestLevelForXP(t *testing.T) {
	cases := map[int64]int{-5: 1, 0: 1, 999: 1, 1000: 2, 2500: 3}
	for xp, want := range cases {
		if got := LevelForXP(xp); got != want {
			t.Fatalf("LevelForXP(%d): want=%d got=%d", xp, want, got)
		}
	}
}
