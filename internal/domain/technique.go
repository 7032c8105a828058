package domain

import "strings"

type Technique string

const (
	TechniquePomodoro         Technique = "Pomodoro"
	TechniqueActiveRecall     Technique = "Active Recall"
	TechniqueSpacedRepetition Technique = "Spaced Repetition"
	TechniqueUnclassified     Technique = "Unclassified"
)

// Techniques lists the classified variants in display order.
var Techniques = []Technique{TechniquePomodoro, TechniqueActiveRecall, TechniqueSpacedRepetition}

// ClassifyTechnique maps a free-text technique label onto a known technique.
//
// This is a heuristic over uncontrolled input: labels are lower-cased and
// matched by exact value or substring against a fixed synonym table, checked
// in the order pomodoro, active recall, spaced repetition. A label that
// mentions two techniques takes the first match. New vocabulary written by
// the app lands in Unclassified until it is added here.
func ClassifyTechnique(label string) Technique {
	tech := strings.ToLower(strings.TrimSpace(label))
	if tech == "" {
		return TechniqueUnclassified
	}
	switch {
	case tech == "pomodoro" || strings.Contains(tech, "pomodoro"):
		return TechniquePomodoro
	case tech == "active_recall" || tech == "activerecall" || strings.Contains(tech, "recall"):
		return TechniqueActiveRecall
	case tech == "spaced_repetition" || tech == "spacedrepetition" ||
		strings.Contains(tech, "spaced") || strings.Contains(tech, "repetition"):
		return TechniqueSpacedRepetition
	default:
		return TechniqueUnclassified
	}
}
