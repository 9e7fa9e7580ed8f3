package model

import "time"

// Badge ids awarded by the exam engine, evaluated in this order.
const (
	BadgeFirstExam    = "first-exam"
	BadgeHighScorer   = "high-scorer"
	BadgeTaskMaster   = "task-master"
	BadgeExamVeteran  = "exam-veteran"
	BadgePerfectScore = "perfect-score"
)

type badgeInfo struct {
	Name        string
	Description string
}

// BadgeCatalog carries the display names the client shows. German is
// domain vocabulary here, not translation debt.
var BadgeCatalog = map[string]badgeInfo{
	BadgeFirstExam:    {Name: "Erster Test", Description: "Du hast deinen ersten Test abgeschlossen."},
	BadgeHighScorer:   {Name: "High-Scorer", Description: "Mindestens 80% in einem Test erreicht."},
	BadgeTaskMaster:   {Name: "Aufgaben-Meister", Description: "Insgesamt 50 Aufgaben richtig gelöst."},
	BadgeExamVeteran:  {Name: "Test-Veteran", Description: "Fünf Tests absolviert."},
	BadgePerfectScore: {Name: "Perfekte Punktzahl", Description: "100% in einem Test erreicht."},
}

// NewBadge builds a catalog badge with the given award time. The bool
// is false for unknown ids.
func NewBadge(id string, awardedAt time.Time) (Badge, bool) {
	info, ok := BadgeCatalog[id]
	if !ok {
		return Badge{}, false
	}
	return Badge{
		ID:          id,
		Name:        info.Name,
		Description: info.Description,
		AwardedAt:   awardedAt,
	}, true
}
