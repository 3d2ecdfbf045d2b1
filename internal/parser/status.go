package parser

import (
	"regexp"
	"strings"

	"ManuscriptTracker/internal/domain"
)

// statusRule pairs a predicate with the status it assigns. Rules are
// evaluated top to bottom, so precedence lives in the table order rather
// than in code: "declined" wins over "accepted" when a fragment mentions
// both.
type statusRule struct {
	applies func(string) bool
	status  domain.RefereeStatus
}

// ISO dates and the d-Mon-yyyy form ScholarOne prints in status text.
var statusDateExpr = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}-[A-Za-z]{3}-\d{4}`)

var statusRules = []statusRule{
	{containsAny("declined"), domain.StatusDeclined},
	{containsAny("accepted"), domain.StatusAccepted},
	{containsAny("submitted", "report"), domain.StatusReportSubmitted},
	{containsAny("overdue"), domain.StatusOverdue},
	{statusDateExpr.MatchString, domain.StatusHasDueDate},
}

func containsAny(needles ...string) func(string) bool {
	return func(fragment string) bool {
		lower := strings.ToLower(fragment)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return true
			}
		}
		return false
	}
}

// ClassifyStatus maps one free-text status fragment to the closed status
// enumeration and returns the raw fragment as audit detail. An empty or
// whitespace-only fragment is the platform convention for a referee who was
// invited and has not reacted yet, so it classifies as Invited with no
// detail. Unrecognized text also classifies as Invited but keeps the text.
func ClassifyStatus(fragment string) (domain.RefereeStatus, string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return domain.StatusInvited, ""
	}
	for _, rule := range statusRules {
		if rule.applies(fragment) {
			return rule.status, fragment
		}
	}
	return domain.StatusInvited, fragment
}
