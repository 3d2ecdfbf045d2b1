package parser

import (
	"testing"

	"ManuscriptTracker/internal/domain"
)

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		fragment   string
		want       domain.RefereeStatus
		wantDetail string
	}{
		{"Manuscript Declined by referee", domain.StatusDeclined, "Manuscript Declined by referee"},
		{"Report Submitted 2025-01-02", domain.StatusReportSubmitted, "Report Submitted 2025-01-02"},
		{"Overdue by 3 days", domain.StatusOverdue, "Overdue by 3 days"},
		{"", domain.StatusInvited, ""},
		{"   ", domain.StatusInvited, ""},
		{"Accepted 12-Jan-2025", domain.StatusAccepted, "Accepted 12-Jan-2025"},
		// Declined outranks accepted when a fragment mentions both.
		{"Accepted, later Declined", domain.StatusDeclined, "Accepted, later Declined"},
		{"2025-02-10", domain.StatusHasDueDate, "2025-02-10"},
		{"due 15-Mar-2025", domain.StatusHasDueDate, "due 15-Mar-2025"},
		{"Awaiting response", domain.StatusInvited, "Awaiting response"},
	}

	for _, tc := range cases {
		status, detail := ClassifyStatus(tc.fragment)
		if status != tc.want {
			t.Fatalf("ClassifyStatus(%q) = %s, want %s", tc.fragment, status, tc.want)
		}
		if detail != tc.wantDetail {
			t.Fatalf("ClassifyStatus(%q) detail = %q, want %q", tc.fragment, detail, tc.wantDetail)
		}
	}
}
