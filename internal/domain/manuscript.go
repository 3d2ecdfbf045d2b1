package domain

import "time"

// RefereeStatus is the closed classification of a referee's progress on a
// manuscript, derived from the free-text status column of the editorial
// platform's pending-manuscripts table.
type RefereeStatus string

const (
	StatusInvited         RefereeStatus = "Invited"
	StatusAccepted        RefereeStatus = "Accepted"
	StatusDeclined        RefereeStatus = "Declined"
	StatusReportSubmitted RefereeStatus = "ReportSubmitted"
	StatusOverdue         RefereeStatus = "Overdue"
	StatusHasDueDate      RefereeStatus = "HasDueDate"
	StatusUnknown         RefereeStatus = "Unknown"
)

// Referee is one reviewer attached to a manuscript. StatusDetail keeps the
// raw platform text that produced Status for auditing; DueDate is the
// verbatim date string from the due-date column, empty when the platform
// rendered no segment for this referee.
type Referee struct {
	Name         string
	Status       RefereeStatus
	StatusDetail string
	DueDate      string
}

// Manuscript is one row of a pending-manuscripts listing. All text fields
// are verbatim cell contents; no normalization is applied. Referee order is
// the document order of the name anchors in the source row.
type Manuscript struct {
	ManuscriptID        string
	Title               string
	CorrespondingEditor string
	AssociateEditor     string
	Submitted           string
	DaysInSystem        string
	Referees            []Referee
}

// AlignmentNotice flags a row whose referee-name, status, and due-date
// columns did not render the same number of line-break segments. The row is
// still emitted with best-effort positional pairing; the notice lets callers
// see that statuses may be attributed to the wrong referee.
type AlignmentNotice struct {
	ManuscriptID    string
	RefereeCount    int
	StatusSegments  int
	DueDateSegments int
}

// JournalScrape is the outcome of scanning one journal's dashboard.
type JournalScrape struct {
	Journal     string
	Platform    string
	ScrapedAt   time.Time
	Manuscripts []Manuscript
	Notices     []AlignmentNotice
}

// ScrapeReport is the persisted envelope for one journal within a run.
type ScrapeReport struct {
	RunID       string
	Journal     string
	Platform    string
	ScrapedAt   time.Time
	Manuscripts []Manuscript
	Notices     []AlignmentNotice
}

// RefereeSnapshot is the per-referee state persisted to Postgres so repeat
// runs can tell which (manuscript, referee, status) combinations were
// already observed.
type RefereeSnapshot struct {
	Journal      string
	ManuscriptID string
	RefereeName  string
	Status       RefereeStatus
	StatusDetail string
	DueDate      string
	SeenAt       time.Time
}

// Key identifies a snapshot for deduplication; a referee reappearing with a
// changed status yields a new key.
func (s RefereeSnapshot) Key() string {
	return s.Journal + "|" + s.ManuscriptID + "|" + s.RefereeName + "|" + string(s.Status)
}
