package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/ports"
)

// FileSink writes one JSON report file per journal scrape.
type FileSink struct {
	dir string
}

var _ ports.ReportSink = (*FileSink)(nil)

// NewFileSink creates the target directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Write persists the report as <journal>_<timestamp>_<runid>.json and
// returns the file path.
func (s *FileSink) Write(ctx context.Context, rep domain.ScrapeReport) (string, error) {
	payload, err := Render(rep)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%s.json",
		rep.Journal, rep.ScrapedAt.UTC().Format("20060102T150405"), rep.RunID)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}

// Wire structs. The manuscript shape matches the format the downstream
// bookkeeping scripts already consume, so field names and nullability are
// fixed: empty status detail and due date serialize as null, not "".
type manuscriptJSON struct {
	ManuscriptID        string        `json:"manuscript_id"`
	Title               string        `json:"title"`
	CorrespondingEditor string        `json:"corresponding_editor"`
	AssociateEditor     string        `json:"associate_editor"`
	Submitted           string        `json:"submitted"`
	DaysInSystem        string        `json:"days_in_system"`
	Referees            []refereeJSON `json:"referees"`
}

type refereeJSON struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	StatusDetail *string `json:"status_detail"`
	DueDate      *string `json:"due_date"`
}

type noticeJSON struct {
	ManuscriptID    string `json:"manuscript_id"`
	RefereeCount    int    `json:"referee_count"`
	StatusSegments  int    `json:"status_segments"`
	DueDateSegments int    `json:"due_date_segments"`
}

type reportJSON struct {
	RunID            string           `json:"run_id"`
	Journal          string           `json:"journal"`
	Platform         string           `json:"platform"`
	ScrapedAt        string           `json:"scraped_at"`
	Manuscripts      []manuscriptJSON `json:"manuscripts"`
	AlignmentNotices []noticeJSON     `json:"alignment_notices,omitempty"`
}

// Render serializes a scrape report to indented JSON.
func Render(rep domain.ScrapeReport) ([]byte, error) {
	out := reportJSON{
		RunID:       rep.RunID,
		Journal:     rep.Journal,
		Platform:    rep.Platform,
		ScrapedAt:   rep.ScrapedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Manuscripts: make([]manuscriptJSON, 0, len(rep.Manuscripts)),
	}

	for _, ms := range rep.Manuscripts {
		m := manuscriptJSON{
			ManuscriptID:        ms.ManuscriptID,
			Title:               ms.Title,
			CorrespondingEditor: ms.CorrespondingEditor,
			AssociateEditor:     ms.AssociateEditor,
			Submitted:           ms.Submitted,
			DaysInSystem:        ms.DaysInSystem,
			Referees:            make([]refereeJSON, 0, len(ms.Referees)),
		}
		for _, ref := range ms.Referees {
			m.Referees = append(m.Referees, refereeJSON{
				Name:         ref.Name,
				Status:       string(ref.Status),
				StatusDetail: nullable(ref.StatusDetail),
				DueDate:      nullable(ref.DueDate),
			})
		}
		out.Manuscripts = append(out.Manuscripts, m)
	}

	for _, n := range rep.Notices {
		out.AlignmentNotices = append(out.AlignmentNotices, noticeJSON{
			ManuscriptID:    n.ManuscriptID,
			RefereeCount:    n.RefereeCount,
			StatusSegments:  n.StatusSegments,
			DueDateSegments: n.DueDateSegments,
		})
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return payload, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
