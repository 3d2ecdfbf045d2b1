package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ManuscriptSource
	Repository ports.SnapshotRepository
	Sink       ports.ReportSink
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements the scrape-report-notify workflow.
type Pipeline struct {
	source     ports.ManuscriptSource
	repository ports.SnapshotRepository
	sink       ports.ReportSink
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		sink:       deps.Sink,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// ProcessRun orchestrates one scrape run: fetch every journal's pending
// table, write per-journal reports, record referee states, and publish a
// digest of states not seen before.
func (p *Pipeline) ProcessRun(ctx context.Context, at time.Time) error {
	if p.source == nil {
		return nil
	}

	runID := uuid.NewString()
	p.debug("run started", "run_id", runID)

	scrapes, err := p.source.FetchPending(ctx, at)
	if err != nil {
		return fmt.Errorf("fetch pending: %w", err)
	}

	var digest []string
	for _, scrape := range scrapes {
		report := domain.ScrapeReport{
			RunID:       runID,
			Journal:     scrape.Journal,
			Platform:    scrape.Platform,
			ScrapedAt:   scrape.ScrapedAt,
			Manuscripts: scrape.Manuscripts,
			Notices:     scrape.Notices,
		}

		if p.sink != nil {
			path, err := p.sink.Write(ctx, report)
			if err != nil {
				return fmt.Errorf("write report %s: %w", scrape.Journal, err)
			}
			p.debug("report written", "journal", scrape.Journal, "path", path)
		}

		for _, notice := range scrape.Notices {
			p.warn("column segments misaligned",
				"journal", scrape.Journal,
				"manuscript", notice.ManuscriptID,
				"referees", notice.RefereeCount,
				"status_segments", notice.StatusSegments,
				"due_date_segments", notice.DueDateSegments)
		}

		fresh, err := p.recordSnapshots(ctx, scrape)
		if err != nil {
			return err
		}
		digest = append(digest, digestLines(scrape, fresh)...)
	}

	if len(digest) == 0 || p.notifier == nil {
		return nil
	}
	return p.notifier.PublishDigest(ctx, strings.Join(digest, "\n"))
}

// recordSnapshots persists every referee state and returns the ones not
// seen in an earlier run.
func (p *Pipeline) recordSnapshots(ctx context.Context, scrape domain.JournalScrape) ([]domain.RefereeSnapshot, error) {
	snapshots := collectSnapshots(scrape)
	if p.repository == nil || len(snapshots) == 0 {
		return snapshots, nil
	}

	keys := make([]string, len(snapshots))
	for i, s := range snapshots {
		keys[i] = s.Key()
	}

	known, err := p.repository.KnownStates(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load known states %s: %w", scrape.Journal, err)
	}

	var fresh []domain.RefereeSnapshot
	for _, snapshot := range snapshots {
		if err := p.repository.SaveSnapshot(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("save snapshot %s: %w", scrape.Journal, err)
		}
		if !known[snapshot.Key()] {
			fresh = append(fresh, snapshot)
		}
	}
	return fresh, nil
}

func collectSnapshots(scrape domain.JournalScrape) []domain.RefereeSnapshot {
	var snapshots []domain.RefereeSnapshot
	for _, ms := range scrape.Manuscripts {
		for _, ref := range ms.Referees {
			snapshots = append(snapshots, domain.RefereeSnapshot{
				Journal:      scrape.Journal,
				ManuscriptID: ms.ManuscriptID,
				RefereeName:  ref.Name,
				Status:       ref.Status,
				StatusDetail: ref.StatusDetail,
				DueDate:      ref.DueDate,
				SeenAt:       scrape.ScrapedAt,
			})
		}
	}
	return snapshots
}

// digestLines formats the notification: newly observed referee states worth
// an editor's attention, plus a warning when positional alignment slipped.
func digestLines(scrape domain.JournalScrape, fresh []domain.RefereeSnapshot) []string {
	var lines []string
	for _, s := range fresh {
		switch s.Status {
		case domain.StatusOverdue, domain.StatusDeclined, domain.StatusReportSubmitted:
			line := fmt.Sprintf("%s %s: %s is now %s", s.Journal, s.ManuscriptID, s.RefereeName, s.Status)
			if s.DueDate != "" {
				line += fmt.Sprintf(" (due %s)", s.DueDate)
			}
			lines = append(lines, line)
		}
	}
	if len(scrape.Notices) > 0 {
		lines = append(lines, fmt.Sprintf(
			"%s: %d row(s) with misaligned referee columns, check the report",
			scrape.Journal, len(scrape.Notices)))
	}
	return lines
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
