package ports

import (
	"context"
	"time"

	"ManuscriptTracker/internal/domain"
)

// ManuscriptSource pulls pending-manuscript listings from the configured
// journal dashboards.
type ManuscriptSource interface {
	FetchPending(ctx context.Context, at time.Time) ([]domain.JournalScrape, error)
}

// SnapshotRepository persists observed referee states for deduplication
// and audit across runs.
type SnapshotRepository interface {
	KnownStates(ctx context.Context, keys []string) (map[string]bool, error)
	SaveSnapshot(ctx context.Context, snapshot domain.RefereeSnapshot) error
}

// ReportSink writes one scrape report and returns where it landed.
type ReportSink interface {
	Write(ctx context.Context, report domain.ScrapeReport) (string, error)
}

// Notifier delivers run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when scrape runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
