package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ManuscriptTracker/internal/config"
	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/journals"
	"ManuscriptTracker/internal/parser"
	"ManuscriptTracker/internal/ports"
	"ManuscriptTracker/internal/scanner"
)

// RegistrySource implements ManuscriptSource via registered platform
// scanners, one scan per configured journal.
type RegistrySource struct {
	registry *scanner.Registry
	journals []config.JournalConfig
	logger   *slog.Logger
}

var _ ports.ManuscriptSource = (*RegistrySource)(nil)

// NewRegistrySource wires the scanner registry with config-defined journals.
func NewRegistrySource(reg *scanner.Registry, journalCfgs []config.JournalConfig, log *slog.Logger) *RegistrySource {
	return &RegistrySource{
		registry: reg,
		journals: journalCfgs,
		logger:   log,
	}
}

// FetchPending scans every configured journal. A journal whose scan fails
// is logged and skipped so one dead session does not starve the rest of an
// unattended run; the error is only returned when no journal succeeds.
func (s *RegistrySource) FetchPending(ctx context.Context, at time.Time) ([]domain.JournalScrape, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch pending", "journals", len(s.journals))

	var (
		scrapes []domain.JournalScrape
		lastErr error
	)
	for _, jc := range s.journals {
		desc, err := resolveDescriptor(jc)
		if err != nil {
			return nil, err
		}

		strategy, err := s.registry.Resolve(desc.Platform)
		if err != nil {
			return nil, fmt.Errorf("journal %s: %w", desc.Code, err)
		}

		req := scanner.Request{
			Journal:       desc,
			URL:           jc.URL,
			SessionCookie: sessionCookie(jc),
			At:            at,
		}

		manuscripts, notices, err := strategy.Scan(ctx, req)
		if err != nil {
			s.warn("scan failed", "journal", desc.Code, "error", err)
			lastErr = err
			continue
		}

		s.debug("journal scanned", "journal", desc.Code,
			"manuscripts", len(manuscripts), "notices", len(notices))
		scrapes = append(scrapes, domain.JournalScrape{
			Journal:     desc.Code,
			Platform:    desc.Platform,
			ScrapedAt:   at,
			Manuscripts: manuscripts,
			Notices:     notices,
		})
	}

	if len(scrapes) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all journals failed, last error: %w", lastErr)
	}
	return scrapes, nil
}

// resolveDescriptor looks the journal up in the built-in table and applies
// config overrides; unknown codes must supply platform and ID pattern.
func resolveDescriptor(jc config.JournalConfig) (journals.Descriptor, error) {
	desc, err := journals.Resolve(jc.Code)
	if err != nil {
		if jc.Platform == "" || jc.IDPattern == "" {
			return journals.Descriptor{}, fmt.Errorf(
				"journal %s: not built in, config must set platform and idPattern", jc.Code)
		}
		desc, err = journals.Custom(jc.Code, jc.Platform, jc.IDPattern, parser.DefaultLayout())
		if err != nil {
			return journals.Descriptor{}, err
		}
	}

	if jc.Platform != "" {
		desc.Platform = jc.Platform
	}
	if jc.Layout != nil {
		desc.Layout = jc.Layout.Apply(desc.Layout)
	}
	return desc, nil
}

func sessionCookie(jc config.JournalConfig) string {
	if jc.SessionCookieEnv == "" {
		return ""
	}
	return os.Getenv(jc.SessionCookieEnv)
}

func (s *RegistrySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *RegistrySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
