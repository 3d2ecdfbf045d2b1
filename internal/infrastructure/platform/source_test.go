package platform

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ManuscriptTracker/internal/config"
	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/scanner"
)

type stubScanner struct {
	name    string
	scanned []scanner.Request
	result  []domain.Manuscript
	err     error
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Manuscript, []domain.AlignmentNotice, error) {
	s.scanned = append(s.scanned, req)
	return s.result, nil, s.err
}

func TestRegistrySourceFetchPending(t *testing.T) {
	t.Parallel()

	stub := &stubScanner{
		name:   "siam",
		result: []domain.Manuscript{{ManuscriptID: "M172838"}},
	}
	reg := scanner.NewRegistry()
	reg.Register(stub)

	source := NewRegistrySource(reg, []config.JournalConfig{
		{Code: "sicon", URL: "https://example.org/dashboard"},
	}, nil)

	at := time.Date(2025, time.August, 1, 6, 0, 0, 0, time.UTC)
	scrapes, err := source.FetchPending(context.Background(), at)
	if err != nil {
		t.Fatalf("FetchPending error: %v", err)
	}

	if len(scrapes) != 1 {
		t.Fatalf("expected 1 scrape, got %d", len(scrapes))
	}
	if scrapes[0].Journal != "sicon" || scrapes[0].Platform != "siam" {
		t.Fatalf("unexpected scrape: %+v", scrapes[0])
	}
	if !scrapes[0].ScrapedAt.Equal(at) {
		t.Fatalf("unexpected scrape time: %v", scrapes[0].ScrapedAt)
	}

	if len(stub.scanned) != 1 {
		t.Fatalf("expected 1 scan, got %d", len(stub.scanned))
	}
	req := stub.scanned[0]
	if req.URL != "https://example.org/dashboard" {
		t.Fatalf("unexpected request url: %s", req.URL)
	}
	if !req.Journal.IDPattern.MatchString("M172838") {
		t.Fatal("built-in descriptor not resolved")
	}
}

func TestRegistrySourceSkipsFailedJournal(t *testing.T) {
	t.Parallel()

	working := &stubScanner{
		name:   "siam",
		result: []domain.Manuscript{{ManuscriptID: "M100000"}},
	}
	broken := &stubScanner{
		name: "scholarone",
		err:  fmt.Errorf("session expired"),
	}
	reg := scanner.NewRegistry()
	reg.Register(working)
	reg.Register(broken)

	source := NewRegistrySource(reg, []config.JournalConfig{
		{Code: "mor", URL: "https://example.org/mor"},
		{Code: "sicon", URL: "https://example.org/sicon"},
	}, nil)

	scrapes, err := source.FetchPending(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("one failing journal must not fail the run: %v", err)
	}
	if len(scrapes) != 1 || scrapes[0].Journal != "sicon" {
		t.Fatalf("expected only the working journal, got %+v", scrapes)
	}
}

func TestRegistrySourceAllJournalsFailed(t *testing.T) {
	t.Parallel()

	broken := &stubScanner{name: "siam", err: fmt.Errorf("boom")}
	reg := scanner.NewRegistry()
	reg.Register(broken)

	source := NewRegistrySource(reg, []config.JournalConfig{
		{Code: "sicon", URL: "https://example.org"},
	}, nil)

	if _, err := source.FetchPending(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error when every journal fails")
	}
}

func TestResolveDescriptorOverrides(t *testing.T) {
	t.Parallel()

	due := -1
	desc, err := resolveDescriptor(config.JournalConfig{
		Code:   "mor",
		Layout: &config.LayoutConfig{DueDates: &due},
	})
	if err != nil {
		t.Fatalf("resolveDescriptor: %v", err)
	}
	if desc.Layout.DueDates != -1 {
		t.Fatalf("layout override not applied: %d", desc.Layout.DueDates)
	}
	if desc.Layout.RefereeNames != 6 {
		t.Fatalf("unrelated layout field changed: %d", desc.Layout.RefereeNames)
	}
}

func TestResolveDescriptorCustomJournal(t *testing.T) {
	t.Parallel()

	desc, err := resolveDescriptor(config.JournalConfig{
		Code:      "naco",
		Platform:  "scholarone",
		IDPattern: `NACO-\d{4}-\d+`,
	})
	if err != nil {
		t.Fatalf("resolveDescriptor: %v", err)
	}
	if !desc.IDPattern.MatchString("NACO-2025-17") {
		t.Fatal("custom pattern not compiled")
	}

	if _, err := resolveDescriptor(config.JournalConfig{Code: "mystery"}); err == nil {
		t.Fatal("expected error for unknown journal without platform/pattern")
	}
}
