package journals

import (
	"testing"

	"ManuscriptTracker/internal/parser"
)

func TestResolveKnownJournals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code     string
		platform string
		sampleID string
	}{
		{"sicon", PlatformSIAM, "M172838"},
		{"siopt", PlatformSIAM, "M200101"},
		{"mafi", PlatformScholarOne, "MAFI-2024-0071"},
		{"mor", PlatformScholarOne, "MOR-2025-1037"},
		{"sicon-em", PlatformEditorialManager, "SICON-25-1037"},
	}

	for _, tc := range cases {
		desc, err := Resolve(tc.code)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.code, err)
		}
		if desc.Platform != tc.platform {
			t.Fatalf("journal %s: platform %s, want %s", tc.code, desc.Platform, tc.platform)
		}
		if !desc.IDPattern.MatchString(tc.sampleID) {
			t.Fatalf("journal %s: pattern %s does not match %s", tc.code, desc.IDPattern, tc.sampleID)
		}
	}
}

func TestResolveUnknownJournal(t *testing.T) {
	t.Parallel()

	if _, err := Resolve("nonexistent"); err == nil {
		t.Fatal("expected error for unknown journal code")
	}
}

func TestEditorialManagerLayoutHasNoDueDates(t *testing.T) {
	t.Parallel()

	desc, err := Resolve("sicon-em")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if desc.Layout.DueDates != -1 {
		t.Fatalf("expected due-date column marked absent, got %d", desc.Layout.DueDates)
	}
}

func TestCustomDescriptor(t *testing.T) {
	t.Parallel()

	desc, err := Custom("test", PlatformScholarOne, `TEST-\d+`, parser.DefaultLayout())
	if err != nil {
		t.Fatalf("Custom: %v", err)
	}
	if !desc.IDPattern.MatchString("TEST-42") {
		t.Fatal("custom pattern does not match")
	}

	if _, err := Custom("bad", PlatformScholarOne, `TEST-(\d+`, parser.DefaultLayout()); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestCodesSorted(t *testing.T) {
	t.Parallel()

	codes := Codes()
	if len(codes) < 5 {
		t.Fatalf("expected at least 5 built-in journals, got %d", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}
