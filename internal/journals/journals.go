package journals

import (
	"fmt"
	"regexp"
	"sort"

	"ManuscriptTracker/internal/parser"
)

// Platform names understood by the scanner registry.
const (
	PlatformScholarOne       = "scholarone"
	PlatformEditorialManager = "editorialmanager"
	PlatformSIAM             = "siam"
)

// Descriptor binds a journal code to everything the scrapers need to know
// about it: which platform hosts it, what its manuscript IDs look like, and
// how its pending table lays out its columns.
type Descriptor struct {
	Code      string
	Platform  string
	IDPattern *regexp.Regexp
	Layout    parser.ColumnLayout
}

// Known journals. ID shapes differ per platform: SIAM sites use bare
// M-numbers, ScholarOne sites prefix the journal acronym, and the legacy
// Editorial Manager SICON site used its own dashed scheme.
var table = map[string]Descriptor{
	"sicon": {
		Code:      "sicon",
		Platform:  PlatformSIAM,
		IDPattern: regexp.MustCompile(`M\d{6}`),
		Layout:    parser.DefaultLayout(),
	},
	"siopt": {
		Code:      "siopt",
		Platform:  PlatformSIAM,
		IDPattern: regexp.MustCompile(`M\d{6}`),
		Layout:    parser.DefaultLayout(),
	},
	"mafi": {
		Code:      "mafi",
		Platform:  PlatformScholarOne,
		IDPattern: regexp.MustCompile(`MAFI-\d{4}-\d+`),
		Layout:    parser.DefaultLayout(),
	},
	"mor": {
		Code:      "mor",
		Platform:  PlatformScholarOne,
		IDPattern: regexp.MustCompile(`MOR-\d{4}-\d+`),
		Layout:    parser.DefaultLayout(),
	},
	"sicon-em": {
		Code:      "sicon-em",
		Platform:  PlatformEditorialManager,
		IDPattern: regexp.MustCompile(`SICON-\d+-\d+`),
		Layout:    editorialManagerLayout(),
	},
}

// Editorial Manager omits the due-date column from the pending view.
func editorialManagerLayout() parser.ColumnLayout {
	layout := parser.DefaultLayout()
	layout.DueDates = -1
	return layout
}

// Resolve returns the descriptor for a journal code.
func Resolve(code string) (Descriptor, error) {
	if d, ok := table[code]; ok {
		return d, nil
	}
	return Descriptor{}, fmt.Errorf("journal %s is not registered", code)
}

// Codes lists the registered journal codes, sorted for stable output.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Custom builds a descriptor from config-supplied values for journals that
// are not in the built-in table.
func Custom(code, platform, idPattern string, layout parser.ColumnLayout) (Descriptor, error) {
	expr, err := regexp.Compile(idPattern)
	if err != nil {
		return Descriptor{}, fmt.Errorf("journal %s: invalid id pattern: %w", code, err)
	}
	return Descriptor{Code: code, Platform: platform, IDPattern: expr, Layout: layout}, nil
}
