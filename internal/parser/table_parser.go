package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ManuscriptTracker/internal/domain"
)

// ColumnLayout maps record fields to cell indices within a manuscript row.
// Platforms render different column orders; a journal descriptor supplies
// the right layout instead of the parser assuming one. An index of -1 marks
// a column the platform does not render at all.
type ColumnLayout struct {
	ManuscriptID        int
	Title               int
	CorrespondingEditor int
	AssociateEditor     int
	Submitted           int
	DaysInSystem        int
	RefereeNames        int
	RefereeStatus       int
	DueDates            int
}

// DefaultLayout is the nine-column ScholarOne AE Center ordering.
func DefaultLayout() ColumnLayout {
	return ColumnLayout{
		ManuscriptID:        0,
		Title:               1,
		CorrespondingEditor: 2,
		AssociateEditor:     3,
		Submitted:           4,
		DaysInSystem:        5,
		RefereeNames:        6,
		RefereeStatus:       7,
		DueDates:            8,
	}
}

var brTag = regexp.MustCompile(`(?i)<br[^>]*>`)

// ParseManuscriptTable turns one HTML table into manuscript records with
// positionally reconciled referees. The i-th name anchor pairs with the
// i-th <br>-delimited status fragment and the i-th due-date fragment.
//
// Rows whose ID cell does not match idPattern are skipped as header or
// separator rows. Shape anomalies never fail the call: missing status
// segments degrade to StatusUnknown, missing due dates to empty, and rows
// whose segment counts disagree are reported through the returned notices.
// Only HTML the tokenizer cannot read at all yields an error.
func ParseManuscriptTable(tableHTML string, idPattern *regexp.Regexp, layout ColumnLayout) ([]domain.Manuscript, []domain.AlignmentNotice, error) {
	if idPattern == nil {
		return nil, nil, fmt.Errorf("nil manuscript id pattern")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, nil, fmt.Errorf("parse table html: %w", err)
	}

	var (
		manuscripts []domain.Manuscript
		notices     []domain.AlignmentNotice
	)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")

		id := idPattern.FindString(cellText(cells, layout.ManuscriptID))
		if id == "" {
			return
		}

		ms := domain.Manuscript{
			ManuscriptID:        id,
			Title:               cellText(cells, layout.Title),
			CorrespondingEditor: cellText(cells, layout.CorrespondingEditor),
			AssociateEditor:     cellText(cells, layout.AssociateEditor),
			Submitted:           cellText(cells, layout.Submitted),
			DaysInSystem:        cellText(cells, layout.DaysInSystem),
		}

		names := refereeNames(cell(cells, layout.RefereeNames))
		statuses := trimTrailingEmpty(cellSegments(cells, layout.RefereeStatus), len(names))
		dueDates := trimTrailingEmpty(cellSegments(cells, layout.DueDates), len(names))

		for i, name := range names {
			ref := domain.Referee{Name: name, Status: domain.StatusUnknown}
			if i < len(statuses) {
				ref.Status, ref.StatusDetail = ClassifyStatus(statuses[i])
			}
			if i < len(dueDates) {
				ref.DueDate = dueDates[i]
			}
			ms.Referees = append(ms.Referees, ref)
		}

		if misaligned(layout, len(names), len(statuses), len(dueDates)) {
			notices = append(notices, domain.AlignmentNotice{
				ManuscriptID:    id,
				RefereeCount:    len(names),
				StatusSegments:  len(statuses),
				DueDateSegments: len(dueDates),
			})
		}

		manuscripts = append(manuscripts, ms)
	})

	return manuscripts, notices, nil
}

func misaligned(layout ColumnLayout, names, statuses, dueDates int) bool {
	if names == 0 {
		return false
	}
	if layout.RefereeStatus >= 0 && statuses != names {
		return true
	}
	// Due dates commonly trail off once a referee reports, so fewer
	// segments than names is only suspicious when there are more.
	return layout.DueDates >= 0 && dueDates > names
}

func cell(cells *goquery.Selection, idx int) *goquery.Selection {
	if idx < 0 || idx >= cells.Length() {
		return nil
	}
	return cells.Eq(idx)
}

func cellText(cells *goquery.Selection, idx int) string {
	c := cell(cells, idx)
	if c == nil {
		return ""
	}
	return cleanText(c.Text())
}

// refereeNames returns the anchor texts of the name cell in document order.
// On ScholarOne listings the first <br> group holds the manuscript's author
// link followed by the first referee, so when the cell carries more anchors
// than <br> groups the leading anchor is the author and is dropped.
func refereeNames(c *goquery.Selection) []string {
	if c == nil {
		return nil
	}

	var names []string
	c.Find("a").Each(func(_ int, a *goquery.Selection) {
		if name := cleanText(a.Text()); name != "" {
			names = append(names, name)
		}
	})
	if len(names) == 0 {
		return nil
	}

	raw, err := c.Html()
	if err != nil {
		return names
	}
	groups := len(brTag.Split(raw, -1))
	if len(names) > groups {
		names = names[1:]
	}
	return names
}

// cellSegments splits a cell's inner HTML on <br> boundaries and reduces
// each fragment to its text content. Interior empty fragments are kept so
// segment positions stay aligned with the name column.
func cellSegments(cells *goquery.Selection, idx int) []string {
	c := cell(cells, idx)
	if c == nil {
		return nil
	}

	raw, err := c.Html()
	if err != nil {
		return nil
	}

	parts := brTag.Split(raw, -1)
	segments := make([]string, len(parts))
	for i, part := range parts {
		segments[i] = fragmentText(part)
	}
	return segments
}

// trimTrailingEmpty drops trailing empty segments, but never below the
// referee count: an empty segment at a referee's position is meaningful
// (invited, no status text yet), while empties past the last referee are
// rendering artifacts of a trailing <br>.
func trimTrailingEmpty(segments []string, keep int) []string {
	for len(segments) > keep && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}

// fragmentText strips markup from one inter-<br> HTML fragment.
func fragmentText(fragment string) string {
	td := &html.Node{Type: html.ElementNode, Data: "td", DataAtom: atom.Td}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), td)
	if err != nil {
		return cleanText(html.UnescapeString(fragment))
	}

	var sb strings.Builder
	for _, node := range nodes {
		collectText(node, &sb)
	}
	return cleanText(sb.String())
}

func collectText(node *html.Node, sb *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		sb.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, sb)
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
