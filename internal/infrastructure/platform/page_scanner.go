package platform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/parser"
	"ManuscriptTracker/internal/scanner"
)

const defaultUserAgent = "ManuscriptTracker/1.0"

// PageScanner fetches a journal dashboard over an already-established
// session and runs the table parser on the pending-manuscripts table. The
// platform constructors differ only in name, session cookie name, and
// extra headers; the scrape mechanics are shared.
type PageScanner struct {
	name       string
	cookieName string
	headers    map[string]string
	client     *resty.Client
	logger     *slog.Logger
}

var _ scanner.Scanner = (*PageScanner)(nil)

func newPageScanner(name, cookieName string, headers map[string]string, client *resty.Client, logger *slog.Logger) *PageScanner {
	if client == nil {
		client = resty.New().SetTimeout(30 * time.Second)
	}
	return &PageScanner{
		name:       name,
		cookieName: cookieName,
		headers:    headers,
		client:     client,
		logger:     logger,
	}
}

// Name identifies the platform inside the registry.
func (p *PageScanner) Name() string {
	return p.name
}

// Scan fetches the dashboard page, locates the pending-manuscripts table as
// the first table whose text matches the journal's ID pattern, and parses
// it. A page without such a table yields an empty result, not an error:
// an editor with no pending manuscripts sees exactly that page.
func (p *PageScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Manuscript, []domain.AlignmentNotice, error) {
	if req.URL == "" {
		return nil, nil, fmt.Errorf("journal %s: no dashboard url configured", req.Journal.Code)
	}

	body, err := p.fetch(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("journal %s: %w", req.Journal.Code, err)
	}

	tableHTML, found, err := locateTable(body, req)
	if err != nil {
		return nil, nil, fmt.Errorf("journal %s: %w", req.Journal.Code, err)
	}
	if !found {
		p.debug("no pending table on page", "journal", req.Journal.Code, "url", req.URL)
		return nil, nil, nil
	}

	return parser.ParseManuscriptTable(tableHTML, req.Journal.IDPattern, req.Journal.Layout)
}

func (p *PageScanner) fetch(ctx context.Context, req scanner.Request) ([]byte, error) {
	r := p.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", defaultUserAgent)

	for key, value := range p.headers {
		r.SetHeader(key, value)
	}
	if req.SessionCookie != "" {
		r.SetHeader("Cookie", p.cookieName+"="+req.SessionCookie)
	}

	resp, err := r.Get(req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch dashboard: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dashboard returned %s", resp.Status())
	}

	return resp.Body(), nil
}

// locateTable picks the innermost table containing a manuscript ID match.
// Platforms nest layout tables around the listing, and goquery returns
// outer tables first, so the last match is the listing itself.
func locateTable(body []byte, req scanner.Request) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("parse dashboard: %w", err)
	}

	var (
		tableHTML string
		found     bool
		outerErr  error
	)
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if !req.Journal.IDPattern.MatchString(table.Text()) {
			return
		}
		raw, err := goquery.OuterHtml(table)
		if err != nil {
			outerErr = err
			return
		}
		tableHTML = raw
		found = true
	})
	if outerErr != nil {
		return "", false, fmt.Errorf("serialize table: %w", outerErr)
	}

	return tableHTML, found, nil
}

func (p *PageScanner) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
