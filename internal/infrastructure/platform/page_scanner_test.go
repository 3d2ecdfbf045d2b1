package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/journals"
	"ManuscriptTracker/internal/scanner"
)

const dashboardHTML = `
<html><body>
<table><tr><td>Navigation</td><td>Help</td></tr></table>
<table>
  <tr><th>Manuscript</th><th>Title</th></tr>
  <tr><td>M172838</td><td>Spectral Methods</td><td>Ed1</td><td>AE1</td><td>01-Jan-2025</td><td>30</td>
      <td><a>Author X</a><a>Ref A</a><br><a>Ref B</a></td>
      <td>Accepted<br>Declined</td>
      <td>2025-02-01<br>&nbsp;</td></tr>
</table>
</body></html>`

func TestPageScannerScan(t *testing.T) {
	t.Parallel()

	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte(dashboardHTML))
	}))
	defer server.Close()

	desc, err := journals.Resolve("sicon")
	if err != nil {
		t.Fatalf("resolve journal: %v", err)
	}

	sc := NewSIAM(resty.NewWithClient(server.Client()), nil)
	manuscripts, notices, err := sc.Scan(context.Background(), scanner.Request{
		Journal:       desc,
		URL:           server.URL + "/dashboard",
		SessionCookie: "abc123",
		At:            time.Now(),
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if gotCookie != "PHPSESSID=abc123" {
		t.Fatalf("unexpected cookie header: %q", gotCookie)
	}
	if len(notices) != 0 {
		t.Fatalf("unexpected notices: %+v", notices)
	}
	if len(manuscripts) != 1 {
		t.Fatalf("expected 1 manuscript, got %d", len(manuscripts))
	}

	ms := manuscripts[0]
	if ms.ManuscriptID != "M172838" || ms.Title != "Spectral Methods" {
		t.Fatalf("unexpected manuscript: %+v", ms)
	}
	if len(ms.Referees) != 2 {
		t.Fatalf("expected 2 referees, got %d", len(ms.Referees))
	}
	if ms.Referees[0].Status != domain.StatusAccepted || ms.Referees[1].Status != domain.StatusDeclined {
		t.Fatalf("unexpected referee statuses: %+v", ms.Referees)
	}
}

func TestPageScannerNoPendingTable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table><tr><td>No assignments</td></tr></table></body></html>`))
	}))
	defer server.Close()

	desc, err := journals.Resolve("mor")
	if err != nil {
		t.Fatalf("resolve journal: %v", err)
	}

	sc := NewScholarOne(resty.NewWithClient(server.Client()), nil)
	manuscripts, notices, err := sc.Scan(context.Background(), scanner.Request{
		Journal: desc,
		URL:     server.URL,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(manuscripts) != 0 || len(notices) != 0 {
		t.Fatalf("expected empty result, got %d manuscripts", len(manuscripts))
	}
}

func TestPageScannerHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusForbidden)
	}))
	defer server.Close()

	desc, err := journals.Resolve("sicon")
	if err != nil {
		t.Fatalf("resolve journal: %v", err)
	}

	sc := NewSIAM(resty.NewWithClient(server.Client()), nil)
	_, _, err = sc.Scan(context.Background(), scanner.Request{
		Journal: desc,
		URL:     server.URL,
	})
	if err == nil {
		t.Fatal("expected error for http 403")
	}
}

func TestPageScannerMissingURL(t *testing.T) {
	t.Parallel()

	desc, err := journals.Resolve("sicon")
	if err != nil {
		t.Fatalf("resolve journal: %v", err)
	}

	sc := NewSIAM(nil, nil)
	if _, _, err := sc.Scan(context.Background(), scanner.Request{Journal: desc}); err == nil {
		t.Fatal("expected error for missing url")
	}
}
