package platform

import (
	"log/slog"

	"github.com/go-resty/resty/v2"

	"ManuscriptTracker/internal/journals"
)

// NewScholarOne scans ScholarOne / Manuscript Central AE Center pages.
func NewScholarOne(client *resty.Client, logger *slog.Logger) *PageScanner {
	return newPageScanner(journals.PlatformScholarOne, "SID", map[string]string{
		// AE Center links 404 without a same-site referer.
		"Referer": "https://mc.manuscriptcentral.com/",
	}, client, logger)
}

// NewEditorialManager scans Editorial Manager pending-assignment pages.
func NewEditorialManager(client *resty.Client, logger *slog.Logger) *PageScanner {
	return newPageScanner(journals.PlatformEditorialManager, "ASP.NET_SessionId", nil, client, logger)
}

// NewSIAM scans SIAM's ORCID-gated editor dashboards.
func NewSIAM(client *resty.Client, logger *slog.Logger) *PageScanner {
	return newPageScanner(journals.PlatformSIAM, "PHPSESSID", nil, client, logger)
}
