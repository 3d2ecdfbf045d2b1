package scanner

import (
	"context"
	"fmt"
	"time"

	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/journals"
)

// Request carries all parameters required to scan one journal dashboard.
type Request struct {
	Journal       journals.Descriptor
	URL           string
	SessionCookie string
	At            time.Time
}

// Scanner captures a single platform implementation (ScholarOne, Editorial
// Manager, SIAM).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Manuscript, []domain.AlignmentNotice, error)
}

// Registry keeps a mapping from platform names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by platform name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("platform %s is not registered", name)
}
