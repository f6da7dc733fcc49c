package http

import (
	"context"
	"io"

	"namescan/internal/services"
	"namescan/pkg/contracts/domain"
)

// SearchServiceInterface defines the service surface the handlers need.
// Kept as an interface so handler tests can substitute fakes.
type SearchServiceInterface interface {
	LoadNamesFromText(text string) (int, error)
	LoadNamesFromUpload(filename string, r io.Reader, column string) (int, error)
	Names() []string
	ClearNames() error
	StartSearch(ctx context.Context) error
	Status() services.SearchStatus
	Results() (*domain.RunResult, *domain.ReportTables, error)
	ReportPath() string
}
