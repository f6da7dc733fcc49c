// Package session holds the user-facing application state: which names
// are loaded, whether a search is running, and the latest results. State
// transitions are explicit and guarded, so a search cannot start twice and
// results cannot be read before they exist.
package session

import (
	"errors"
	"sync"

	"namescan/pkg/contracts/domain"
)

// State is the lifecycle phase of the session.
type State string

const (
	// StateIdle means no names are loaded.
	StateIdle State = "idle"
	// StateNamesLoaded means names are loaded and a search may start.
	StateNamesLoaded State = "names_loaded"
	// StateRunning means a search run is in flight.
	StateRunning State = "search_running"
	// StateResultsReady means the last run finished and results are held.
	StateResultsReady State = "results_ready"
)

// State transition violations.
var (
	ErrNoNames       = errors.New("no search names loaded")
	ErrEmptyNames    = errors.New("name list is empty")
	ErrSearchRunning = errors.New("a search is already running")
	ErrNoResults     = errors.New("no results available")
)

// Session is a concurrency-safe holder of the application state. The
// search core never touches it; handlers drive the transitions.
type Session struct {
	mu         sync.RWMutex
	state      State
	names      []string
	result     *domain.RunResult
	tables     *domain.ReportTables
	reportPath string
	lastError  string
}

// New creates an idle session.
func New() *Session {
	return &Session{state: StateIdle}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Names returns a copy of the loaded name list.
func (s *Session) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// LoadNames replaces the loaded name list and discards previous results.
// Loading is refused while a search is running.
func (s *Session) LoadNames(names []string) error {
	if len(names) == 0 {
		return ErrEmptyNames
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return ErrSearchRunning
	}

	s.names = append([]string(nil), names...)
	s.result = nil
	s.tables = nil
	s.reportPath = ""
	s.lastError = ""
	s.state = StateNamesLoaded
	return nil
}

// Clear drops the loaded names and results. Refused while running.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return ErrSearchRunning
	}

	s.names = nil
	s.result = nil
	s.tables = nil
	s.reportPath = ""
	s.lastError = ""
	s.state = StateIdle
	return nil
}

// BeginSearch transitions into the running state. It requires loaded
// names; a finished run may be started again.
func (s *Session) BeginSearch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return ErrSearchRunning
	case StateIdle:
		return ErrNoNames
	}

	s.result = nil
	s.tables = nil
	s.reportPath = ""
	s.lastError = ""
	s.state = StateRunning
	return nil
}

// CompleteSearch stores the run outcome and moves to results-ready.
func (s *Session) CompleteSearch(result *domain.RunResult, tables *domain.ReportTables) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = result
	s.tables = tables
	s.state = StateResultsReady
}

// FailSearch records the failure and returns to names-loaded, so the user
// can fix the input and retry.
func (s *Session) FailSearch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastError = err.Error()
	}
	s.state = StateNamesLoaded
}

// LastError returns the message of the last failed run, if any.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Results returns the stored run outcome.
func (s *Session) Results() (*domain.RunResult, *domain.ReportTables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateResultsReady {
		return nil, nil, ErrNoResults
	}
	return s.result, s.tables, nil
}

// SetReportPath records where the generated report workbook was written.
func (s *Session) SetReportPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportPath = path
}

// ReportPath returns the stored report path, empty when none was written.
func (s *Session) ReportPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportPath
}
