package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"namescan/internal/files"
	"namescan/internal/infrastructure"
	"namescan/internal/workbook"
	"namescan/pkg/contracts/domain"
)

// Terminal conditions for a run. ErrNoWorkbooks is distinct from a run
// that scanned N workbooks and found nothing.
var (
	ErrNoWorkbooks   = errors.New("no Excel files found in search folder")
	ErrEmptyNameList = errors.New("no search names provided")
)

// ProgressEvent describes one finished workbook scan.
type ProgressEvent struct {
	File    string
	Index   int
	Total   int
	Matches int
	Err     error
}

// Observer receives a ProgressEvent after each workbook completes.
type Observer interface {
	OnWorkbook(event ProgressEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event ProgressEvent)

// OnWorkbook implements Observer.
func (f ObserverFunc) OnWorkbook(event ProgressEvent) { f(event) }

// Aggregator drives the cell scanner over a collection of workbooks and
// turns the raw match stream into a complete run result: every requested
// name ends up either with real match records or with exactly one
// not-found sentinel, no matter how many workbooks failed.
type Aggregator struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	workers int
	opts    ScanOptions
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWorkers sets how many workbooks are scanned concurrently. The
// default of 1 preserves the strictly sequential reference behavior;
// higher values fan out per workbook and fan results back in by workbook
// index, so the merged record sequence is identical either way.
func WithWorkers(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithScanOptions sets the per-cell scan options.
func WithScanOptions(opts ScanOptions) AggregatorOption {
	return func(a *Aggregator) { a.opts = opts }
}

// WithMetrics attaches prometheus instruments to the aggregator.
func WithMetrics(m *infrastructure.Metrics) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger, options ...AggregatorOption) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Aggregator{
		logger:  logger.With(slog.String("component", "aggregator")),
		workers: 1,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// workbookScan is the outcome of scanning a single workbook.
type workbookScan struct {
	file    files.FileInfo
	records []domain.MatchRecord
	err     error
}

// Run scans every workbook in enumeration order and returns the aggregated
// result. The observer, if non-nil, is notified as each workbook scan
// completes, while the run is still in flight.
func (a *Aggregator) Run(ctx context.Context, workbooks []files.FileInfo, names []string, observer Observer) (*domain.RunResult, error) {
	if len(names) == 0 {
		return nil, ErrEmptyNameList
	}
	if len(workbooks) == 0 {
		return nil, ErrNoWorkbooks
	}

	started := time.Now()
	set := CompilePatterns(names)
	a.reportPatternErrors(ctx, set)

	a.logger.InfoContext(ctx, "search run started",
		slog.Int("names", len(names)),
		slog.Int("workbooks", len(workbooks)),
		slog.Int("workers", a.workers))

	var scans []workbookScan
	var err error
	if a.workers > 1 {
		scans, err = a.scanParallel(ctx, workbooks, set, observer)
	} else {
		scans, err = a.scanSequential(ctx, workbooks, set, observer)
	}
	if err != nil {
		if a.metrics != nil {
			a.metrics.SearchRunsFailed.Inc()
		}
		return nil, err
	}

	result := &domain.RunResult{
		RunID:         uuid.New().String(),
		Names:         names,
		FilesSearched: len(workbooks),
		StartedAt:     started,
	}

	// Merge in workbook order and track which names produced records.
	found := make(map[string]bool, len(names))
	for _, scan := range scans {
		if scan.err != nil {
			a.logger.WarnContext(ctx, "workbook unreadable, skipping",
				slog.String("file", scan.file.Name),
				slog.String("error", scan.err.Error()))
			result.FailedFiles = append(result.FailedFiles, domain.WorkbookError{
				FileName: scan.file.Name,
				Reason:   scan.err.Error(),
			})
			if a.metrics != nil {
				a.metrics.WorkbooksFailed.Inc()
			}
		} else {
			result.Records = append(result.Records, scan.records...)
			for _, rec := range scan.records {
				found[rec.SearchedName] = true
			}
			if a.metrics != nil {
				a.metrics.WorkbooksScanned.Inc()
				a.metrics.MatchesFound.Add(float64(len(scan.records)))
			}
		}
	}

	// Every name absent from the found set gets exactly one sentinel.
	for _, name := range distinct(names) {
		if !found[name] {
			result.Records = append(result.Records, domain.NotFoundRecord(name))
		}
	}

	result.CompletedAt = time.Now()
	if a.metrics != nil {
		a.metrics.SearchRuns.Inc()
		a.metrics.RunDuration.Observe(result.CompletedAt.Sub(started).Seconds())
	}

	a.logger.InfoContext(ctx, "search run completed",
		slog.Int("matches", result.MatchCount()),
		slog.Int("failed_files", len(result.FailedFiles)),
		slog.Duration("duration", result.CompletedAt.Sub(started)))

	return result, nil
}

// scanSequential scans workbooks one after another in enumeration order,
// notifying the observer as each workbook finishes.
func (a *Aggregator) scanSequential(ctx context.Context, workbooks []files.FileInfo, set *PatternSet, observer Observer) ([]workbookScan, error) {
	scans := make([]workbookScan, len(workbooks))
	for i, file := range workbooks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scans[i] = a.scanOne(ctx, file, set)
		notifyObserver(observer, i, len(workbooks), scans[i])
	}
	return scans, nil
}

// scanParallel fans a scan out per workbook and fans the results back in
// indexed by position, so the merge below observes enumeration order.
// Observer notifications fire in completion order, serialized so the
// observer never sees concurrent calls.
func (a *Aggregator) scanParallel(ctx context.Context, workbooks []files.FileInfo, set *PatternSet, observer Observer) ([]workbookScan, error) {
	scans := make([]workbookScan, len(workbooks))

	var notifyMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, file := range workbooks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scans[i] = a.scanOne(gctx, file, set)
			notifyMu.Lock()
			notifyObserver(observer, i, len(workbooks), scans[i])
			notifyMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scans, nil
}

// notifyObserver emits the progress event for one finished workbook scan.
func notifyObserver(observer Observer, index, total int, scan workbookScan) {
	if observer == nil {
		return
	}
	observer.OnWorkbook(ProgressEvent{
		File:    scan.file.Name,
		Index:   index + 1,
		Total:   total,
		Matches: len(scan.records),
		Err:     scan.err,
	})
}

// scanOne extracts the part number once, scans all cells, and stamps the
// part number onto every emitted record. A workbook that cannot be opened
// is reported as a failed scan; a part-number extraction failure alone
// downgrades to the Error sentinel and does not abort the cell scan.
func (a *Aggregator) scanOne(ctx context.Context, file files.FileInfo, set *PatternSet) workbookScan {
	part := ExtractPartNumber(file.Path)

	doc, err := workbook.Open(file.Path)
	if err != nil {
		return workbookScan{file: file, err: err}
	}

	records := ScanWorkbook(doc, set, a.opts)
	for i := range records {
		records[i].PartNumber = part
	}

	a.logger.DebugContext(ctx, "workbook scanned",
		slog.String("file", file.Name),
		slog.String("part_number", part.String()),
		slog.Int("matches", len(records)))

	return workbookScan{file: file, records: records}
}

// reportPatternErrors surfaces pattern compilation failures at scan time,
// once per broken pattern. Broken patterns simply never match; the other
// patterns are unaffected.
func (a *Aggregator) reportPatternErrors(ctx context.Context, set *PatternSet) {
	for i := range set.Patterns {
		p := &set.Patterns[i]
		if p.Err() != nil {
			a.logger.WarnContext(ctx, "search pattern failed to compile, it will never match",
				slog.String("name", p.Name),
				slog.String("pattern", p.Expr),
				slog.String("error", p.Err().Error()))
		}
	}
}

// distinct returns the distinct values of names preserving first
// occurrence order.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
