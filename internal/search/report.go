package search

import (
	"sort"

	"namescan/pkg/contracts/domain"
)

// ReportOptions controls which summary tables are produced.
type ReportOptions struct {
	// IncludeFile adds the by-file summary. Record rows always carry the
	// origin file name; this only affects the summary tables.
	IncludeFile bool
}

// BuildReport computes the presentation tables from a run result.
//
// The full record table is sorted by searched name with a stable sort:
// records sharing a name keep the order they were emitted in (workbook
// order, then scan order). Summaries count non-sentinel records only and
// are ordered by descending count, ties by key ascending.
func BuildReport(result *domain.RunResult, opts ReportOptions) *domain.ReportTables {
	records := make([]domain.MatchRecord, len(result.Records))
	copy(records, result.Records)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SearchedName < records[j].SearchedName
	})

	tables := &domain.ReportTables{
		Records:       records,
		ByName:        summarize(result.Records, func(r domain.MatchRecord) string { return r.SearchedName }),
		ByPartNumber:  summarize(result.Records, func(r domain.MatchRecord) string { return r.PartNumber.String() }),
		SearchedNames: result.Names,
	}
	if opts.IncludeFile {
		tables.ByFile = summarize(result.Records, func(r domain.MatchRecord) string { return r.FileName })
	}

	return tables
}

// summarize groups non-sentinel records by key and orders the groups by
// descending count, ties by key ascending.
func summarize(records []domain.MatchRecord, key func(domain.MatchRecord) string) []domain.SummaryRow {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.IsNotFound() {
			continue
		}
		counts[key(rec)]++
	}

	rows := make([]domain.SummaryRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, domain.SummaryRow{Key: k, Count: n})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })

	return rows
}
