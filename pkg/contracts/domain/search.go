package domain

import (
	"encoding/json"
	"time"
)

// PartNumberKind discriminates the variants of a workbook part number.
type PartNumberKind int

const (
	// PartKnown means a real part number was extracted from the workbook header.
	PartKnown PartNumberKind = iota
	// PartNotAvailable means no colon-bearing header cell yielded a value.
	PartNotAvailable
	// PartError means the workbook could not be read for extraction.
	PartError
	// PartNotFound marks the sentinel records for names with zero matches.
	PartNotFound
)

// PartNumber is the identifier extracted from a workbook's header region.
// The zero value is PartNotAvailable. Display strings ("N/A", "Error",
// "Not Found") are produced only at the report boundary via String.
type PartNumber struct {
	kind  PartNumberKind
	value string
}

// KnownPart returns a part number carrying a real extracted value.
func KnownPart(value string) PartNumber {
	return PartNumber{kind: PartKnown, value: value}
}

// Sentinel part numbers.
var (
	PartNumberNotAvailable = PartNumber{kind: PartNotAvailable}
	PartNumberError        = PartNumber{kind: PartError}
	PartNumberNotFound     = PartNumber{kind: PartNotFound}
)

// Kind returns the variant of the part number.
func (p PartNumber) Kind() PartNumberKind { return p.kind }

// IsKnown reports whether the part number holds a real extracted value.
func (p PartNumber) IsKnown() bool { return p.kind == PartKnown }

// Value returns the extracted value for known part numbers, "" otherwise.
func (p PartNumber) Value() string {
	if p.kind == PartKnown {
		return p.value
	}
	return ""
}

// String renders the part number for display and grouping.
func (p PartNumber) String() string {
	switch p.kind {
	case PartKnown:
		return p.value
	case PartError:
		return "Error"
	case PartNotFound:
		return "Not Found"
	default:
		return "N/A"
	}
}

// MarshalJSON renders the display string, matching the report columns.
func (p PartNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// MatchRecord is one occurrence of a searched name inside a workbook cell,
// or the not-found sentinel for a name that matched nowhere.
type MatchRecord struct {
	SearchedName   string     `json:"searched_name"`
	FileName       string     `json:"file_name"`
	PartNumber     PartNumber `json:"part_number"`
	RowIndicator   string     `json:"row_indicator"`
	MatchedContent string     `json:"matched_content"`
	Pattern        string     `json:"pattern"`
	SheetName      string     `json:"sheet_name,omitempty"`
}

// IsNotFound reports whether the record is a not-found sentinel.
func (r MatchRecord) IsNotFound() bool {
	return r.PartNumber.Kind() == PartNotFound
}

// NotFoundRecord builds the sentinel record for a name with zero matches.
func NotFoundRecord(name string) MatchRecord {
	return MatchRecord{
		SearchedName: name,
		PartNumber:   PartNumberNotFound,
	}
}

// SummaryRow is one entry of a grouped summary table.
type SummaryRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// WorkbookError describes a workbook that could not be scanned.
type WorkbookError struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// RunResult is the outcome of one complete search run.
type RunResult struct {
	RunID         string          `json:"run_id"`
	Names         []string        `json:"names"`
	Records       []MatchRecord   `json:"records"`
	FilesSearched int             `json:"files_searched"`
	FailedFiles   []WorkbookError `json:"failed_files,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// MatchCount returns the number of non-sentinel records.
func (r *RunResult) MatchCount() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.IsNotFound() {
			n++
		}
	}
	return n
}

// ReportTables is the presentation view computed from a run result.
type ReportTables struct {
	Records       []MatchRecord `json:"records"`
	ByName        []SummaryRow  `json:"by_name"`
	ByFile        []SummaryRow  `json:"by_file,omitempty"`
	ByPartNumber  []SummaryRow  `json:"by_part_number"`
	SearchedNames []string      `json:"searched_names"`
}
