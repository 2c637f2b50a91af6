// Package probe measures the real content extent of a worksheet and decides
// whether its declared extent is bloated.
package probe

import (
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
)

// Limits bound the number of cells a probe visits.
type Limits struct {
	// FullScanRows is the largest declared row count scanned in full.
	FullScanRows int `yaml:"full_scan_rows"`
	// ForwardRows is the number of leading rows scanned on larger sheets.
	ForwardRows int `yaml:"forward_rows"`
	// ReverseRows is the number of trailing declared rows searched backwards
	// for content on larger sheets.
	ReverseRows int `yaml:"reverse_rows"`
	// MaxCols caps the columns scanned per row.
	MaxCols int `yaml:"max_cols"`
}

// DefaultLimits returns the standard probe limits.
func DefaultLimits() Limits {
	return Limits{
		FullScanRows: 2000,
		ForwardRows:  1000,
		ReverseRows:  500,
		MaxCols:      100,
	}
}

// CellReader is the read access a probe needs.
type CellReader interface {
	Dimension() (rows, cols int, err error)
	Value(row, col int) (models.CellValue, error)
}

// Probe returns the declared and actual extent of ws. Its cost depends on the
// limits only, never on the declared row count. A sheet declaring N rows is
// scanned in full when N <= FullScanRows; otherwise the first ForwardRows
// rows are scanned, and the last ReverseRows declared rows are searched from
// the bottom up, stopping at the first row holding content, so trailing
// content far below the data is not missed.
func Probe(ws CellReader, limits Limits) (models.ExtentProbeResult, error) {
	declaredRows, declaredCols, err := ws.Dimension()
	if err != nil {
		return models.ExtentProbeResult{}, err
	}
	return probe(ws, declaredRows, declaredCols, limits), nil
}

func probe(ws CellReader, declaredRows, declaredCols int, limits Limits) models.ExtentProbeResult {
	declaredRows = max(declaredRows, 1)
	declaredCols = max(declaredCols, 1)

	s := scanner{
		ws:   ws,
		cols: min(declaredCols, limits.MaxCols),
		result: models.ExtentProbeResult{
			DeclaredRows: declaredRows,
			DeclaredCols: declaredCols,
		},
	}

	if declaredRows <= limits.FullScanRows {
		for row := 1; row <= declaredRows; row++ {
			s.scanRow(row)
		}
	} else {
		for row := 1; row <= min(limits.ForwardRows, declaredRows); row++ {
			s.scanRow(row)
		}
		floor := max(declaredRows-limits.ReverseRows+1, limits.ForwardRows+1)
		for row := declaredRows; row >= floor; row-- {
			if s.scanRow(row) {
				break
			}
		}
	}

	r := s.result
	if r.ActualRows == 0 {
		r.ActualRows = 1
	}
	if r.ActualCols == 0 {
		r.ActualCols = 1
	}
	return r
}

type scanner struct {
	ws     CellReader
	cols   int
	result models.ExtentProbeResult
}

// scanRow visits the capped columns of row and reports whether any held content.
func (s *scanner) scanRow(row int) bool {
	found := false
	for col := 1; col <= s.cols; col++ {
		s.result.ScannedCells++
		v, err := s.ws.Value(row, col)
		if err != nil || !v.IsContent() {
			continue
		}
		found = true
		s.result.NonEmptyCells++
		s.result.ActualRows = max(s.result.ActualRows, row)
		s.result.ActualCols = max(s.result.ActualCols, col)
	}
	return found
}
