// Package rebuild reconstructs a worksheet from its real content only.
package rebuild

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/workbook"
)

// maxSheetName is the sheet name length limit of the xlsx format.
const maxSheetName = 31

// Floor is the minimum extent of a reconstructed sheet.
type Floor struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// DefaultFloor returns the standard 10×10 floor.
func DefaultFloor() Floor {
	return Floor{Rows: 10, Cols: 10}
}

// SheetCreator creates sheets in the workbook being repaired.
type SheetCreator interface {
	CreateSheet(name string) (workbook.Worksheet, error)
}

// Reconstruct creates a new sheet in wb holding the cells of src within
// max(rows, floor.Rows) × max(cols, floor.Cols). Values are copied as is.
// Without a policy only bold and horizontal alignment are kept; with one the
// policy decides every cell's style. A cell that cannot be read or written is
// left empty and counted in Stats.Skipped. src is never written to.
//
// The new sheet carries a temporary name derived from src; the caller swaps it
// in place of src.
func Reconstruct(wb SheetCreator, src workbook.Reader, rows, cols int, floor Floor, policy *Policy) (workbook.Worksheet, models.RebuildStats, error) {
	safeRows := max(rows, floor.Rows, 1)
	safeCols := max(cols, floor.Cols, 1)
	stats := models.RebuildStats{Rows: safeRows, Cols: safeCols}

	dst, err := wb.CreateSheet(TempName(src.Name()))
	if err != nil {
		return nil, stats, fmt.Errorf("create replacement for %q: %w", src.Name(), err)
	}

	for row := 1; row <= safeRows; row++ {
		for col := 1; col <= safeCols; col++ {
			switch copyCell(src, dst, row, col, policy) {
			case cellCopied:
				stats.Copied++
			case cellBlank:
				stats.Blank++
			case cellSkipped:
				stats.Skipped++
			}
		}
	}

	if policy != nil {
		if err := policy.decorate(dst, safeCols); err != nil {
			return nil, stats, fmt.Errorf("style %q: %w", dst.Name(), err)
		}
	}
	if err := dst.SetDimension(safeRows, safeCols); err != nil {
		return nil, stats, fmt.Errorf("set dimension of %q: %w", dst.Name(), err)
	}
	return dst, stats, nil
}

// TempName returns a name for the replacement of sheet that does not collide
// with sibling sheets and fits the sheet name limit.
func TempName(sheet string) string {
	suffix := "~" + uuid.NewString()[:8]
	r := []rune(sheet)
	if len(r)+len(suffix) > maxSheetName {
		r = r[:maxSheetName-len(suffix)]
	}
	return string(r) + suffix
}

type cellOutcome int

const (
	cellBlank cellOutcome = iota
	cellCopied
	cellSkipped
)

func copyCell(src workbook.Reader, dst workbook.Writer, row, col int, policy *Policy) cellOutcome {
	snap, ok := snapshot(src, row, col, policy)
	if !ok {
		return cellSkipped
	}
	// an empty unformatted cell has nothing to carry over
	if snap.Value.IsAbsent() && snap.Style.IsZero() {
		return cellBlank
	}

	if err := dst.SetValue(snap.Row, snap.Col, snap.Value); err != nil {
		return cellSkipped
	}
	if err := dst.SetStyle(snap.Row, snap.Col, snap.Style); err != nil {
		return cellSkipped
	}
	if snap.Value.IsAbsent() {
		return cellBlank
	}
	return cellCopied
}

// snapshot reads the value of a source cell and resolves the style it is
// written with.
func snapshot(src workbook.Reader, row, col int, policy *Policy) (models.CellSnapshot, bool) {
	snap := models.CellSnapshot{Row: row, Col: col}
	v, err := src.Value(row, col)
	if err != nil {
		return snap, false
	}
	snap.Value = v

	if policy != nil {
		snap.Style = policy.StyleFor(row)
		return snap, true
	}
	st, err := src.Style(row, col)
	if err != nil {
		return snap, false
	}
	snap.Style = st.Reduced()
	return snap, true
}
