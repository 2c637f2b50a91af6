// Package workbook adapts spreadsheet containers to the sheet operations the
// repair engine needs.
package workbook

import (
	"errors"

	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
)

// ErrSheetNotFound indicates a sheet name that is not in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSheetExists indicates a sheet name that is already taken.
var ErrSheetExists = errors.New("sheet already exists")

// ErrInvalidCoordinates indicates a row or column below 1.
var ErrInvalidCoordinates = errors.New("invalid cell coordinates")

// Reader gives read access to a worksheet's declared extent and cells.
type Reader interface {
	Name() string
	// Dimension returns the declared used-range bounds.
	Dimension() (rows, cols int, err error)
	Value(row, col int) (models.CellValue, error)
	Style(row, col int) (models.CellStyle, error)
}

// Writer gives write access to a worksheet.
type Writer interface {
	Name() string
	SetValue(row, col int, v models.CellValue) error
	SetStyle(row, col int, s models.CellStyle) error
	SetColumnWidth(first, last int, width float64) error
	SetTabColor(rgb string) error
	// SetDimension overwrites the declared used-range bounds.
	SetDimension(rows, cols int) error
}

// Worksheet is a readable and writable sheet.
type Worksheet interface {
	Reader
	Writer
}

// Workbook is an ordered collection of named worksheets.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (Worksheet, error)
	// CreateSheet appends a new empty sheet.
	CreateSheet(name string) (Worksheet, error)
	RemoveSheet(name string) error
	// MoveSheet moves a sheet to the 0-based index.
	MoveSheet(name string, index int) error
	// ReplaceSheet puts replacement, a sheet previously created in this
	// workbook, in place of the named sheet: same name, same position. The
	// original sheet is discarded.
	ReplaceSheet(name string, replacement Worksheet) error
	Save(path string) error
	Close() error
}

// Position returns the 0-based index of name, or -1.
func Position(wb Workbook, name string) int {
	for i, n := range wb.SheetNames() {
		if n == name {
			return i
		}
	}
	return -1
}
