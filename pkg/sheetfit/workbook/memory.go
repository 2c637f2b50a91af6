package workbook

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
)

type coord struct{ row, col int }

type memCell struct {
	value models.CellValue
	style models.CellStyle
}

// Memory is an in-memory Workbook. Sheets are kept as an ordered list of names
// plus a name→sheet map, so a replacement is a single update of both.
type Memory struct {
	order   []string
	sheets  map[string]*MemorySheet
	saveErr error
	saved   []string
}

// NewMemory returns an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string]*MemorySheet)}
}

// MemorySheet is a sparse in-memory worksheet with an explicit declared extent.
type MemorySheet struct {
	name     string
	rows     int
	cols     int
	cells    map[coord]memCell
	faults   map[coord]error
	widths   map[int]float64
	tabColor string
}

// AddSheet appends a sheet declaring rows×cols.
func (m *Memory) AddSheet(name string, rows, cols int) *MemorySheet {
	s := newMemorySheet(name)
	s.rows, s.cols = rows, cols
	m.sheets[name] = s
	m.order = append(m.order, name)
	return s
}

func newMemorySheet(name string) *MemorySheet {
	return &MemorySheet{
		name:   name,
		cells:  make(map[coord]memCell),
		faults: make(map[coord]error),
		widths: make(map[int]float64),
	}
}

// SetSaveError makes subsequent Save calls fail with err.
func (m *Memory) SetSaveError(err error) { m.saveErr = err }

// Saved returns the paths passed to successful Save calls.
func (m *Memory) Saved() []string { return append([]string(nil), m.saved...) }

func (m *Memory) SheetNames() []string { return append([]string(nil), m.order...) }

func (m *Memory) Sheet(name string) (Worksheet, error) {
	s, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return s, nil
}

// MemorySheet returns the concrete sheet, or nil.
func (m *Memory) MemorySheet(name string) *MemorySheet { return m.sheets[name] }

func (m *Memory) CreateSheet(name string) (Worksheet, error) {
	if _, ok := m.sheets[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetExists, name)
	}
	return m.AddSheet(name, 1, 1), nil
}

func (m *Memory) RemoveSheet(name string) error {
	idx := m.index(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	delete(m.sheets, name)
	return nil
}

func (m *Memory) MoveSheet(name string, index int) error {
	idx := m.index(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if index < 0 || index >= len(m.order) {
		return fmt.Errorf("sheet index %d out of range [0,%d)", index, len(m.order))
	}
	order := append(m.order[:idx:idx], m.order[idx+1:]...)
	order = append(order[:index], append([]string{name}, order[index:]...)...)
	m.order = order
	return nil
}

func (m *Memory) ReplaceSheet(name string, replacement Worksheet) error {
	idx := m.index(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	rs, ok := replacement.(*MemorySheet)
	if !ok || m.sheets[rs.name] != rs {
		return fmt.Errorf("replacement for %q does not belong to this workbook", name)
	}
	if rs.name == name {
		return nil
	}
	tmpIdx := m.index(rs.name)

	order := make([]string, 0, len(m.order)-1)
	for i, n := range m.order {
		switch i {
		case idx:
			order = append(order, name)
		case tmpIdx:
		default:
			order = append(order, n)
		}
	}
	delete(m.sheets, rs.name)
	rs.name = name
	m.sheets[name] = rs
	m.order = order
	return nil
}

func (m *Memory) Save(path string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, path)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) index(name string) int {
	for i, n := range m.order {
		if n == name {
			return i
		}
	}
	return -1
}

// Put stores a value and style without touching the declared extent.
func (s *MemorySheet) Put(row, col int, v models.CellValue, st models.CellStyle) {
	s.cells[coord{row, col}] = memCell{value: v, style: st}
}

// Fail makes reads and writes of one cell return err.
func (s *MemorySheet) Fail(row, col int, err error) {
	s.faults[coord{row, col}] = err
}

// ColumnWidth returns the width set for col, or 0.
func (s *MemorySheet) ColumnWidth(col int) float64 { return s.widths[col] }

// TabColor returns the tab color, or "".
func (s *MemorySheet) TabColor() string { return s.tabColor }

// CellCount returns the number of stored cells.
func (s *MemorySheet) CellCount() int { return len(s.cells) }

func (s *MemorySheet) Name() string { return s.name }

func (s *MemorySheet) Dimension() (int, int, error) { return s.rows, s.cols, nil }

func (s *MemorySheet) Value(row, col int) (models.CellValue, error) {
	if err := s.check(row, col); err != nil {
		return models.Absent(), err
	}
	return s.cells[coord{row, col}].value, nil
}

func (s *MemorySheet) Style(row, col int) (models.CellStyle, error) {
	if err := s.check(row, col); err != nil {
		return models.CellStyle{}, err
	}
	return s.cells[coord{row, col}].style, nil
}

func (s *MemorySheet) SetValue(row, col int, v models.CellValue) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	c := s.cells[coord{row, col}]
	c.value = v
	s.cells[coord{row, col}] = c
	s.grow(row, col)
	return nil
}

func (s *MemorySheet) SetStyle(row, col int, st models.CellStyle) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	c := s.cells[coord{row, col}]
	c.style = st
	s.cells[coord{row, col}] = c
	s.grow(row, col)
	return nil
}

func (s *MemorySheet) SetColumnWidth(first, last int, width float64) error {
	if first < 1 || last < first {
		return fmt.Errorf("%w: columns %d..%d", ErrInvalidCoordinates, first, last)
	}
	for c := first; c <= last; c++ {
		s.widths[c] = width
	}
	return nil
}

func (s *MemorySheet) SetTabColor(rgb string) error {
	s.tabColor = rgb
	return nil
}

func (s *MemorySheet) SetDimension(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: dimension %dx%d", ErrInvalidCoordinates, rows, cols)
	}
	s.rows, s.cols = rows, cols
	return nil
}

func (s *MemorySheet) check(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row %d col %d", ErrInvalidCoordinates, row, col)
	}
	if err, ok := s.faults[coord{row, col}]; ok {
		if err == nil {
			err = errors.New("cell fault")
		}
		return err
	}
	return nil
}

func (s *MemorySheet) grow(row, col int) {
	if row > s.rows {
		s.rows = row
	}
	if col > s.cols {
		s.cols = col
	}
}
