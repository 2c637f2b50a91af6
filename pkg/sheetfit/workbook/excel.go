package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/xuri/excelize/v2"
)

// File is a Workbook backed by an excelize file.
type File struct {
	f *excelize.File
	// styleIDs caches style IDs created for written styles.
	styleIDs map[models.CellStyle]int
	// styles caches decoded styles by style ID.
	styles map[int]models.CellStyle
}

// Open opens an xlsx file.
func Open(path string) (*File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return Wrap(f), nil
}

// Wrap adapts an open excelize file.
func Wrap(f *excelize.File) *File {
	return &File{
		f:        f,
		styleIDs: make(map[models.CellStyle]int),
		styles:   make(map[int]models.CellStyle),
	}
}

// Excelize returns the underlying file.
func (w *File) Excelize() *excelize.File { return w.f }

func (w *File) SheetNames() []string { return w.f.GetSheetList() }

func (w *File) Sheet(name string) (Worksheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return &Sheet{file: w, name: name}, nil
}

func (w *File) CreateSheet(name string) (Worksheet, error) {
	if Position(w, name) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetExists, name)
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, err
	}
	return &Sheet{file: w, name: name}, nil
}

func (w *File) RemoveSheet(name string) error {
	if Position(w, name) < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return w.f.DeleteSheet(name)
}

// MoveSheet moves name to index. excelize moves a sheet in front of a target
// sheet, so forward moves are done by pulling the following sheets in front
// of name one at a time.
func (w *File) MoveSheet(name string, index int) error {
	list := w.f.GetSheetList()
	cur := Position(w, name)
	if cur < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("sheet index %d out of range [0,%d)", index, len(list))
	}
	switch {
	case index < cur:
		return w.f.MoveSheet(name, list[index])
	case index > cur:
		for k := cur + 1; k <= index; k++ {
			if err := w.f.MoveSheet(list[k], name); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceSheet moves the replacement in front of the original, deletes the
// original and renames the replacement. Print areas of the original are
// carried over, clipped to the replacement's extent.
func (w *File) ReplaceSheet(name string, replacement Worksheet) error {
	rs, ok := replacement.(*Sheet)
	if !ok || rs.file != w {
		return fmt.Errorf("replacement for %q does not belong to this workbook", name)
	}
	pos := Position(w, name)
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	areas := ExtractPrintAreas(w.f)[name]
	wasActive := w.f.GetActiveSheetIndex() == pos

	if err := w.MoveSheet(rs.name, pos); err != nil {
		return fmt.Errorf("move %q: %w", rs.name, err)
	}
	if err := w.f.DeleteSheet(name); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if err := w.f.SetSheetName(rs.name, name); err != nil {
		return fmt.Errorf("rename %q: %w", rs.name, err)
	}
	rs.name = name
	if wasActive {
		w.f.SetActiveSheet(pos)
	}

	if len(areas) > 0 {
		rows, cols, err := rs.Dimension()
		if err != nil {
			return err
		}
		return restorePrintAreas(w.f, name, areas, rows, cols)
	}
	return nil
}

func (w *File) Save(path string) error { return w.f.SaveAs(path) }

func (w *File) Close() error { return w.f.Close() }

func (w *File) styleID(s models.CellStyle) (int, error) {
	if id, ok := w.styleIDs[s]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(toExcelizeStyle(s))
	if err != nil {
		return 0, err
	}
	w.styleIDs[s] = id
	return id, nil
}

func (w *File) decodeStyle(id int) (models.CellStyle, error) {
	if id == 0 {
		return models.CellStyle{}, nil
	}
	if s, ok := w.styles[id]; ok {
		return s, nil
	}
	st, err := w.f.GetStyle(id)
	if err != nil {
		return models.CellStyle{}, err
	}
	s := fromExcelizeStyle(st)
	w.styles[id] = s
	return s, nil
}

// Sheet is a worksheet of a File.
type Sheet struct {
	file *File
	name string
}

func (s *Sheet) Name() string { return s.name }

// Dimension reads the sheet's dimension reference. A missing or single-cell
// reference, as left by writers that never update it, falls back to the
// extent of the stored rows.
func (s *Sheet) Dimension() (int, int, error) {
	ref, err := s.file.f.GetSheetDimension(s.name)
	if err != nil {
		return 0, 0, err
	}
	if ref != "" {
		rows, cols, err := parseDimension(ref)
		if err != nil || rows > 1 || cols > 1 {
			return rows, cols, err
		}
	}
	rows, err := s.file.f.GetRows(s.name)
	if err != nil {
		return 0, 0, err
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return max(len(rows), 1), max(cols, 1), nil
}

func (s *Sheet) Value(row, col int) (models.CellValue, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Absent(), err
	}
	typ, err := s.file.f.GetCellType(s.name, cell)
	if err != nil {
		return models.Absent(), err
	}
	raw, err := s.file.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Absent(), err
	}
	return toValue(typ, raw), nil
}

func (s *Sheet) Style(row, col int) (models.CellStyle, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.CellStyle{}, err
	}
	id, err := s.file.f.GetCellStyle(s.name, cell)
	if err != nil {
		return models.CellStyle{}, err
	}
	return s.file.decodeStyle(id)
}

func (s *Sheet) SetValue(row, col int, v models.CellValue) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch v.Kind {
	case models.KindAbsent:
		return nil
	case models.KindText:
		return s.file.f.SetCellStr(s.name, cell, v.Text)
	case models.KindNumber:
		return s.file.f.SetCellFloat(s.name, cell, v.Number, -1, 64)
	default:
		if v.Bool != nil {
			return s.file.f.SetCellBool(s.name, cell, *v.Bool)
		}
		return s.file.f.SetCellStr(s.name, cell, v.Text)
	}
}

func (s *Sheet) SetStyle(row, col int, st models.CellStyle) error {
	if st.IsZero() {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	id, err := s.file.styleID(st)
	if err != nil {
		return err
	}
	return s.file.f.SetCellStyle(s.name, cell, cell, id)
}

func (s *Sheet) SetColumnWidth(first, last int, width float64) error {
	a, err := excelize.ColumnNumberToName(first)
	if err != nil {
		return err
	}
	b, err := excelize.ColumnNumberToName(last)
	if err != nil {
		return err
	}
	return s.file.f.SetColWidth(s.name, a, b, width)
}

func (s *Sheet) SetTabColor(rgb string) error {
	return s.file.f.SetSheetProps(s.name, &excelize.SheetPropsOptions{TabColorRGB: &rgb})
}

func (s *Sheet) SetDimension(rows, cols int) error {
	end, err := excelize.CoordinatesToCellName(cols, rows)
	if err != nil {
		return err
	}
	return s.file.f.SetSheetDimension(s.name, "A1:"+end)
}

// parseDimension returns the bottom-right bound of a dimension reference such
// as "A1:D50" or "A1".
func parseDimension(ref string) (rows, cols int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	parts := strings.Split(ref, ":")
	cols, rows, err = excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse dimension %q: %w", ref, err)
	}
	return rows, cols, nil
}

// toValue classifies a raw cell value by its stored type.
func toValue(typ excelize.CellType, raw string) models.CellValue {
	switch typ {
	case excelize.CellTypeUnset:
		if raw == "" {
			return models.Absent()
		}
		return parseValue(raw)
	case excelize.CellTypeNumber:
		return parseValue(raw)
	case excelize.CellTypeBool:
		return models.Boolean(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return models.Text(raw)
	default:
		return models.Other(raw)
	}
}

// parseValue attempts to parse a string value as a number.
// Returns a number for integers and decimals, or the original string as text.
func parseValue(s string) models.CellValue {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Number(float64(i))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Number(f)
	}
	return models.Text(s)
}

func toExcelizeStyle(s models.CellStyle) *excelize.Style {
	st := &excelize.Style{}
	if s.Bold || s.FontColor != "" {
		st.Font = &excelize.Font{Bold: s.Bold, Color: s.FontColor}
	}
	if s.Horizontal != "" || s.Vertical != "" || s.WrapText {
		st.Alignment = &excelize.Alignment{
			Horizontal: s.Horizontal,
			Vertical:   s.Vertical,
			WrapText:   s.WrapText,
		}
	}
	if s.FillColor != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.FillColor}}
	}
	return st
}

func fromExcelizeStyle(st *excelize.Style) models.CellStyle {
	var s models.CellStyle
	if st == nil {
		return s
	}
	if st.Font != nil {
		s.Bold = st.Font.Bold
		s.FontColor = st.Font.Color
	}
	if st.Alignment != nil {
		s.Horizontal = st.Alignment.Horizontal
		s.Vertical = st.Alignment.Vertical
		s.WrapText = st.Alignment.WrapText
	}
	if st.Fill.Type == "pattern" && len(st.Fill.Color) > 0 {
		s.FillColor = st.Fill.Color[0]
	}
	return s
}
