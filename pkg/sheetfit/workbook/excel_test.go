package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/xuri/excelize/v2"
)

func saveAndOpen(t *testing.T, f *excelize.File) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestSheetValues(t *testing.T) {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	require.NoError(t, f.SetCellValue(sheetName, "A1", "Header1"))
	require.NoError(t, f.SetCellValue(sheetName, "B1", "Header2"))
	require.NoError(t, f.SetCellValue(sheetName, "A2", 100))
	require.NoError(t, f.SetCellValue(sheetName, "B2", 200.5))
	require.NoError(t, f.SetCellValue(sheetName, "C2", true))
	require.NoError(t, f.SetCellValue(sheetName, "A3", "   "))
	require.NoError(t, f.SetCellValue(sheetName, "B3", ""))

	wb := saveAndOpen(t, f)
	ws, err := wb.Sheet(sheetName)
	require.NoError(t, err)

	tests := []struct {
		row, col int
		want     models.CellValue
	}{
		{1, 1, models.Text("Header1")},
		{1, 2, models.Text("Header2")},
		{2, 1, models.Number(100)},
		{2, 2, models.Number(200.5)},
		{2, 3, models.Boolean(true)},
		{3, 1, models.Text("   ")},
		{4, 4, models.Absent()},
	}
	for _, tt := range tests {
		got, err := ws.Value(tt.row, tt.col)
		require.NoError(t, err)
		assert.Truef(t, tt.want.Equal(got), "cell (%d,%d) = %+v, expected %+v", tt.row, tt.col, got, tt.want)
	}

	got, err := ws.Value(3, 1)
	require.NoError(t, err)
	assert.False(t, got.IsContent(), "whitespace-only text is not content")
}

func TestSheetCopiesCachedFormulaResult(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellFormula("Sheet1", "A3", "SUM(A1:A2)"))

	wb := saveAndOpen(t, f)
	ws, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	// no cached result yet: the cell is present but carries no content
	v, err := ws.Value(3, 1)
	require.NoError(t, err)
	assert.Equal(t, models.KindOther, v.Kind)
	assert.False(t, v.IsContent())
}

func TestSheetStyles(t *testing.T) {
	f := excelize.NewFile()
	boldCenter, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "title"))
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "A1", boldCenter))

	wb := saveAndOpen(t, f)
	ws, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	st, err := ws.Style(1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.CellStyle{Bold: true, Horizontal: "center"}, st.Reduced())

	st, err = ws.Style(2, 2)
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}

func TestSheetWriteThenRead(t *testing.T) {
	wb := Wrap(excelize.NewFile())
	ws, err := wb.CreateSheet("out")
	require.NoError(t, err)

	require.NoError(t, ws.SetValue(1, 1, models.Text("name")))
	require.NoError(t, ws.SetValue(1, 2, models.Number(42)))
	require.NoError(t, ws.SetValue(2, 1, models.Boolean(false)))
	require.NoError(t, ws.SetValue(2, 2, models.Absent()))
	require.NoError(t, ws.SetStyle(1, 1, models.CellStyle{Bold: true, Horizontal: "right"}))
	require.NoError(t, ws.SetDimension(12, 10))

	v, err := ws.Value(1, 2)
	require.NoError(t, err)
	assert.True(t, models.Number(42).Equal(v))

	v, err = ws.Value(2, 1)
	require.NoError(t, err)
	assert.True(t, models.Boolean(false).Equal(v))

	v, err = ws.Value(2, 2)
	require.NoError(t, err)
	assert.True(t, v.IsAbsent())

	st, err := ws.Style(1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.CellStyle{Bold: true, Horizontal: "right"}, st.Reduced())

	rows, cols, err := ws.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 12, rows)
	assert.Equal(t, 10, cols)
}

func TestDimensionReadsDeclaredBounds(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "x"))
	require.NoError(t, f.SetSheetDimension("Sheet1", "A1:KN200000"))

	wb := saveAndOpen(t, f)
	ws, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	rows, cols, err := ws.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 200000, rows)
	assert.Equal(t, 300, cols)
}

func TestDimensionFallsBackToStoredRows(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "C4", "x"))

	wb := saveAndOpen(t, f)
	ws, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	rows, cols, err := ws.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		ref        string
		rows, cols int
	}{
		{"A1", 1, 1},
		{"A1:D50", 50, 4},
		{"$B$2:$KN$1048576", 1048576, 300},
	}
	for _, tt := range tests {
		rows, cols, err := parseDimension(tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.rows, rows, tt.ref)
		assert.Equal(t, tt.cols, cols, tt.ref)
	}

	_, _, err := parseDimension("not-a-ref")
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected models.CellValue
	}{
		{"123", models.Number(123)},
		{"123.45", models.Number(123.45)},
		{"-100", models.Number(-100)},
		{"hello", models.Text("hello")},
		{"", models.Text("")},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		assert.Truef(t, tt.expected.Equal(result), "parseValue(%q) = %+v, expected %+v", tt.input, result, tt.expected)
	}
}

func TestFileReplaceSheetKeepsPositionAndPrintArea(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "first"))
	_, err := f.NewSheet("data")
	require.NoError(t, err)
	_, err = f.NewSheet("last")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("data", "A1", "old"))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "'data'!$A$1:$Z$5000",
		Scope:    "data",
	}))

	wb := saveAndOpen(t, f)
	repl, err := wb.CreateSheet("data~tmp")
	require.NoError(t, err)
	require.NoError(t, repl.SetValue(1, 1, models.Text("new")))
	require.NoError(t, repl.SetDimension(10, 10))

	require.NoError(t, wb.ReplaceSheet("data", repl))
	assert.Equal(t, []string{"first", "data", "last"}, wb.SheetNames())
	assert.Equal(t, "data", repl.Name())

	ws, err := wb.Sheet("data")
	require.NoError(t, err)
	v, err := ws.Value(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", v.Text)

	areas := ExtractPrintAreas(wb.Excelize())["data"]
	require.Len(t, areas, 1)
	assert.Equal(t, models.PrintArea{R1: 1, C1: 1, R2: 10, C2: 10}, areas[0])
}

func TestFileReplaceSheetRejectsForeignSheet(t *testing.T) {
	wb := Wrap(excelize.NewFile())
	other := NewMemory()
	foreign := other.AddSheet("x", 1, 1)

	err := wb.ReplaceSheet("Sheet1", foreign)
	assert.Error(t, err)
}

func TestFileMoveSheet(t *testing.T) {
	f := excelize.NewFile()
	for _, name := range []string{"b", "c", "d"} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	wb := Wrap(f)
	require.Equal(t, []string{"Sheet1", "b", "c", "d"}, wb.SheetNames())

	require.NoError(t, wb.MoveSheet("d", 1))
	assert.Equal(t, []string{"Sheet1", "d", "b", "c"}, wb.SheetNames())

	require.NoError(t, wb.MoveSheet("Sheet1", 3))
	assert.Equal(t, []string{"d", "b", "c", "Sheet1"}, wb.SheetNames())

	assert.Error(t, wb.MoveSheet("d", 4))
	assert.ErrorIs(t, wb.MoveSheet("zz", 0), ErrSheetNotFound)
}

func TestFileCreateSheetRejectsDuplicate(t *testing.T) {
	wb := Wrap(excelize.NewFile())
	_, err := wb.CreateSheet("Sheet1")
	assert.ErrorIs(t, err, ErrSheetExists)

	_, err = wb.Sheet("missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestParsePrintAreaReference(t *testing.T) {
	sheet, areas := parsePrintAreaReference("'My Sheet'!$A$1:$D$10,'My Sheet'!$F$2:$G$3")
	assert.Equal(t, "My Sheet", sheet)
	assert.Equal(t, []models.PrintArea{
		{R1: 1, C1: 1, R2: 10, C2: 4},
		{R1: 2, C1: 6, R2: 3, C2: 7},
	}, areas)

	assert.Equal(t, "'My Sheet'!$A$1:$D$10", formatArea("My Sheet", areas[0]))
}
