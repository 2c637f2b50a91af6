package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/workbook"
)

func newSheet(rows, cols int) *workbook.MemorySheet {
	return workbook.NewMemory().AddSheet("s", rows, cols)
}

func TestProbeFullScan(t *testing.T) {
	s := newSheet(500, 20)
	s.Put(1, 1, models.Text("id"), models.CellStyle{})
	s.Put(37, 6, models.Number(0), models.CellStyle{})
	s.Put(20, 3, models.Text("x"), models.CellStyle{})

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, models.ExtentProbeResult{
		DeclaredRows:  500,
		DeclaredCols:  20,
		ActualRows:    37,
		ActualCols:    6,
		ScannedCells:  500 * 20,
		NonEmptyCells: 3,
	}, r)
}

func TestProbeFindsTrailingContentOnHugeSheet(t *testing.T) {
	s := newSheet(1_000_000, 10)
	s.Put(1, 1, models.Text("top"), models.CellStyle{})
	s.Put(999_999, 2, models.Text("island"), models.CellStyle{})

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 999_999, r.ActualRows)
	assert.Equal(t, 2, r.ActualCols)
	assert.Equal(t, 2, r.NonEmptyCells)
}

func TestProbeReverseScanStopsAtFirstHit(t *testing.T) {
	s := newSheet(10_000, 5)
	s.Put(3, 1, models.Text("a"), models.CellStyle{})
	s.Put(9_990, 1, models.Text("b"), models.CellStyle{})
	s.Put(9_700, 4, models.Text("c"), models.CellStyle{})

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 9_990, r.ActualRows)
	assert.Equal(t, 1, r.ActualCols, "rows above the first reverse hit are not visited")
	// 1000 forward rows plus rows 10000 down to 9990.
	assert.Equal(t, (1000+11)*5, r.ScannedCells)
}

func TestProbeIsBoundedOnHugeSheet(t *testing.T) {
	s := newSheet(5_000_000, 16384)

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, (1000+500)*100, r.ScannedCells)
	assert.Equal(t, 1, r.ActualRows)
	assert.Equal(t, 1, r.ActualCols)
}

func TestProbeMissesContentBetweenWindows(t *testing.T) {
	s := newSheet(100_000, 3)
	s.Put(50_000, 1, models.Text("middle"), models.CellStyle{})

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 1, r.ActualRows)
}

func TestProbeEmptySheetFloorsToOne(t *testing.T) {
	r, err := Probe(newSheet(1, 1), DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 1, r.ActualRows)
	assert.Equal(t, 1, r.ActualCols)
	assert.Equal(t, 0, r.NonEmptyCells)

	r, err = Probe(newSheet(0, 0), DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 1, r.DeclaredRows)
	assert.LessOrEqual(t, r.ActualRows, r.DeclaredRows)
}

func TestProbeIgnoresBlankAndWhitespace(t *testing.T) {
	s := newSheet(50, 5)
	s.Put(1, 1, models.Text("keep"), models.CellStyle{})
	s.Put(10, 2, models.Text(" \t\n"), models.CellStyle{})
	s.Put(20, 3, models.Text(""), models.CellStyle{Bold: true})
	s.Put(30, 4, models.Absent(), models.CellStyle{Horizontal: "center"})

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 1, r.ActualRows)
	assert.Equal(t, 1, r.ActualCols)
	assert.Equal(t, 1, r.NonEmptyCells)
}

func TestProbeCapsColumns(t *testing.T) {
	s := newSheet(10, 500)
	s.Put(2, 100, models.Text("edge"), models.CellStyle{})
	s.Put(2, 101, models.Text("beyond"), models.CellStyle{})

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 100, r.ActualCols)
	assert.Equal(t, 10*100, r.ScannedCells)
}

func TestProbeTreatsFaultyCellsAsBlank(t *testing.T) {
	s := newSheet(10, 3)
	s.Put(2, 2, models.Text("ok"), models.CellStyle{})
	s.Put(9, 3, models.Text("unreadable"), models.CellStyle{})
	s.Fail(9, 3, errors.New("malformed"))

	r, err := Probe(s, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 2, r.ActualRows)
	assert.Equal(t, 2, r.ActualCols)
}

func TestProbeNeverExceedsDeclared(t *testing.T) {
	s := newSheet(5, 2)
	s.Put(4, 2, models.Text("in"), models.CellStyle{})
	s.Put(8, 7, models.Text("outside declared range"), models.CellStyle{})

	for _, limits := range []Limits{DefaultLimits(), {FullScanRows: 2, ForwardRows: 1, ReverseRows: 2, MaxCols: 1}} {
		r, err := Probe(s, limits)
		require.NoError(t, err)
		assert.LessOrEqual(t, r.ActualRows, r.DeclaredRows)
		assert.LessOrEqual(t, r.ActualCols, r.DeclaredCols)
	}
}

type brokenDimension struct{ workbook.Reader }

func (brokenDimension) Dimension() (int, int, error) { return 0, 0, errors.New("no dimension") }

func TestProbeReportsDimensionError(t *testing.T) {
	_, err := Probe(brokenDimension{}, DefaultLimits())
	assert.Error(t, err)
}
