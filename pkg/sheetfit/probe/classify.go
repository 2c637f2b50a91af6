package probe

import "github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"

// Default classification thresholds.
const (
	DefaultRatio   = 5
	DefaultMinRows = 100
	DefaultMinCols = 50
)

// Thresholds decide when a declared extent counts as bloated. A dimension is
// bloated when its declared size exceeds Ratio times the actual size and also
// exceeds the absolute floor for that dimension.
type Thresholds struct {
	Ratio   int `yaml:"ratio"`
	MinRows int `yaml:"min_rows"`
	MinCols int `yaml:"min_cols"`
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Ratio: DefaultRatio, MinRows: DefaultMinRows, MinCols: DefaultMinCols}
}

// Classify applies t to a probe result.
func Classify(r models.ExtentProbeResult, t Thresholds) models.Verdict {
	rowIssue := r.DeclaredRows > r.ActualRows*t.Ratio && r.DeclaredRows > t.MinRows
	colIssue := r.DeclaredCols > r.ActualCols*t.Ratio && r.DeclaredCols > t.MinCols
	return models.Verdict{
		HasSizeIssue: rowIssue || colIssue,
		RowIssue:     rowIssue,
		ColIssue:     colIssue,
	}
}
