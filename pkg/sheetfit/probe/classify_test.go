package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		result models.ExtentProbeResult
		want   models.Verdict
	}{
		{
			name:   "million declared rows, few hundred real",
			result: models.ExtentProbeResult{DeclaredRows: 1_000_000, ActualRows: 500, DeclaredCols: 10, ActualCols: 5},
			want:   models.Verdict{HasSizeIssue: true, RowIssue: true},
		},
		{
			name:   "small ratio above the row floor",
			result: models.ExtentProbeResult{DeclaredRows: 120, ActualRows: 100, DeclaredCols: 10, ActualCols: 10},
			want:   models.Verdict{},
		},
		{
			name:   "large ratio under the row floor",
			result: models.ExtentProbeResult{DeclaredRows: 100, ActualRows: 1, DeclaredCols: 1, ActualCols: 1},
			want:   models.Verdict{},
		},
		{
			name:   "ratio exactly at the factor",
			result: models.ExtentProbeResult{DeclaredRows: 500, ActualRows: 100, DeclaredCols: 1, ActualCols: 1},
			want:   models.Verdict{},
		},
		{
			name:   "column bloat only",
			result: models.ExtentProbeResult{DeclaredRows: 20, ActualRows: 20, DeclaredCols: 300, ActualCols: 4},
			want:   models.Verdict{HasSizeIssue: true, ColIssue: true},
		},
		{
			name:   "columns under the floor",
			result: models.ExtentProbeResult{DeclaredRows: 20, ActualRows: 20, DeclaredCols: 50, ActualCols: 1},
			want:   models.Verdict{},
		},
		{
			name:   "both dimensions",
			result: models.ExtentProbeResult{DeclaredRows: 200_000, ActualRows: 50, DeclaredCols: 300, ActualCols: 4},
			want:   models.Verdict{HasSizeIssue: true, RowIssue: true, ColIssue: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.result, DefaultThresholds()))
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	r := models.ExtentProbeResult{DeclaredRows: 120, ActualRows: 100, DeclaredCols: 1, ActualCols: 1}
	v := Classify(r, Thresholds{Ratio: 1, MinRows: 100, MinCols: 50})
	assert.True(t, v.RowIssue)
	assert.False(t, v.ColIssue)
}
