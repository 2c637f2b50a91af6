// Package sheetfit repairs worksheets whose declared used range is far larger
// than their content.
package sheetfit

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/legacy"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/probe"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/rebuild"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/workbook"
)

// Opener loads a workbook from an xlsx path.
type Opener func(path string) (workbook.Workbook, error)

// Options configures a repair run.
type Options struct {
	// Fix requests reconstruction of flagged sheets. Without it the run only
	// reports.
	Fix bool
	// Style applies a styling policy to reconstructed sheets.
	Style bool
	// OutputPath overrides the derived output path.
	OutputPath string
	// InspectDrawings counts drawing anchors on flagged sheets before they are
	// rebuilt. If nil, defaults to true when Fix is set.
	InspectDrawings *bool

	// Zero fields of Limits, Thresholds and Floor fall back to their defaults.
	Limits      probe.Limits
	Thresholds  probe.Thresholds
	Floor       rebuild.Floor
	ColumnWidth float64
	// Palettes are cycled through when Style is set. If nil, rebuild.DefaultPalettes is used.
	Palettes []models.Palette

	// Converter normalizes legacy input. If nil, legacy.XLSConverter is used.
	Converter legacy.Converter
	// Opener loads the working file. If nil, workbook.Open is used.
	Opener Opener
	// Logger receives progress. If nil, the logrus standard logger is used.
	Logger logrus.FieldLogger
	// Now stamps backup names. If nil, time.Now is used.
	Now func() time.Time
}

// DefaultOptions returns default options, which analyze without repairing.
func DefaultOptions() Options {
	return Options{
		Limits:      probe.DefaultLimits(),
		Thresholds:  probe.DefaultThresholds(),
		Floor:       rebuild.DefaultFloor(),
		ColumnWidth: rebuild.DefaultColumnWidth,
	}
}

// ShouldInspectDrawings returns whether to count drawings on flagged sheets.
func (o Options) ShouldInspectDrawings() bool {
	if o.InspectDrawings != nil {
		return *o.InspectDrawings
	}
	return o.Fix
}

func (o Options) limits() probe.Limits {
	l, d := o.Limits, probe.DefaultLimits()
	return probe.Limits{
		FullScanRows: orDefault(l.FullScanRows, d.FullScanRows),
		ForwardRows:  orDefault(l.ForwardRows, d.ForwardRows),
		ReverseRows:  orDefault(l.ReverseRows, d.ReverseRows),
		MaxCols:      orDefault(l.MaxCols, d.MaxCols),
	}
}

func (o Options) thresholds() probe.Thresholds {
	t, d := o.Thresholds, probe.DefaultThresholds()
	return probe.Thresholds{
		Ratio:   orDefault(t.Ratio, d.Ratio),
		MinRows: orDefault(t.MinRows, d.MinRows),
		MinCols: orDefault(t.MinCols, d.MinCols),
	}
}

func (o Options) floor() rebuild.Floor {
	f, d := o.Floor, rebuild.DefaultFloor()
	return rebuild.Floor{
		Rows: orDefault(f.Rows, d.Rows),
		Cols: orDefault(f.Cols, d.Cols),
	}
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}

func (o Options) converter() legacy.Converter {
	if o.Converter != nil {
		return o.Converter
	}
	return legacy.XLSConverter{}
}

func (o Options) opener() Opener {
	if o.Opener != nil {
		return o.Opener
	}
	return func(path string) (workbook.Workbook, error) {
		return workbook.Open(path)
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// policy returns the styling policy for the n-th repaired sheet, or nil.
func (o Options) policy(n int) *rebuild.Policy {
	if !o.Style {
		return nil
	}
	palettes := o.Palettes
	if palettes == nil {
		palettes = rebuild.DefaultPalettes
	}
	return rebuild.PolicyFor(palettes, n, o.ColumnWidth)
}
