package models

// ExtentProbeResult reports the declared and observed extent of a worksheet.
type ExtentProbeResult struct {
	// DeclaredRows is the row bound reported by the container.
	DeclaredRows int `json:"declared_rows"`
	// DeclaredCols is the column bound reported by the container.
	DeclaredCols int `json:"declared_cols"`
	// ActualRows is the highest row holding content (1 when the sheet is empty).
	ActualRows int `json:"actual_rows"`
	// ActualCols is the highest column holding content (1 when the sheet is empty).
	ActualCols int `json:"actual_cols"`
	// ScannedCells counts cells visited by the probe.
	ScannedCells int `json:"scanned_cells"`
	// NonEmptyCells counts visited cells holding content.
	NonEmptyCells int `json:"non_empty_cells"`
}

// WastedRows is the number of declared rows past the actual extent.
func (r ExtentProbeResult) WastedRows() int { return r.DeclaredRows - r.ActualRows }

// WastedCols is the number of declared columns past the actual extent.
func (r ExtentProbeResult) WastedCols() int { return r.DeclaredCols - r.ActualCols }

// Verdict is the classification of a probe result.
type Verdict struct {
	HasSizeIssue bool `json:"has_size_issue"`
	RowIssue     bool `json:"row_issue"`
	ColIssue     bool `json:"col_issue"`
}

// RebuildStats summarizes a reconstruction.
type RebuildStats struct {
	// Rows and Cols are the extent of the replacement sheet.
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// Copied counts cells whose value was transferred.
	Copied int `json:"copied"`
	// Blank counts cells with nothing to transfer.
	Blank int `json:"blank"`
	// Skipped counts cells that failed to transfer and were left empty.
	Skipped int `json:"skipped"`
}

// SheetReport is the per-sheet outcome of a run.
type SheetReport struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Position is the 0-based ordinal among sibling sheets.
	Position int `json:"position"`
	// Extent is the probe result.
	Extent ExtentProbeResult `json:"extent"`
	// Verdict is the classification.
	Verdict Verdict `json:"verdict"`
	// Drawings is the number of drawing anchors (shapes, charts, pictures) on the sheet.
	Drawings int `json:"drawings,omitempty"`
	// Repaired is set once the sheet has been replaced.
	Repaired bool `json:"repaired"`
	// Palette names the styling palette applied during repair.
	Palette string `json:"palette,omitempty"`
	// Rebuild holds reconstruction stats when the sheet was repaired.
	Rebuild *RebuildStats `json:"rebuild,omitempty"`
}
