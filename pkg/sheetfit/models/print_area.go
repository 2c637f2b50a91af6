package models

// PrintArea represents cell coordinate bounds for a print area.
type PrintArea struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Clip limits the area to rows×cols. The second return value is false when
// nothing of the area remains.
func (a PrintArea) Clip(rows, cols int) (PrintArea, bool) {
	if a.R1 > rows || a.C1 > cols {
		return PrintArea{}, false
	}
	if a.R2 > rows {
		a.R2 = rows
	}
	if a.C2 > cols {
		a.C2 = cols
	}
	return a, true
}
