// Package models defines data structures shared by the probing, classification
// and reconstruction stages.
package models

import (
	"strconv"
	"strings"
)

// ValueKind classifies a cell value.
type ValueKind int

const (
	// KindAbsent marks a cell with no value. It is distinct from an empty string.
	KindAbsent ValueKind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a numeric value.
	KindNumber
	// KindOther is any other scalar (booleans, dates, errors, cached formula results).
	KindOther
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindOther:
		return "other"
	default:
		return "absent"
	}
}

// CellValue is a single cell value.
type CellValue struct {
	// Kind is the value classification.
	Kind ValueKind `json:"kind"`
	// Text holds the value for KindText and the raw representation for KindOther.
	Text string `json:"text,omitempty"`
	// Number holds the value for KindNumber.
	Number float64 `json:"number,omitempty"`
	// Bool holds the value when the KindOther scalar is a boolean.
	Bool *bool `json:"bool,omitempty"`
}

// Absent returns the absent value.
func Absent() CellValue { return CellValue{} }

// Text returns a text value.
func Text(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

// Number returns a numeric value.
func Number(n float64) CellValue { return CellValue{Kind: KindNumber, Number: n} }

// Boolean returns a boolean scalar.
func Boolean(b bool) CellValue {
	return CellValue{Kind: KindOther, Text: strconv.FormatBool(b), Bool: &b}
}

// Other returns an opaque scalar carried as its raw representation.
func Other(raw string) CellValue { return CellValue{Kind: KindOther, Text: raw} }

// IsAbsent reports whether the cell holds no value.
func (v CellValue) IsAbsent() bool { return v.Kind == KindAbsent }

// String normalizes the value to text.
func (v CellValue) String() string {
	switch v.Kind {
	case KindAbsent:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Text
	}
}

// IsContent reports whether the value counts as real content: present and
// carrying at least one non-whitespace character once normalized to text.
func (v CellValue) IsContent() bool {
	if v.IsAbsent() {
		return false
	}
	return strings.TrimSpace(v.String()) != ""
}

// Equal reports whether two values are identical.
func (v CellValue) Equal(o CellValue) bool {
	if v.Kind != o.Kind || v.Text != o.Text || v.Number != o.Number {
		return false
	}
	if (v.Bool == nil) != (o.Bool == nil) {
		return false
	}
	return v.Bool == nil || *v.Bool == *o.Bool
}

// CellStyle is the style subset the engine reads and writes.
// Copying preserves only Bold and Horizontal; the remaining fields are set by
// a styling policy.
type CellStyle struct {
	Bold       bool   `json:"bold,omitempty"`
	Horizontal string `json:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty"`
	WrapText   bool   `json:"wrap_text,omitempty"`
	FillColor  string `json:"fill_color,omitempty"`
	FontColor  string `json:"font_color,omitempty"`
}

// Reduced strips everything except the attributes preserved by a plain copy.
func (s CellStyle) Reduced() CellStyle {
	return CellStyle{Bold: s.Bold, Horizontal: s.Horizontal}
}

// IsZero reports whether the style carries no attributes.
func (s CellStyle) IsZero() bool { return s == CellStyle{} }

// CellSnapshot is a transient copy of one cell taken during reconstruction.
type CellSnapshot struct {
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Col is the column index (1-based).
	Col int `json:"col"`
	// Value is the cell value.
	Value CellValue `json:"value"`
	// Style is the style to write.
	Style CellStyle `json:"style"`
}
