package models

// Palette is a set of theme colors used to restyle a reconstructed sheet.
// Colors are RGB hex strings without a leading '#'.
type Palette struct {
	Name          string `json:"name" yaml:"name"`
	TabColor      string `json:"tab_color" yaml:"tab_color"`
	HeaderFill    string `json:"header_fill" yaml:"header_fill"`
	HeaderFont    string `json:"header_font" yaml:"header_font"`
	SubHeaderFill string `json:"sub_header_fill" yaml:"sub_header_fill"`
	SubHeaderFont string `json:"sub_header_font" yaml:"sub_header_font"`
}
