package rebuild

import (
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/workbook"
)

// DefaultColumnWidth is the uniform column width applied by a policy.
const DefaultColumnWidth = 18.0

// DefaultPalettes are cycled through when several sheets are restyled.
var DefaultPalettes = []models.Palette{
	{Name: "ocean", TabColor: "1F4E79", HeaderFill: "1F4E79", HeaderFont: "FFFFFF", SubHeaderFill: "DDEBF7", SubHeaderFont: "1F4E79"},
	{Name: "forest", TabColor: "375623", HeaderFill: "375623", HeaderFont: "FFFFFF", SubHeaderFill: "E2EFDA", SubHeaderFont: "375623"},
	{Name: "amber", TabColor: "C65911", HeaderFill: "C65911", HeaderFont: "FFFFFF", SubHeaderFill: "FCE4D6", SubHeaderFont: "843C0C"},
	{Name: "plum", TabColor: "7030A0", HeaderFill: "7030A0", HeaderFont: "FFFFFF", SubHeaderFill: "EADCF4", SubHeaderFont: "4B2070"},
	{Name: "slate", TabColor: "404040", HeaderFill: "404040", HeaderFont: "FFFFFF", SubHeaderFill: "EDEDED", SubHeaderFont: "262626"},
}

// Policy restyles a reconstructed sheet: row 1 as the primary header, row 2 as
// the secondary header, top-aligned wrapped text elsewhere, a uniform column
// width and a tab color. It is purely presentational.
type Policy struct {
	Palette     models.Palette
	ColumnWidth float64
}

// PolicyFor picks the palette for the n-th (0-based) restyled sheet.
// It returns nil when palettes is empty.
func PolicyFor(palettes []models.Palette, n int, width float64) *Policy {
	if len(palettes) == 0 {
		return nil
	}
	if width <= 0 {
		width = DefaultColumnWidth
	}
	return &Policy{Palette: palettes[n%len(palettes)], ColumnWidth: width}
}

// StyleFor returns the style of every cell in row.
func (p *Policy) StyleFor(row int) models.CellStyle {
	switch row {
	case 1:
		return models.CellStyle{
			Bold:       true,
			Horizontal: "center",
			Vertical:   "top",
			WrapText:   true,
			FillColor:  p.Palette.HeaderFill,
			FontColor:  p.Palette.HeaderFont,
		}
	case 2:
		return models.CellStyle{
			Bold:       true,
			Horizontal: "center",
			Vertical:   "top",
			WrapText:   true,
			FillColor:  p.Palette.SubHeaderFill,
			FontColor:  p.Palette.SubHeaderFont,
		}
	default:
		return models.CellStyle{Vertical: "top", WrapText: true}
	}
}

func (p *Policy) decorate(ws workbook.Writer, cols int) error {
	if err := ws.SetColumnWidth(1, cols, p.ColumnWidth); err != nil {
		return err
	}
	if p.Palette.TabColor != "" {
		return ws.SetTabColor(p.Palette.TabColor)
	}
	return nil
}
