package workbook

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// ExtractPrintAreas returns the print areas of a workbook keyed by sheet name.
func ExtractPrintAreas(f *excelize.File) map[string][]models.PrintArea {
	result := make(map[string][]models.PrintArea)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// restorePrintAreas replaces the print area of sheet with areas clipped to
// rows×cols.
func restorePrintAreas(f *excelize.File, sheet string, areas []models.PrintArea, rows, cols int) error {
	var refs []string
	for _, a := range areas {
		if clipped, ok := a.Clip(rows, cols); ok {
			refs = append(refs, formatArea(sheet, clipped))
		}
	}
	// The original's defined name may survive the delete with a shifted scope.
	_ = f.DeleteDefinedName(&excelize.DefinedName{Name: printAreaName, Scope: sheet})
	if len(refs) == 0 {
		return nil
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     printAreaName,
		RefersTo: strings.Join(refs, ","),
		Scope:    sheet,
	}); err != nil {
		return fmt.Errorf("restore print area of %q: %w", sheet, err)
	}
	return nil
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.PrintArea) {
	var areas []models.PrintArea

	var sheetName string
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.Trim(part[:idx], "'")
		sheet = strings.ReplaceAll(sheet, "''", "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if area := parseRangeToArea(part[idx+1:]); area != nil {
			areas = append(areas, *area)
		}
	}

	return sheetName, areas
}

// parseRangeToArea parses a range string like $A$1:$D$10 to PrintArea.
func parseRangeToArea(rangeStr string) *models.PrintArea {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	return &models.PrintArea{R1: startRow, C1: startCol, R2: endRow, C2: endCol}
}

// formatArea renders an area as an absolute sheet-qualified reference.
func formatArea(sheet string, a models.PrintArea) string {
	c1, _ := excelize.ColumnNumberToName(a.C1)
	c2, _ := excelize.ColumnNumberToName(a.C2)
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", quoted, c1, a.R1, c2, a.R2)
}
