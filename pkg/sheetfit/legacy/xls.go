package legacy

import (
	"fmt"
	"os"
	"strconv"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// XLSConverter reads .xls files with extrame/xls and writes them as xlsx
// with excelize. Cell values are carried over as numbers or text; styling is
// not. The declared extent of each sheet is preserved so bloat survives the
// conversion and can be detected afterwards.
type XLSConverter struct {
	// Charset is the fallback text encoding for pre-BIFF8 strings.
	Charset string
}

// Convert writes the xlsx equivalent of legacyPath next to it, at
// ConvertedPath or a numbered sibling when that file already exists.
func (c XLSConverter) Convert(legacyPath string) (out string, err error) {
	charset := c.Charset
	if charset == "" {
		charset = "utf-8"
	}
	// The BIFF decoder panics on some malformed records.
	defer func() {
		if r := recover(); r != nil {
			out, err = "", convertError(legacyPath, fmt.Errorf("malformed workbook: %v", r))
		}
	}()

	wb, err := xls.Open(legacyPath, charset)
	if err != nil {
		return "", convertError(legacyPath, err)
	}

	sheets := readSheets(wb)
	if len(sheets) == 0 {
		return "", convertError(legacyPath, ErrNoSheets)
	}

	out, err = reserveConvertedPath(legacyPath)
	if err != nil {
		return "", convertError(legacyPath, err)
	}
	if err := writeSheets(sheets, out); err != nil {
		os.Remove(out)
		return "", convertError(legacyPath, err)
	}
	return out, nil
}

// sheet is a decoded legacy worksheet. cells is indexed by 0-based row and
// column; rows without records are nil.
type sheet struct {
	name  string
	rows  int
	cols  int
	cells [][]string
}

func readSheets(wb *xls.WorkBook) []sheet {
	var sheets []sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		s := sheet{name: ws.Name, rows: int(ws.MaxRow) + 1}
		s.cells = make([][]string, s.rows)
		for r := 0; r < s.rows; r++ {
			row := rowAt(ws, r)
			if row == nil {
				continue
			}
			last := row.LastCol()
			if last > s.cols {
				s.cols = last
			}
			values := make([]string, last)
			for col := row.FirstCol(); col < last; col++ {
				values[col] = row.Col(col)
			}
			s.cells[r] = values
		}
		sheets = append(sheets, s)
	}
	return sheets
}

// rowAt returns row i of ws, or nil when the sheet holds no record for it.
// WorkSheet.Row dereferences missing rows.
func rowAt(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func writeSheets(sheets []sheet, out string) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(first, s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.SaveAs(out)
}

func writeSheet(f *excelize.File, s sheet) error {
	for r, values := range s.cells {
		for c, raw := range values {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.name, cell, cellValue(raw)); err != nil {
				return err
			}
		}
	}
	end, err := excelize.CoordinatesToCellName(max(s.cols, 1), max(s.rows, 1))
	if err != nil {
		return err
	}
	return f.SetSheetDimension(s.name, "A1:"+end)
}

// cellValue returns raw as a number when it parses as one.
func cellValue(raw string) interface{} {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
