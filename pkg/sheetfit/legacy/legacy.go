// Package legacy converts legacy binary workbooks (.xls) to the xlsx
// container so sheets can be replaced in place.
package legacy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a workbook container.
type Format string

const (
	// FormatXLSX is the zip-based OOXML container.
	FormatXLSX Format = "xlsx"
	// FormatXLS is the BIFF8 binary workbook inside an OLE2 compound file.
	FormatXLS Format = "xls"
	// FormatUnknown is anything else.
	FormatUnknown Format = "unknown"
)

// maxConvertedCopies bounds the numbered names tried for a conversion.
const maxConvertedCopies = 1000

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
)

// ErrNoSheets indicates a legacy workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// Converter turns a legacy workbook into an xlsx file and returns its path.
type Converter interface {
	Convert(legacyPath string) (string, error)
}

// Detect identifies the container of path by its leading bytes, falling back
// to the file extension when the header is inconclusive.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	header := make([]byte, len(oleMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, oleMagic):
		return FormatXLS, nil
	case bytes.HasPrefix(header, zipMagic):
		return FormatXLSX, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return FormatXLS, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return FormatUnknown, nil
}

// IsLegacy reports whether path holds a legacy binary workbook.
func IsLegacy(path string) (bool, error) {
	format, err := Detect(path)
	if err != nil {
		return false, err
	}
	return format == FormatXLS, nil
}

// ConvertedPath returns the sibling xlsx path a conversion of path writes to.
func ConvertedPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".converted.xlsx"
}

// reserveConvertedPath creates an empty file at the first free sibling of
// ConvertedPath(path), numbering it when earlier conversions exist, and
// returns its path. Existing files are never overwritten.
func reserveConvertedPath(path string) (string, error) {
	base := strings.TrimSuffix(ConvertedPath(path), ".xlsx")
	for n := 1; n <= maxConvertedCopies; n++ {
		candidate := base + ".xlsx"
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d.xlsx", base, n)
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return candidate, f.Close()
	}
	return "", fmt.Errorf("no free name next to %s", filepath.Base(path))
}

// convertError wraps a conversion failure with the source path.
func convertError(path string, err error) error {
	return fmt.Errorf("convert %s: %w", filepath.Base(path), err)
}
