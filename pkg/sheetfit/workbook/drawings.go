package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strings"
)

const workbookPart = "xl/workbook.xml"

// DrawingAnchors counts the drawing anchors (shapes, charts, pictures) of each
// sheet in an xlsx file. Sheets without drawings are omitted.
func DrawingAnchors(xlsxPath string) (map[string]int, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	p := newPackageParts(&r.Reader)
	result := make(map[string]int)
	for sheet, drawing := range p.sheetDrawings() {
		data, err := p.read(drawing)
		if err != nil || data == nil {
			continue
		}
		if n := countAnchors(data); n > 0 {
			result[sheet] = n
		}
	}
	return result, nil
}

// packageParts indexes the parts of an OPC package by name.
type packageParts map[string]*zip.File

func newPackageParts(r *zip.Reader) packageParts {
	p := make(packageParts, len(r.File))
	for _, f := range r.File {
		p[f.Name] = f
	}
	return p
}

// read returns the content of part, or nil when the package lacks it.
func (p packageParts) read(part string) ([]byte, error) {
	f, ok := p[part]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// relationships returns the relationships of part with their targets resolved
// to part names.
func (p packageParts) relationships(part string) []relationship {
	data, err := p.read(path.Join(path.Dir(part), "_rels", path.Base(part)+".rels"))
	if err != nil || data == nil {
		return nil
	}
	var doc struct {
		Items []relationship `xml:"Relationship"`
	}
	if xml.Unmarshal(data, &doc) != nil {
		return nil
	}
	for i := range doc.Items {
		doc.Items[i].Target = resolveTarget(part, doc.Items[i].Target)
	}
	return doc.Items
}

// sheetDrawings maps sheet names to their DrawingML part. Legacy VML drawings
// (comment boxes) are not counted.
func (p packageParts) sheetDrawings() map[string]string {
	result := make(map[string]string)
	data, err := p.read(workbookPart)
	if err != nil || data == nil {
		return result
	}
	var wb struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"id,attr"`
		} `xml:"sheets>sheet"`
	}
	if xml.Unmarshal(data, &wb) != nil {
		return result
	}

	parts := make(map[string]string)
	for _, rel := range p.relationships(workbookPart) {
		parts[rel.ID] = rel.Target
	}
	for _, s := range wb.Sheets {
		sheetPart, ok := parts[s.RID]
		if !ok {
			continue
		}
		for _, rel := range p.relationships(sheetPart) {
			if strings.HasSuffix(rel.Type, "/drawing") {
				result[s.Name] = rel.Target
				break
			}
		}
	}
	return result
}

// resolveTarget resolves a relationship target against its source part.
// Absolute targets are rooted at the package.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(source), target)
}

// countAnchors counts top-level anchors in a DrawingML spreadsheet drawing part.
func countAnchors(data []byte) int {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	n := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			return n
		}
		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
				n++
			}
		}
	}
}
