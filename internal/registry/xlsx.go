package registry

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Worksheet access for .xlsx registry exports. Only the slices of the
// OOXML format a registry dump exercises are understood: the workbook
// sheet list, its relationships, shared strings, and plain or inline
// cell values. Formula cells arrive as their cached values.

type workbookSheet struct {
	name string
	rid  string
}

func loadWorkbook(path string, opt Options) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	sr, err := openSheet(data, opt.Sheet, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return load(filepath.Base(path), sr.read, opt)
}

// openSheet resolves one worksheet of the workbook bytes and returns a
// reader over its rows. An empty name selects by 1-based index, index 0
// meaning the first sheet.
func openSheet(data []byte, name string, index int) (*sheetReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := workbookSheets(zipEntry(zr, "xl/workbook.xml"))
	rels := workbookRels(zipEntry(zr, "xl/_rels/workbook.xml.rels"))

	var target string
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.name, name) {
				target = worksheetPath(rels[s.rid])
				break
			}
		}
		if target == "" {
			avail := make([]string, len(sheets))
			for i, s := range sheets {
				avail[i] = s.name
			}
			return nil, fmt.Errorf("sheet %q not found (available: %s)", name, strings.Join(avail, ", "))
		}
	} else {
		if index <= 0 {
			index = 1
		}
		if index <= len(sheets) {
			target = worksheetPath(rels[sheets[index-1].rid])
		}
		if target == "" {
			// Workbooks written without relationship entries still lay
			// worksheets out under the conventional names.
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", index)
		}
	}

	body := zipEntry(zr, target)
	if len(body) == 0 {
		return nil, fmt.Errorf("worksheet %s missing from workbook", target)
	}
	return &sheetReader{
		dec:    xml.NewDecoder(bytes.NewReader(body)),
		shared: sharedStrings(zipEntry(zr, "xl/sharedStrings.xml")),
	}, nil
}

// sheetReader streams rows out of one worksheet.
type sheetReader struct {
	dec    *xml.Decoder
	shared []string
}

// read returns the next non-empty row, io.EOF after the last. Cells are
// placed by their A1-style reference so gaps come back as blanks.
func (r *sheetReader) read() ([]string, error) {
	var row []string
	width := 0
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("worksheet xml: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "row":
				inRow = true
				row = nil
				width = 0
			case "c":
				if !inRow {
					continue
				}
				var ref, typ string
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := cellColumn(ref)
				if col < 0 {
					// No reference attribute; take the next free slot.
					col = width
				}
				if col+1 > width {
					width = col + 1
				}
				val, err := r.cellValue(typ)
				if err != nil {
					return nil, err
				}
				if len(row) <= col {
					grown := make([]string, col+1)
					copy(grown, row)
					row = grown
				}
				row[col] = val
			}
		case xml.EndElement:
			if el.Name.Local != "row" {
				continue
			}
			inRow = false
			if len(row) < width {
				grown := make([]string, width)
				copy(grown, row)
				row = grown
			}
			if rowBlank(row) {
				// Styled but valueless trailing rows are common in
				// hand-edited workbooks.
				continue
			}
			return row, nil
		}
	}
}

// cellValue consumes the rest of a cell element and returns its display
// value. Type "s" points into the shared string table; inline strings and
// plain cells carry their text directly.
func (r *sheetReader) cellValue(typ string) (string, error) {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return "", fmt.Errorf("worksheet xml: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "v" || el.Name.Local == "t" {
				text, err := r.elementText(el.Name.Local)
				if err != nil {
					return "", err
				}
				val = text
			}
		case xml.EndElement:
			if el.Name.Local == "c" {
				if typ != "s" {
					return val, nil
				}
				if val == "" {
					return "", nil
				}
				if i := parseInt(val); i >= 0 && i < len(r.shared) {
					return r.shared[i], nil
				}
				return "", nil
			}
		}
	}
}

func (r *sheetReader) elementText(name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return "", fmt.Errorf("worksheet xml: %w", err)
		}
		switch el := tok.(type) {
		case xml.CharData:
			sb.Write([]byte(el))
		case xml.EndElement:
			if el.Name.Local == name {
				return sb.String(), nil
			}
		}
	}
}

func workbookSheets(data []byte) []workbookSheet {
	var sheets []workbookSheet
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "sheet" {
			continue
		}
		var s workbookSheet
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "name":
				s.name = a.Value
			case "id": // r:id
				s.rid = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

func workbookRels(data []byte) map[string]string {
	rels := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return rels
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			rels[id] = target
		}
	}
}

// sharedStrings flattens the shared string table. Rich text runs split a
// string across several t elements; they concatenate back together.
func sharedStrings(data []byte) []string {
	var out []string
	var sb strings.Builder
	inText := false
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				sb.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, sb.String())
			}
		case xml.CharData:
			if inText {
				sb.Write([]byte(el))
			}
		}
	}
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// worksheetPath turns a relationship target into the zip entry name.
// Targets may carry a leading slash or omit the xl/ prefix.
func worksheetPath(rel string) string {
	if rel == "" {
		return ""
	}
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return "xl/" + rel
}

// cellColumn converts an A1-style reference to a zero-based column index,
// -1 when the reference carries no column letters.
func cellColumn(ref string) int {
	col := 0
	n := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			break
		}
		col = col*26 + int(c-'A'+1)
		n++
	}
	if n == 0 {
		return -1
	}
	return col - 1
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func rowBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
