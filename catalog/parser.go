package catalog

import (
	"bytes"
	"regexp"
)

// space matches the same characters as \s in ECMAScript: ASCII whitespace
// plus vertical tab, the Unicode space separators, BOM and the line and
// paragraph separators.
const space = `[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

var (
	sectionLine = regexp.MustCompile(`^Section:` + space + `(.*)$`)
	recordLine  = regexp.MustCompile(`^([A-Z0-9]*)` + space + `*([EWS])` + space + `*ERRCODE_([A-Z_]*)` + space + `*([a-z_]*)$`)
)

// Parse reads errcodes.txt content into a Catalog. Blank lines and lines
// starting with '#' are ignored. The first malformed line aborts the parse
// with a *ShapeError or *OrderingError.
func Parse(src []byte) (*Catalog, error) {
	cat := &Catalog{}
	for i, raw := range bytes.Split(src, []byte("\n")) {
		line := string(bytes.TrimSuffix(raw, []byte("\r")))
		if line == "" || line[0] == '#' {
			continue
		}
		lineNo := i + 1

		if m := sectionLine.FindStringSubmatch(line); m != nil && m[1] != "" {
			cat.Sections = append(cat.Sections, Section{Description: m[1], Line: lineNo})
			continue
		}

		m := recordLine.FindStringSubmatch(line)
		if m == nil {
			return nil, &ShapeError{Line: lineNo, Text: line}
		}
		if len(cat.Sections) == 0 {
			return nil, &OrderingError{Line: lineNo, Text: line}
		}

		last := &cat.Sections[len(cat.Sections)-1]
		last.Records = append(last.Records, Record{
			SQLState: m[1],
			Severity: Severity(m[2]),
			Constant: m[3],
			Code:     m[4],
			Line:     lineNo,
		})
	}
	return cat, nil
}
