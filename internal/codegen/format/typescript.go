package format

import (
	"context"
	"strings"
)

const tsIndent = "  "

// TypeScript restyles module text the way prettier's defaults would for a
// flat module of object literals and type aliases: two-space indentation
// per brace level, double-quoted strings, statement semicolons, no blank
// lines at block edges, and one trailing newline.
type TypeScript struct{}

// Format implements Formatter.
func (TypeScript) Format(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, strings.Count(string(src), "\n")+1)
	depth := 0
	for _, raw := range strings.Split(string(src), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if len(out) == 0 || out[len(out)-1] == "" || strings.HasSuffix(out[len(out)-1], "{") {
				continue
			}
			out = append(out, "")
			continue
		}

		comment := isComment(line)
		if !comment {
			line = requote(line)
		}

		if strings.HasPrefix(line, "}") {
			depth = max(depth-1, 0)
			for len(out) > 0 && out[len(out)-1] == "" {
				out = out[:len(out)-1]
			}
			// An empty block collapses onto its opening line.
			if n := len(out); n > 0 && strings.HasSuffix(out[n-1], "{") {
				out[n-1] = terminate(out[n-1]+line, depth)
				continue
			}
		}

		styled := strings.Repeat(tsIndent, depth) + line
		if !comment {
			styled = terminate(styled, depth)
		}
		out = append(out, styled)

		if !comment && strings.HasSuffix(line, "{") {
			depth++
		}
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(out, "\n") + "\n"), nil
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "//")
}

// terminate appends a semicolon to top-level statements.
func terminate(line string, depth int) string {
	if depth > 0 {
		return line
	}
	switch {
	case strings.HasSuffix(line, "{"), strings.HasSuffix(line, ","), strings.HasSuffix(line, ";"):
		return line
	}
	return line + ";"
}

// requote converts single-quoted literals to double quotes unless the
// literal itself contains a double quote.
func requote(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); {
		c := line[i]
		if c != '\'' && c != '"' {
			b.WriteByte(c)
			i++
			continue
		}
		end := closingQuote(line, i)
		if end < 0 {
			b.WriteString(line[i:])
			break
		}
		lit := line[i : end+1]
		inner := lit[1 : len(lit)-1]
		if c == '\'' && !strings.Contains(inner, `"`) {
			lit = `"` + strings.ReplaceAll(inner, `\'`, `'`) + `"`
		}
		b.WriteString(lit)
		i = end + 1
	}
	return b.String()
}

func closingQuote(line string, start int) int {
	quote := line[start]
	for j := start + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return -1
}
