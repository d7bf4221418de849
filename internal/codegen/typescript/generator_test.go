package typescript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/klapacz/pg-error-codes/catalog"
)

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if gen.tmpl == nil {
		t.Fatal("generator template is nil")
	}
	if gen.Extension() != ".ts" {
		t.Fatalf("Extension() = %q, want .ts", gen.Extension())
	}
}

func TestRenderSingleEntry(t *testing.T) {
	cat := &catalog.Catalog{Sections: []catalog.Section{
		{
			Description: "Class 00 — Successful Completion",
			Records: []catalog.Record{
				{SQLState: "00000", Severity: catalog.SeveritySuccess, Constant: "SUCCESSFUL_COMPLETION", Code: "successful_completion"},
			},
		},
	}}

	got := render(t, cat)
	want := "export const pgErrors = {\n" +
		"/** Class 00 — Successful Completion: [S] successful_completion */\n" +
		"  SUCCESSFUL_COMPLETION: '00000',\n" +
		"} as const\n" +
		"\n" +
		"export type PgError = keyof typeof pgErrors\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEmptyCatalog(t *testing.T) {
	got := render(t, &catalog.Catalog{})
	want := "export const pgErrors = {\n\n} as const\n\nexport type PgError = keyof typeof pgErrors\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPreservesOrderAndDuplicates(t *testing.T) {
	cat := &catalog.Catalog{Sections: []catalog.Section{
		{Description: "Same", Records: []catalog.Record{
			{SQLState: "00002", Severity: catalog.SeverityError, Constant: "ZULU", Code: "zulu"},
			{SQLState: "00001", Severity: catalog.SeverityError, Constant: "ALPHA", Code: "alpha"},
		}},
		{Description: "Other", Records: []catalog.Record{
			{SQLState: "00003", Severity: catalog.SeverityWarning, Constant: "ALPHA", Code: "alpha_again"},
		}},
		{Description: "Same", Records: []catalog.Record{
			{SQLState: "00004", Severity: catalog.SeverityError, Constant: "MIKE", Code: "mike"},
		}},
	}}

	got := render(t, cat)

	var keys []string
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "  ") {
			keys = append(keys, strings.TrimSpace(line))
		}
	}
	wantKeys := []string{"ZULU: '00002',", "ALPHA: '00001',", "ALPHA: '00003',", "MIKE: '00004',"}
	if diff := cmp.Diff(wantKeys, keys); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(got, "/** Other: [W] alpha_again */") {
		t.Errorf("missing annotation for shadowing entry:\n%s", got)
	}
	if strings.Count(got, "/** Same: ") != 3 {
		t.Errorf("expected three annotations for repeated section description:\n%s", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	cat := &catalog.Catalog{Sections: []catalog.Section{
		{Description: "A", Records: []catalog.Record{
			{SQLState: "01000", Severity: catalog.SeverityWarning, Constant: "WARNING", Code: "warning"},
			{SQLState: "", Severity: catalog.SeverityError, Constant: "EMPTY", Code: ""},
		}},
	}}

	first := render(t, cat)
	for range 5 {
		if next := render(t, cat); !bytes.Equal([]byte(first), []byte(next)) {
			t.Fatalf("Render not deterministic:\n%s\nvs\n%s", first, next)
		}
	}
	if !strings.Contains(first, "  EMPTY: '',") {
		t.Fatalf("empty sqlstate not rendered as empty literal:\n%s", first)
	}
}

func render(t *testing.T, cat *catalog.Catalog) string {
	t.Helper()
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	out, err := gen.Render(cat)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return string(out)
}
