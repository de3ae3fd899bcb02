package report

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/idml2docbook/core/styles"
)

func prop(name, value string) styles.Property {
	return styles.Property{Name: name, Value: value}
}

func sampleSections() []Section {
	paragraph := []styles.Style{
		{Name: "body", Key: styles.Key{
			prop("font-family", "Minion Pro"),
			prop("font-size", "10pt"),
			prop("name", "body"),
			prop("native-name", "Body"),
		}},
	}
	reg := styles.NewRegistry()
	reg.Register(styles.Paragraph, styles.Key{prop("text-indent", "0pt")}, "body")
	reg.Register(styles.Paragraph, styles.Key{prop("text-indent", "0pt")}, "aside")
	reg.Register(styles.Paragraph, styles.Key{prop("font-style", "italic"), prop("margin-left", "4pt")}, "")
	return Sections(paragraph, nil, reg)
}

// TestSections verifies section order, names and labels.
func TestSections(t *testing.T) {
	sections := sampleSections()
	want := []struct {
		sheet, label string
		rules        int
	}{
		{"paragraph", "Paragraph styles", 1},
		{"character", "Character styles", 0},
		{"paragraph_overrides", "Paragraph styles overrides", 2},
		{"character_overrides", "Character styles overrides", 0},
		{"object_overrides", "Object styles overrides", 0},
	}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(sections), len(want))
	}
	for i, w := range want {
		s := sections[i]
		if s.SheetName() != w.sheet || s.Label() != w.label || len(s.Rules) != w.rules {
			t.Errorf("section %d = %s/%s/%d, want %s/%s/%d", i, s.SheetName(), s.Label(), len(s.Rules), w.sheet, w.label, w.rules)
		}
	}
	if got := sections[2].Rules[0].AppliedTo; strings.Join(got, ",") != "aside,body" {
		t.Errorf("AppliedTo = %v", got)
	}
}

// TestColumns verifies the column order of sheets.
func TestColumns(t *testing.T) {
	rows := []map[string]string{
		{"font-size10": "a", "remap": "b", "name": "c", "font-size2": "d"},
		{"Alpha": "e", "native-name": "f"},
	}
	got := strings.Join(Columns(rows), ",")
	want := "name,native-name,remap,Alpha,font-size2,font-size10"
	if got != want {
		t.Errorf("Columns() = %s, want %s", got, want)
	}
}

// TestRow verifies the flattening of named styles and overrides.
func TestRow(t *testing.T) {
	sections := sampleSections()
	row := sections[0].Row(sections[0].Rules[0])
	if row["name"] != "body" || row["font-size"] != "10pt" {
		t.Errorf("named row = %v", row)
	}
	row = sections[2].Row(sections[2].Rules[0])
	if row["role"] != "paragraph-override-1" || row["applied_to"] != "aside, body" || row["text-indent"] != "0pt" {
		t.Errorf("override row = %v", row)
	}
	row = sections[2].Row(sections[2].Rules[1])
	if row["applied_to"] != "" {
		t.Errorf("applied_to = %q, want empty", row["applied_to"])
	}
}

// TestCSS verifies the stylesheet layout.
func TestCSS(t *testing.T) {
	got := CSS(sampleSections())
	want := "/* Auto-generated CSS from IDML converter */\n\n" +
		"/* Paragraph styles */\n" +
		".body {\n" +
		"  font-family: \"Minion Pro\";\n" +
		"  font-size: 10pt;\n" +
		"  --element: \".body\";\n" +
		"}\n" +
		"/* Paragraph styles overrides */\n" +
		".paragraph-styles-overrides-1 {\n" +
		"  text-indent: 0pt;\n" +
		"  --element: \".paragraph-styles-overrides-1\";\n" +
		"}\n" +
		".paragraph-styles-overrides-2 {\n" +
		"  font-style: italic;\n" +
		"  margin-left: 4pt;\n" +
		"  --element: \".paragraph-styles-overrides-2\";\n" +
		"}\n"
	if got != want {
		t.Errorf("CSS() =\n%s\nwant\n%s", got, want)
	}
}

// TestCSSEmpty verifies that a document without styles only gets the header.
func TestCSSEmpty(t *testing.T) {
	if got := CSS(Sections(nil, nil, nil)); got != cssHeader {
		t.Errorf("CSS() = %q", got)
	}
}

// TestWriteODS verifies the package layout and the sheets written.
func TestWriteODS(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteODS(&buf, sampleSections()); err != nil {
		t.Fatalf("WriteODS() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("got %d entries, want 3", len(zr.File))
	}
	first := zr.File[0]
	if first.Name != "mimetype" || first.Method != zip.Store {
		t.Errorf("first entry = %s (method %d)", first.Name, first.Method)
	}

	var content string
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		switch f.Name {
		case "mimetype":
			if string(data) != odsMimetype {
				t.Errorf("mimetype = %q", data)
			}
		case "content.xml":
			content = string(data)
		}
	}

	for _, want := range []string{
		`<table:table table:name="paragraph">`,
		`<table:table table:name="paragraph_overrides">`,
		`<text:p>paragraph-override-2</text:p>`,
		`<text:p>aside, body</text:p>`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("content.xml missing %s", want)
		}
	}
	if strings.Contains(content, `table:name="character"`) {
		t.Error("empty character sheet was written")
	}
}

// TestSave verifies the output paths and file writes.
func TestSave(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "book.xml")
	if got := ODSPath(input); got != filepath.Join(dir, "book.ods") {
		t.Errorf("ODSPath() = %s", got)
	}
	if got := CSSPath(input); got != filepath.Join(dir, "book.css") {
		t.Errorf("CSSPath() = %s", got)
	}
	if err := SaveODS(ODSPath(input), sampleSections()); err != nil {
		t.Fatalf("SaveODS() error = %v", err)
	}
	if err := SaveCSS(CSSPath(input), sampleSections()); err != nil {
		t.Fatalf("SaveCSS() error = %v", err)
	}
	data, err := os.ReadFile(CSSPath(input))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), cssHeader) {
		t.Errorf("css file = %q", data)
	}
}
