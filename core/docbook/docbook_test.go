package docbook

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/styles"
)

const hubHead = `<hub xmlns="http://docbook.org/ns/docbook" xmlns:css="http://www.w3.org/1996/css">`

func convert(t *testing.T, body string, opts Options) string {
	t.Helper()
	res, err := Convert([]byte(hubHead+body+`</hub>`), opts)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return res.DocBook
}

// TestConvertFileGolden verifies a full conversion against its golden file.
func TestConvertFileGolden(t *testing.T) {
	opts := DefaultOptions()
	opts.Typography = true
	opts.ThinSpaces = true

	res, err := ConvertFile(filepath.Join("testdata", "sample.hub.xml"), opts)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", "sample.dbk.xml"))
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if got := res.DocBook; got != strings.TrimSuffix(string(want), "\n") {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	overrides := res.Registry.Overrides(styles.Paragraph)
	if len(overrides) != 1 {
		t.Fatalf("paragraph overrides = %d, want 1", len(overrides))
	}
	if !reflect.DeepEqual(overrides[0].AppliedTo, []string{"Corps_de_texte"}) {
		t.Errorf("AppliedTo = %v", overrides[0].AppliedTo)
	}
	if len(res.Roles) != 2 || res.Roles[0].Slug != "Corps_de_texte" {
		t.Errorf("Roles = %+v", res.Roles)
	}
}

// TestTypographyRules verifies the French spacing reaches the output.
func TestTypographyRules(t *testing.T) {
	opts := DefaultOptions()
	opts.Typography = true
	opts.ThinSpaces = true

	out := convert(t, `<para>1000 km</para><para>Bonjour !</para>`, opts)
	for _, want := range []string{"1\u202f000 km", "Bonjour\u202f!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	plain := convert(t, `<para>1000 km</para>`, DefaultOptions())
	if !strings.Contains(plain, "<para>1000 km</para>") {
		t.Errorf("typography applied while disabled:\n%s", plain)
	}
}

// TestMergeLaw verifies phrases split by the converter come back together.
func TestMergeLaw(t *testing.T) {
	out := convert(t, `<para><phrase role="i">a</phrase><phrase role="i">b</phrase></para>`, DefaultOptions())
	if !strings.Contains(out, `<para><phrase role="i">ab</phrase></para>`) {
		t.Errorf("phrases not merged:\n%s", out)
	}
}

// TestEndnoteConversion verifies endnotes become marked footnotes.
func TestEndnoteConversion(t *testing.T) {
	body := `<para>Texte<link remap="EndnoteRange" linkend="n1">1</link></para>` +
		`<para><anchor xml:id="n1" role="hub:endnote"/><phrase role="hub:identifier"><link remap="EndnoteMarker" linkend="x">1</link></phrase>Note.</para>`
	out := convert(t, body, DefaultOptions())
	if !strings.Contains(out, `<footnote endnote="1"><para><phrase role="hub:identifier"/>Note.</para></footnote>`) {
		t.Errorf("endnote not converted:\n%s", out)
	}
	if strings.Contains(out, "hub:endnote") {
		t.Errorf("endnote body kept:\n%s", out)
	}
}

// TestMediaConversion verifies image references with and without options.
func TestMediaConversion(t *testing.T) {
	body := `<para><inlinemediaobject><imageobject><imagedata fileref="file:///Volumes/Projet/Links/Photo.TIF"/></imageobject></inlinemediaobject></para>`

	out := convert(t, body, DefaultOptions())
	if !strings.Contains(out, `fileref="Links/Photo.tif"`) {
		t.Errorf("default media rewrite wrong:\n%s", out)
	}

	opts := DefaultOptions()
	opts.Raster = "jpg"
	out = convert(t, body, opts)
	if !strings.Contains(out, `fileref="Links/Photo.jpg"`) {
		t.Errorf("raster rewrite wrong:\n%s", out)
	}
}

// TestLinebreaksOption verifies kept breaks become AsciiDoc markers.
func TestLinebreaksOption(t *testing.T) {
	body := `<para>a<br/>b</para>`

	if out := convert(t, body, DefaultOptions()); !strings.Contains(out, "<para>a b</para>") {
		t.Errorf("break not replaced by a space:\n%s", out)
	}

	opts := DefaultOptions()
	opts.Linebreaks = true
	if out := convert(t, body, opts); !strings.Contains(out, "<para>a"+BreakMarker+"b</para>") {
		t.Errorf("break not kept as marker:\n%s", out)
	}
}

// TestReplaceBreaks verifies the break marker substitution.
func TestReplaceBreaks(t *testing.T) {
	got := ReplaceBreaks("<para><br/></para><br/>")
	want := "<para>" + BreakMarker + "</para>" + BreakMarker
	if got != want {
		t.Errorf("ReplaceBreaks() = %q, want %q", got, want)
	}
}

// TestConvertErrors verifies error categories.
func TestConvertErrors(t *testing.T) {
	if _, err := Convert([]byte("<hub><para></hub>"), DefaultOptions()); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("malformed input error = %v, want ErrInvalidInput", err)
	}

	_, err := ConvertFile(filepath.Join(t.TempDir(), "missing.xml"), DefaultOptions())
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("missing file error = %v, want IOError", err)
	}
}

// TestWriteFile verifies results land on disk unchanged.
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")
	if err := WriteFile(path, &Result{DocBook: "<article/>"}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<article/>" {
		t.Errorf("file content = %q", data)
	}
}

// TestConvertInput verifies the HubXML and IDML entry points.
func TestConvertInput(t *testing.T) {
	input := filepath.Join("testdata", "sample.hub.xml")
	res, err := ConvertInput(context.Background(), input, true, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertInput(hubxml) error = %v", err)
	}
	if res.HubXMLPath != input || len(res.HubXML) == 0 {
		t.Errorf("HubXML source = %q (%d bytes)", res.HubXMLPath, len(res.HubXML))
	}

	_, err = ConvertInput(context.Background(), "book.idml", false, nil, DefaultOptions())
	if !errors.Is(err, errors.ErrConfig) {
		t.Errorf("ConvertInput(idml, no runner) error = %v, want config error", err)
	}
}
