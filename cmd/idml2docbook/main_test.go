package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/golden"
)

const sampleHub = `<?xml version="1.0" encoding="UTF-8"?>
<hub xmlns="http://docbook.org/ns/docbook">
<info><title>Sample</title></info>
<para role="Body">Hello <phrase role="Note">world</phrase></para>
<para role="hub:ignored">Skipped</para>
</hub>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// runCLI runs the command line with an empty env file and no script
// folder in the environment.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"IDML2HUBXML_SCRIPT_FOLDER", "IDML2DOCBOOK_CACHE", "TYPOGRAPHY", "IGNORE_OVERRIDES", "MEDIA"} {
		t.Setenv(key, "")
	}
	env := writeFile(t, t.TempDir(), "test.env", "")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--env-file", env}, args...), &stdout, &stderr)
	return stdout.String(), err
}

// TestVersion verifies the version command.
func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != "idml2docbook version 1.1.3\n" {
		t.Errorf("output = %q", out)
	}
}

// TestConvertStdout verifies HubXML input is converted to stdout, with
// convert as the default command.
func TestConvertStdout(t *testing.T) {
	input := writeFile(t, t.TempDir(), "book.xml", sampleHub)

	for _, args := range [][]string{
		{"convert", "-x", input},
		{"-x", input},
	} {
		t.Run(strings.Join(args[:len(args)-1], " "), func(t *testing.T) {
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("run error = %v", err)
			}
			if !strings.Contains(out, "Hello") || strings.Contains(out, "<info>") {
				t.Errorf("unexpected output:\n%s", out)
			}
		})
	}
}

// TestConvertIDMLWithoutScript verifies the script folder is required
// for IDML input.
func TestConvertIDMLWithoutScript(t *testing.T) {
	input := writeFile(t, t.TempDir(), "book.idml", "PK\x03\x04")
	_, err := runCLI(t, "convert", input)
	if !errors.Is(err, errors.ErrConfig) {
		t.Fatalf("error = %v, want a configuration error", err)
	}
}

// TestConvertRejectsMismatchedInput verifies -x checks the content.
func TestConvertRejectsMismatchedInput(t *testing.T) {
	input := writeFile(t, t.TempDir(), "book.xml", "PK\x03\x04 not xml")
	if _, err := runCLI(t, "convert", "-x", input); err == nil {
		t.Fatal("convert accepted a zip as HubXML")
	}
}

// TestConvertOutputGoldenBundle verifies the output file, its digest and
// the bundle, then checks them with the golden and bundle commands.
func TestConvertOutputGoldenBundle(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "book.xml", sampleHub)
	output := filepath.Join(dir, "book.dbk")
	bundle := filepath.Join(dir, "book.tar.xz")

	if _, err := runCLI(t, "convert", "-x", input, "-o", output, "--golden", "--bundle", bundle); err != nil {
		t.Fatalf("convert error = %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if err := golden.Check(golden.PathFor(output), data); err != nil {
		t.Errorf("digest of output: %v", err)
	}

	out, err := runCLI(t, "bundle", "verify", bundle)
	if err != nil {
		t.Fatalf("bundle verify error = %v", err)
	}
	if !strings.Contains(out, "2 files from book.xml") {
		t.Errorf("verify output = %q", out)
	}
	out, err = runCLI(t, "bundle", "list", bundle)
	if err != nil {
		t.Fatalf("bundle list error = %v", err)
	}
	for _, want := range []string{"book/book.dbk", "book/book.xml", "book/manifest.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("list lacks %s:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "convert", "-x", input, "--golden"); err == nil {
		t.Error("--golden without --output succeeded")
	}
}

// TestGoldenSaveCheck verifies digests catch changed output.
func TestGoldenSaveCheck(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "book.xml", sampleHub)
	digest := filepath.Join(dir, "book.blake3")

	if _, err := runCLI(t, "golden", "save", "-x", input, "--digest", digest); err != nil {
		t.Fatalf("golden save error = %v", err)
	}
	out, err := runCLI(t, "golden", "check", "-x", input, "--digest", digest)
	if err != nil {
		t.Fatalf("golden check error = %v", err)
	}
	if !strings.HasPrefix(out, "OK ") {
		t.Errorf("check output = %q", out)
	}

	other := writeFile(t, dir, "other.xml", strings.Replace(sampleHub, "Hello", "Goodbye", 1))
	_, err = runCLI(t, "golden", "check", "-x", other, "--digest", digest)
	var mismatch *golden.MismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("error = %v, want MismatchError", err)
	}
}

// TestStyles verifies the coverage report and the exports.
func TestStyles(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "book.xml", sampleHub)
	mapPath := writeFile(t, dir, "map.json", `[{"selector": ".Body", "operation": {"type": "para"}}]`)

	out, err := runCLI(t, "styles", input, mapPath, "--to-css", "--to-ods", "--to-json-template")
	if err != nil {
		t.Fatalf("styles error = %v", err)
	}
	for _, want := range []string{
		"Role/tag couples present in " + input + ":",
		"- Body (para)",
		"Applied mapping:\n- Body => para",
		"Unhandled elements:\n- Note (phrase)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hub:ignored") {
		t.Errorf("report lists hub roles:\n%s", out)
	}

	for _, name := range []string{"book.css", "book.ods", "book_template.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

// TestStylesWithoutMap verifies a missing map is reported, not fatal.
func TestStylesWithoutMap(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "book.xml", sampleHub)

	out, err := runCLI(t, "styles", input, filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("styles error = %v", err)
	}
	if !strings.Contains(out, "No data was read from the map file!") {
		t.Errorf("output:\n%s", out)
	}
}

// TestLogFile verifies --log-file receives the logs.
func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "book.xml", sampleHub)
	logFile := filepath.Join(dir, "run.log")

	if _, err := runCLI(t, "--log-file", logFile, "--log-level", "debug", "--log-format", "json", "convert", "-x", input); err != nil {
		t.Fatalf("run error = %v", err)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"level":"DEBUG"`) {
		t.Errorf("log file lacks debug records:\n%s", data)
	}
}

// TestConvertTo verifies watch conversions write <stem>.dbk.
func TestConvertTo(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "chapter.xml", sampleHub)
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := ConversionFlags{}.resolve(&Globals{EnvFile: writeFile(t, dir, "test.env", "")})
	if err != nil {
		t.Fatal(err)
	}
	if err := convertTo(context.Background(), cfg, input, outDir); err != nil {
		t.Fatalf("convertTo error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "chapter.dbk")); err != nil {
		t.Errorf("missing output: %v", err)
	}
}
