package hubxml

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
)

// fakeScript mimics idml2xml.sh: it writes <out>/<stem>.xml.
const fakeScript = `#!/bin/bash
out="$2"
in="$3"
stem=$(basename "$in")
stem="${stem%.*}"
mkdir -p "$out"
echo "<hub>$(cat "$in")</hub>" > "$out/$stem.xml"
echo run >> "$out/runs"
`

const failingScript = `#!/bin/bash
echo "cannot read IDML" >&2
exit 3
`

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func setupRunner(t *testing.T, script string) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	scripts := filepath.Join(dir, "idml2xml")
	if err := os.MkdirAll(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scripts, Script), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(dir, "Livre final.idml")
	if err := os.WriteFile(input, []byte("idml"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewRunner(scripts, filepath.Join(dir, "out")), input
}

// TestKey verifies keys are stable hex BLAKE3 digests.
func TestKey(t *testing.T) {
	a := Key([]byte("idml"))
	if len(a) != 64 {
		t.Errorf("Key length = %d, want 64", len(a))
	}
	if a != Key([]byte("idml")) {
		t.Error("Key should be deterministic")
	}
	if a == Key([]byte("other")) {
		t.Error("different data should give different keys")
	}
}

// TestOutputPath verifies the HubXML location.
func TestOutputPath(t *testing.T) {
	r := NewRunner("scripts", "idml2hubxml")
	got := r.OutputPath("/books/Livre final.idml")
	if want := filepath.Join("idml2hubxml", "Livre final.xml"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

// TestConvertMissingScriptFolder verifies the configuration error.
func TestConvertMissingScriptFolder(t *testing.T) {
	r := NewRunner("", t.TempDir())
	_, err := r.Convert(context.Background(), "book.idml")
	if !errors.Is(err, errors.ErrConfig) {
		t.Errorf("Convert() error = %v, want ErrConfig", err)
	}

	r = NewRunner(t.TempDir(), t.TempDir())
	if _, err := r.Convert(context.Background(), "book.idml"); !errors.Is(err, errors.ErrConfig) {
		t.Errorf("Convert() without script error = %v, want ErrConfig", err)
	}
}

// TestConvert verifies the script runs and its output is returned.
func TestConvert(t *testing.T) {
	requireBash(t)
	r, input := setupRunner(t, fakeScript)

	out, err := r.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out != r.OutputPath(input) {
		t.Errorf("Convert() = %q, want %q", out, r.OutputPath(input))
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "<hub>idml</hub>\n" {
		t.Errorf("output = %q", data)
	}
}

// TestConvertFailure verifies a non-zero exit is reported with stderr.
func TestConvertFailure(t *testing.T) {
	requireBash(t)
	r, input := setupRunner(t, failingScript)

	_, err := r.Convert(context.Background(), input)
	var cmdErr *errors.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Convert() error = %v, want CommandError", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "cannot read IDML" {
		t.Errorf("Stderr = %q", cmdErr.Stderr)
	}
}

// TestConvertCached verifies a second run is served from the cache.
func TestConvertCached(t *testing.T) {
	requireBash(t)
	r, input := setupRunner(t, fakeScript)

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer cache.Close()
	r.Cache = cache

	ctx := context.Background()
	out, err := r.Convert(ctx, input)
	if err != nil {
		t.Fatalf("first Convert() error = %v", err)
	}
	if err := os.Remove(out); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Convert(ctx, input); err != nil {
		t.Fatalf("second Convert() error = %v", err)
	}

	runs, err := os.ReadFile(filepath.Join(r.OutputFolder, "runs"))
	if err != nil {
		t.Fatal(err)
	}
	if string(runs) != "run\n" {
		t.Errorf("script ran %q, want once", runs)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("cached output not restored: %v", err)
	}
	if string(data) != "<hub>idml</hub>\n" {
		t.Errorf("cached output = %q", data)
	}
}

// TestCache verifies storage, lookup and pruning.
func TestCache(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer cache.Close()
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}

	cache.now = func() time.Time { return time.Unix(1000, 0) }
	if err := cache.Put(ctx, "old", "old.idml", []byte("<hub/>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	cache.now = func() time.Time { return time.Unix(5000, 0) }
	if err := cache.Put(ctx, "new", "new.idml", []byte("<hub>n</hub>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, ok, err := cache.Get(ctx, "new")
	if err != nil || !ok || string(data) != "<hub>n</hub>" {
		t.Errorf("Get(new) = %q, %v, %v", data, ok, err)
	}
	if n, _ := cache.Len(ctx); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}

	removed, err := cache.Prune(ctx, time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if _, ok, _ := cache.Get(ctx, "old"); ok {
		t.Error("old entry should be pruned")
	}
}
