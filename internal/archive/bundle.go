package archive

import (
	"archive/tar"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/core/golden"
	"github.com/FocuswithJustin/idml2docbook/core/text"
	"github.com/ulikunitz/xz"
)

// Ext is the bundle file suffix.
const Ext = ".tar.xz"

// ManifestName is the manifest entry of every bundle.
const ManifestName = "manifest.json"

// Entry is one file of a bundle.
type Entry struct {
	Name string
	Data []byte
}

// ManifestEntry describes one bundled file.
type ManifestEntry struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	BLAKE3 string `json:"blake3"`
}

// Manifest records what a bundle holds and how it was produced.
type Manifest struct {
	Input     string          `json:"input"`
	Version   string          `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Options   any             `json:"options,omitempty"`
	Files     []ManifestEntry `json:"files"`
}

// BaseName returns the bundle directory for an input file: its base name
// without extension.
func BaseName(input string) string {
	root, _ := text.SplitExt(filepath.Base(input))
	return root
}

// PathFor returns the default bundle path next to output.
func PathFor(output string) string {
	root, _ := text.SplitExt(output)
	root = strings.TrimSuffix(root, ".dbk")
	return root + Ext
}

// Write packs entries under base/ followed by the manifest, xz-compressed.
// Every header carries m.CreatedAt so equal inputs give equal bundles.
func Write(w io.Writer, base string, m Manifest, entries []Entry) error {
	m.Files = m.Files[:0]
	for _, e := range entries {
		m.Files = append(m.Files, ManifestEntry{Name: e.Name, Size: len(e.Data), BLAKE3: golden.Hash(e.Data)})
	}
	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	all := append(entries[:len(entries):len(entries)], Entry{Name: ManifestName, Data: append(manifest, '\n')})

	xw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(xw)

	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     base + "/",
		Mode:     0o755,
		ModTime:  m.CreatedAt,
	}); err != nil {
		return err
	}
	for _, e := range all {
		if err := tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     base + "/" + e.Name,
			Mode:     0o644,
			Size:     int64(len(e.Data)),
			ModTime:  m.CreatedAt,
		}); err != nil {
			return err
		}
		if _, err := tw.Write(e.Data); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return xw.Close()
}

// Create writes a bundle file, creating parent directories.
func Create(path, base string, m Manifest, entries []Entry) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIO("create directory", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create bundle", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.NewIO("close bundle", path, cerr)
		}
	}()
	if err := Write(f, base, m, entries); err != nil {
		return errors.NewIO("write bundle", path, err)
	}
	return nil
}

// ReadManifest returns the manifest of a bundle.
func ReadManifest(path string) (*Manifest, error) {
	data, err := ReadFile(path, ManifestName)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParse("manifest", path, err.Error())
	}
	return &m, nil
}

// Verify checks every file listed in the manifest against its digest.
func Verify(path string) error {
	m, err := ReadManifest(path)
	if err != nil {
		return err
	}
	for _, f := range m.Files {
		data, err := ReadFile(path, f.Name)
		if err != nil {
			return err
		}
		if got := golden.Hash(data); got != f.BLAKE3 {
			return &golden.MismatchError{Path: f.Name, Want: f.BLAKE3, Got: got}
		}
	}
	return nil
}
