// Package golden records BLAKE3 digests of converted documents so later
// runs can detect output regressions without storing the full output.
package golden

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/zeebo/blake3"
)

// Ext is appended to the output path to name its digest file.
const Ext = ".blake3"

// Hash returns the hex BLAKE3 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// PathFor returns the digest file path for an output path.
func PathFor(output string) string {
	return output + Ext
}

// Save writes the digest of data to path.
func Save(path string, data []byte) (string, error) {
	h := Hash(data)
	if err := os.WriteFile(path, []byte(h+"\n"), 0o644); err != nil {
		return "", errors.NewIO("write", path, err)
	}
	return h, nil
}

// MismatchError reports output that no longer matches its digest.
type MismatchError struct {
	Path string
	Want string
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("golden mismatch for %s: want %s, got %s", e.Path, e.Want, e.Got)
}

// Check compares the digest of data with the one stored at path.
func Check(path string, data []byte) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFound("golden digest", path)
		}
		return errors.NewIO("read", path, err)
	}
	want := strings.TrimSpace(string(raw))
	if got := Hash(data); got != want {
		return &MismatchError{Path: path, Want: want, Got: got}
	}
	return nil
}
