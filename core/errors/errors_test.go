package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "job", ID: "1234"},
			wantMsg:  "job not found: 1234",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "map file"},
			wantMsg:  "map file not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "input", ID: "book.idml", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{"with field", NewValidation("selector", "must start with a dot"), "validation failed for selector: must start with a dot"},
		{"without field", &ValidationError{Message: "empty map"}, "validation failed: empty map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Error("expected ValidationError to match ErrInvalidInput")
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfig("IDML2HUBXML_SCRIPT_FOLDER", "not set")
	want := "configuration error: IDML2HUBXML_SCRIPT_FOLDER: not set"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(Wrap(err, "convert"), ErrConfig) {
		t.Error("wrapped ConfigError should match ErrConfig")
	}
}

func TestIOError(t *testing.T) {
	err := NewIO("read", "book.xml", os.ErrNotExist)
	if got := err.Error(); got != "failed to read book.xml: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("IOError should unwrap to the underlying error")
	}

	noPath := &IOError{Operation: "write", Err: os.ErrPermission}
	if got := noPath.Error(); got != "failed to write: permission denied" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("HubXML", "in.xml", "unexpected EOF")
	if got := err.Error(); got != "failed to parse HubXML at in.xml: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError should match ErrInvalidInput")
	}
	if got := NewParse("selector", "", "bad token").Error(); got != "failed to parse selector: bad token" {
		t.Errorf("Error() = %q", got)
	}
}

func TestCommandError(t *testing.T) {
	err := &CommandError{Command: "idml2xml.sh", ExitCode: 2, Stderr: "no such file"}
	if got := err.Error(); got != "idml2xml.sh exited with code 2: no such file" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInternal) {
		t.Error("CommandError without cause should match ErrInternal")
	}
	quiet := &CommandError{Command: "bash", ExitCode: 1}
	if got := quiet.Error(); got != "bash exited with code 1" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("map format", ".toml")
	if got := err.Error(); got != "unsupported map format: .toml" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should match ErrUnsupported")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	base := NewNotFound("input", "a.idml")
	wrapped := Wrapf(base, "convert %s", "a.idml")
	if wrapped.Error() != "convert a.idml: input not found: a.idml" {
		t.Errorf("Wrapf() = %q", wrapped.Error())
	}
	var nf *NotFoundError
	if !As(wrapped, &nf) || nf.ID != "a.idml" {
		t.Error("As should find the NotFoundError")
	}
}
