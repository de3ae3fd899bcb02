// Package hubxml produces HubXML from IDML files by running the external
// idml2xml converter, optionally through a conversion cache.
package hubxml

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

// Script is the entry point of the idml2xml converter.
const Script = "idml2xml.sh"

// Injectable functions for testing.
var (
	execCommandContext = exec.CommandContext
	osReadFile         = os.ReadFile
	osWriteFile        = os.WriteFile
	osMkdirAll         = os.MkdirAll
)

// Runner runs idml2xml.
type Runner struct {
	ScriptFolder string // folder holding idml2xml.sh
	OutputFolder string // where idml2xml writes <stem>.xml
	Shell        string
	Timeout      time.Duration
	Cache        *Cache // optional
}

// NewRunner creates a runner with the default shell and timeout.
func NewRunner(scriptFolder, outputFolder string) *Runner {
	return &Runner{
		ScriptFolder: scriptFolder,
		OutputFolder: outputFolder,
		Shell:        "bash",
		Timeout:      10 * time.Minute,
	}
}

// OutputPath returns the HubXML file idml2xml writes for input.
func (r *Runner) OutputPath(input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(r.OutputFolder, stem+".xml")
}

// Convert turns the IDML file at input into HubXML and returns the path
// of the HubXML file. A failing converter is fatal; nothing is retried.
func (r *Runner) Convert(ctx context.Context, input string) (string, error) {
	if r.ScriptFolder == "" {
		return "", errors.NewConfig("IDML2HUBXML_SCRIPT_FOLDER", "script folder is required to convert IDML files")
	}
	script := filepath.Join(r.ScriptFolder, Script)
	if _, err := os.Stat(script); err != nil {
		return "", errors.NewConfig("IDML2HUBXML_SCRIPT_FOLDER", fmt.Sprintf("%s not found", script))
	}

	output := r.OutputPath(input)

	var key string
	if r.Cache != nil {
		data, err := osReadFile(input)
		if err != nil {
			return "", errors.NewIO("read", input, err)
		}
		key = Key(data)
		if hubxml, ok, err := r.Cache.Get(ctx, key); err != nil {
			logging.Warn("hubxml cache lookup failed", "input", input, "error", err)
		} else if ok {
			logging.Info("hubxml cache hit", "input", input, "key", key)
			return output, r.writeOutput(output, hubxml)
		}
	}

	if err := r.run(ctx, script, input); err != nil {
		return "", err
	}

	if r.Cache != nil {
		hubxml, err := osReadFile(output)
		if err != nil {
			return "", errors.NewIO("read", output, err)
		}
		if err := r.Cache.Put(ctx, key, filepath.Base(input), hubxml); err != nil {
			logging.Warn("hubxml cache store failed", "input", input, "error", err)
		}
	}
	return output, nil
}

func (r *Runner) run(ctx context.Context, script, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	shell := r.Shell
	if shell == "" {
		shell = "bash"
	}
	argv := []string{script, "-o", r.OutputFolder, input}
	logging.ExternalCommand(shell, argv)

	cmd := execCommandContext(ctx, shell, argv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		cmdErr := &errors.CommandError{Command: Script, ExitCode: -1, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		if exitErr, ok := err.(*exec.ExitError); ok {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return cmdErr
	}

	output := r.OutputPath(input)
	if _, err := os.Stat(output); err != nil {
		return errors.NewNotFound("HubXML output", output)
	}
	stem := strings.TrimSuffix(output, ".xml")
	logging.Info("idml2xml done",
		"output", output,
		"log", stem+".log",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (r *Runner) writeOutput(path string, data []byte) error {
	if err := osMkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIO("mkdir", filepath.Dir(path), err)
	}
	if err := osWriteFile(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
