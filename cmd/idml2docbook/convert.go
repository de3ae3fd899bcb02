package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/core/golden"
	"github.com/FocuswithJustin/idml2docbook/core/hubxml"
	"github.com/FocuswithJustin/idml2docbook/internal/archive"
	"github.com/FocuswithJustin/idml2docbook/internal/config"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/FocuswithJustin/idml2docbook/internal/validation"
)

// ConversionFlags override the .env and environment settings.
type ConversionFlags struct {
	IgnoreOverrides   bool   `short:"g" help:"Ignore the style overrides (direct formatting)"`
	Typography        bool   `short:"t" help:"Redo the orthotypography (French rules, thin spaces, nbsp)"`
	ThinSpaces        bool   `short:"l" help:"Only use thin spaces when redoing the orthotypography"`
	Linebreaks        bool   `short:"b" help:"Keep <br> tags instead of replacing them with spaces"`
	RelocateSpanSpace bool   `name:"relocate-span-space" help:"Move whitespace out of phrase edges (with --typography)"`
	Media             string `short:"f" help:"Path to the media folder (default \"Links\")"`
	Raster            string `short:"r" help:"Extension replacing raster media extensions, e.g. jpg"`
	Vector            string `short:"v" help:"Extension replacing vector media extensions, e.g. svg"`
	HubXMLOutput      string `name:"idml2hubxml-output" short:"i" help:"Output folder of idml2xml (default \"idml2hubxml\")"`
	Script            string `name:"idml2hubxml-script" short:"s" help:"Folder holding the idml2xml script"`
	Cache             string `help:"SQLite cache of HubXML conversions" type:"path"`
}

func (f ConversionFlags) overrides() config.Overrides {
	return config.Overrides{
		Typography:        f.Typography,
		IgnoreOverrides:   f.IgnoreOverrides,
		ThinSpaces:        f.ThinSpaces,
		Linebreaks:        f.Linebreaks,
		RelocateSpanSpace: f.RelocateSpanSpace,
		Media:             f.Media,
		Raster:            f.Raster,
		Vector:            f.Vector,
		OutputFolder:      f.HubXMLOutput,
		ScriptFolder:      f.Script,
		CachePath:         f.Cache,
	}
}

// resolve merges the env file, the environment and the flags.
func (f ConversionFlags) resolve(g *Globals) (config.Config, error) {
	cfg, err := config.Load(g.EnvFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.Apply(f.overrides())
	logging.Debug("resolved configuration",
		"typography", cfg.Options.Typography,
		"ignore_overrides", cfg.Options.IgnoreOverrides,
		"thin_spaces", cfg.Options.ThinSpaces,
		"linebreaks", cfg.Options.Linebreaks,
		"media", cfg.Options.Media,
		"script_folder", cfg.ScriptFolder,
		"cache", cfg.CachePath)
	return cfg, nil
}

// newRunner returns the idml2xml runner of cfg, or nil without a script
// folder. The returned closer releases the cache.
func newRunner(cfg config.Config) (*hubxml.Runner, func(), error) {
	if cfg.ScriptFolder == "" {
		return nil, func() {}, nil
	}
	runner := hubxml.NewRunner(cfg.ScriptFolder, cfg.OutputFolder)
	if cfg.CachePath == "" {
		return runner, func() {}, nil
	}
	cache, err := hubxml.OpenCache(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	runner.Cache = cache
	return runner, func() { cache.Close() }, nil
}

// convertOne converts input with cfg, checking its content first.
func convertOne(ctx context.Context, cfg config.Config, input string, isHubXML bool) (*docbook.Result, error) {
	want := validation.KindIDML
	if isHubXML {
		want = validation.KindHubXML
	} else if err := cfg.RequireScriptFolder(); err != nil {
		return nil, err
	}
	if err := checkInput(input, want); err != nil {
		return nil, err
	}

	runner, closeRunner, err := newRunner(cfg)
	if err != nil {
		return nil, err
	}
	defer closeRunner()
	return docbook.ConvertInput(ctx, input, isHubXML, runner, cfg.Options)
}

func checkInput(input string, want validation.InputKind) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := validation.ValidateInput(f, want); err != nil {
		if want == validation.KindIDML {
			return fmt.Errorf("%s: %w (use -x for HubXML input)", input, err)
		}
		return fmt.Errorf("%s: %w", input, err)
	}
	return nil
}

// ConvertCmd converts one file.
type ConvertCmd struct {
	Input      string `arg:"" help:"Filename of the IDML input" type:"existingfile"`
	HubXMLFile bool   `name:"idml2hubxml-file" short:"x" help:"Consider the input as a HubXML file, skipping idml2xml"`
	Output     string `short:"o" help:"File where output is written, defaults to stdout" type:"path"`
	Golden     bool   `help:"Write the BLAKE3 digest of the output next to it (requires --output)"`
	Bundle     string `help:"Also pack the DocBook and HubXML into this .tar.xz bundle" type:"path"`

	ConversionFlags `embed:""`
}

func (c *ConvertCmd) Run(g *Globals, ctx context.Context, out io.Writer) error {
	if c.Golden && c.Output == "" {
		return fmt.Errorf("--golden requires --output")
	}
	cfg, err := c.resolve(g)
	if err != nil {
		return err
	}
	res, err := convertOne(ctx, cfg, c.Input, c.HubXMLFile)
	if err != nil {
		return err
	}

	if c.Output == "" {
		fmt.Fprintln(out, res.DocBook)
	} else {
		logging.Info("writing file", "path", c.Output)
		if err := docbook.WriteFile(c.Output, res); err != nil {
			return err
		}
	}

	if c.Golden {
		path := golden.PathFor(c.Output)
		h, err := golden.Save(path, []byte(res.DocBook))
		if err != nil {
			return err
		}
		logging.Info("golden digest saved", "path", path, "blake3", h)
	}

	if c.Bundle != "" {
		if err := writeBundle(c.Bundle, c.Input, cfg, res); err != nil {
			return err
		}
		logging.Info("bundle written", "path", c.Bundle)
	}
	return nil
}

func writeBundle(path, input string, cfg config.Config, res *docbook.Result) error {
	base := archive.BaseName(input)
	entries := []archive.Entry{{Name: base + ".dbk", Data: []byte(res.DocBook)}}
	if len(res.HubXML) > 0 {
		entries = append(entries, archive.Entry{Name: filepath.Base(res.HubXMLPath), Data: res.HubXML})
	}
	m := archive.Manifest{
		Input:     filepath.Base(input),
		Version:   docbook.Version,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Options:   cfg.Options,
	}
	return archive.Create(path, base, m, entries)
}
