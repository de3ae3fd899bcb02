package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/internal/api"
	"github.com/FocuswithJustin/idml2docbook/internal/archive"
	"github.com/FocuswithJustin/idml2docbook/internal/config"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/FocuswithJustin/idml2docbook/internal/validation"
	"github.com/FocuswithJustin/idml2docbook/internal/watch"
)

// ServeCmd starts the HTTP API.
type ServeCmd struct {
	Port           int           `help:"Port to listen on" default:"8080"`
	APIKey         string        `name:"api-key" help:"Require this X-API-Key on conversion endpoints" env:"IDML2DOCBOOK_API_KEY"`
	AllowedOrigins []string      `name:"allowed-origins" help:"Allowed CORS and websocket origins (default all)"`
	MaxUpload      int64         `name:"max-upload" help:"Largest accepted input in bytes" default:"268435456"`
	WorkDir        string        `name:"work-dir" help:"Folder for temporary IDML uploads" type:"path"`
	ResultTTL      time.Duration `name:"result-ttl" help:"How long identical requests reuse a result, negative disables" default:"10m"`

	ConversionFlags `embed:""`
}

func (c *ServeCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := c.resolve(g)
	if err != nil {
		return err
	}
	runner, closeRunner, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer closeRunner()
	if runner == nil {
		logging.Warn("no idml2xml script folder, only HubXML requests are accepted")
	}

	srv, err := api.New(api.Config{
		Port:           c.Port,
		Conversion:     cfg,
		Auth:           api.AuthConfig{Enabled: c.APIKey != "", APIKey: c.APIKey},
		AllowedOrigins: c.AllowedOrigins,
		MaxUploadSize:  c.MaxUpload,
		WorkDir:        c.WorkDir,
		ResultTTL:      c.ResultTTL,
	}, runner)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

// WatchCmd converts inputs of a folder whenever they are written.
type WatchCmd struct {
	Dir      string        `arg:"" help:"Folder to watch" type:"existingdir"`
	OutDir   string        `name:"out-dir" help:"Folder receiving the .dbk files (default the watched folder)" type:"path"`
	Debounce time.Duration `help:"Quiet period before converting" default:"2s"`

	ConversionFlags `embed:""`
}

func (c *WatchCmd) Run(g *Globals, ctx context.Context) error {
	cfg, err := c.resolve(g)
	if err != nil {
		return err
	}
	outDir := c.OutDir
	if outDir == "" {
		outDir = c.Dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	w, err := watch.New(c.Dir, func(ctx context.Context, path string) error {
		return convertTo(ctx, cfg, path, outDir)
	})
	if err != nil {
		return err
	}
	w.Debounce = c.Debounce
	return w.Run(ctx)
}

// convertTo converts path by its extension and writes <outDir>/<stem>.dbk.
func convertTo(ctx context.Context, cfg config.Config, path, outDir string) error {
	isHubXML := validation.KindOf(path) == validation.KindHubXML
	res, err := convertOne(ctx, cfg, path, isHubXML)
	if err != nil {
		return err
	}
	out := filepath.Join(outDir, archive.BaseName(path)+".dbk")
	return docbook.WriteFile(out, res)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	fmt.Fprintf(out, "idml2docbook version %s\n", docbook.Version)
	return nil
}
