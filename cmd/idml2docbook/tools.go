package main

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/golden"
	"github.com/FocuswithJustin/idml2docbook/core/hubxml"
	"github.com/FocuswithJustin/idml2docbook/internal/archive"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

// GoldenGroup contains golden digest operations.
type GoldenGroup struct {
	Save  GoldenSaveCmd  `cmd:"" help:"Convert an input and save the digest of its output"`
	Check GoldenCheckCmd `cmd:"" help:"Convert an input and compare its output with a saved digest"`
}

// GoldenFlags are shared by the golden commands.
type GoldenFlags struct {
	Input      string `arg:"" help:"Input to convert" type:"existingfile"`
	Digest     string `help:"Digest file (default <input>.blake3)" type:"path"`
	HubXMLFile bool   `name:"idml2hubxml-file" short:"x" help:"Consider the input as a HubXML file"`

	ConversionFlags `embed:""`
}

func (f GoldenFlags) digestPath() string {
	if f.Digest != "" {
		return f.Digest
	}
	return golden.PathFor(f.Input)
}

func (f GoldenFlags) output(ctx context.Context, g *Globals) ([]byte, error) {
	cfg, err := f.resolve(g)
	if err != nil {
		return nil, err
	}
	res, err := convertOne(ctx, cfg, f.Input, f.HubXMLFile)
	if err != nil {
		return nil, err
	}
	return []byte(res.DocBook), nil
}

// GoldenSaveCmd records the digest of a conversion.
type GoldenSaveCmd struct {
	GoldenFlags `embed:""`
}

func (c *GoldenSaveCmd) Run(g *Globals, ctx context.Context, out io.Writer) error {
	data, err := c.output(ctx, g)
	if err != nil {
		return err
	}
	h, err := golden.Save(c.digestPath(), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s  %s\n", h, c.digestPath())
	return nil
}

// GoldenCheckCmd fails when a conversion no longer matches its digest.
type GoldenCheckCmd struct {
	GoldenFlags `embed:""`
}

func (c *GoldenCheckCmd) Run(g *Globals, ctx context.Context, out io.Writer) error {
	data, err := c.output(ctx, g)
	if err != nil {
		return err
	}
	if err := golden.Check(c.digestPath(), data); err != nil {
		return err
	}
	fmt.Fprintf(out, "OK %s\n", c.Input)
	return nil
}

// BundleGroup contains result bundle operations.
type BundleGroup struct {
	List   BundleListCmd   `cmd:"" help:"List the files of a bundle"`
	Verify BundleVerifyCmd `cmd:"" help:"Check bundle files against their manifest digests"`
}

// BundleListCmd prints the entries of a bundle.
type BundleListCmd struct {
	Path string `arg:"" help:"Bundle (.tar.xz)" type:"existingfile"`
}

func (c *BundleListCmd) Run(out io.Writer) error {
	return archive.Walk(c.Path, func(h *tar.Header, _ io.Reader) (bool, error) {
		if h.Typeflag == tar.TypeReg {
			fmt.Fprintf(out, "%10d  %s\n", h.Size, h.Name)
		}
		return false, nil
	})
}

// BundleVerifyCmd verifies a bundle.
type BundleVerifyCmd struct {
	Path string `arg:"" help:"Bundle (.tar.xz)" type:"existingfile"`
}

func (c *BundleVerifyCmd) Run(out io.Writer) error {
	if err := archive.Verify(c.Path); err != nil {
		return err
	}
	m, err := archive.ReadManifest(c.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "OK %s: %d files from %s (idml2docbook %s)\n", c.Path, len(m.Files), m.Input, m.Version)
	return nil
}

// CacheGroup contains HubXML cache maintenance.
type CacheGroup struct {
	Stats CacheStatsCmd `cmd:"" help:"Print the number of cached conversions"`
	Prune CachePruneCmd `cmd:"" help:"Remove cached conversions older than a duration"`
}

// CacheFlags locate the cache.
type CacheFlags struct {
	Cache string `help:"SQLite cache (default IDML2DOCBOOK_CACHE)" type:"path"`
}

func (f CacheFlags) open(g *Globals) (*hubxml.Cache, error) {
	cfg, err := ConversionFlags{Cache: f.Cache}.resolve(g)
	if err != nil {
		return nil, err
	}
	if cfg.CachePath == "" {
		return nil, fmt.Errorf("no cache configured; pass --cache or set IDML2DOCBOOK_CACHE")
	}
	return hubxml.OpenCache(cfg.CachePath)
}

// CacheStatsCmd prints cache statistics.
type CacheStatsCmd struct {
	CacheFlags `embed:""`
}

func (c *CacheStatsCmd) Run(g *Globals, ctx context.Context, out io.Writer) error {
	cache, err := c.open(g)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Len(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d cached conversions\n", n)
	return nil
}

// CachePruneCmd removes old cache entries.
type CachePruneCmd struct {
	CacheFlags `embed:""`
	OlderThan time.Duration `name:"older-than" help:"Age of the entries to remove" default:"720h"`
}

func (c *CachePruneCmd) Run(g *Globals, ctx context.Context, out io.Writer) error {
	cache, err := c.open(g)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Prune(ctx, time.Now().Add(-c.OlderThan))
	if err != nil {
		return err
	}
	logging.Info("cache pruned", "removed", n, "older_than", c.OlderThan)
	fmt.Fprintf(out, "removed %d cached conversions\n", n)
	return nil
}
