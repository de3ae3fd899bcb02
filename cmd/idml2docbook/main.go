// Command idml2docbook converts IDML documents to DocBook through the
// HubXML produced by idml2xml, and ships the styles, golden, bundle,
// cache, serve and watch tooling around that conversion.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/idml2docbook/core/docbook"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

// CLI defines the command-line interface.
type CLI struct {
	Globals `embed:""`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version information and exit"`

	Convert ConvertCmd  `cmd:"" default:"withargs" help:"Convert an IDML (or HubXML) file to DocBook"`
	Styles  StylesCmd   `cmd:"" help:"Report styles and map coverage; export ODS, CSS or a map template"`
	Golden  GoldenGroup `cmd:"" help:"Golden digest operations"`
	Bundle  BundleGroup `cmd:"" help:"Result bundle operations"`
	Cache   CacheGroup  `cmd:"" help:"HubXML conversion cache maintenance"`
	Serve   ServeCmd    `cmd:"" help:"Start the HTTP conversion API"`
	Watch   WatchCmd    `cmd:"" help:"Convert inputs again whenever they change"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// Globals are the flags shared by every command.
type Globals struct {
	EnvFile   string `name:"env-file" help:"Env file to load (default .env when present)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `name:"log-format" help:"Log format" enum:"text,json" default:"text"`
	LogFile   string `name:"log-file" help:"Write logs to this file instead of stderr" type:"path"`
}

// setupLogging configures the global logger and returns a closer for the
// log file, if any.
func (g *Globals) setupLogging(stderr io.Writer) (func(), error) {
	w, closer := stderr, func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	}
	logging.InitLoggerTo(w, logging.ParseLevel(g.LogLevel), logging.ParseFormat(g.LogFormat))
	return closer, nil
}

// run parses args and runs the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("idml2docbook"),
		kong.Description("Convert IDML files to DocBook."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": "idml2docbook version " + docbook.Version},
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(stdout, (*io.Writer)(nil)),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	closeLog, err := cli.Globals.setupLogging(stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	return kctx.Run(&cli.Globals)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logging.Error("idml2docbook failed", "error", err)
		fmt.Fprintln(os.Stderr, "idml2docbook:", err)
		stop()
		os.Exit(1)
	}
}
