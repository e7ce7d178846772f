package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// exportFlags holds snapshot flags for render.
type exportFlags struct {
	pdf    bool
	png    bool
	width  int
	height int
	full   bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	export  exportFlags
	output  string
	mode    string
	baseURL string
	watch   bool
	workers int
	timeout string
}

// importFlags holds all flags for the import command.
type importFlags struct {
	common  commonFlags
	db      string
	owner   string
	baseURL string
	subject string
	publish bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
	db     string
	dotenv string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addExportFlags adds snapshot flags to a FlagSet.
func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.BoolVar(&f.pdf, "pdf", false, "also write a PDF snapshot")
	fs.BoolVar(&f.png, "png", false, "also write a PNG snapshot")
	fs.IntVar(&f.width, "width", 0, "PNG viewport width (0 = 1280)")
	fs.IntVar(&f.height, "height", 0, "PNG viewport height (0 = 800)")
	fs.BoolVar(&f.full, "full", false, "PNG: capture the full page")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs.Parse and wraps failures in ErrUsage. flag.ErrHelp is
// returned as is so callers can exit cleanly after usage was printed.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// newRenderFlagSet registers the render flags. Shared with completion.
func newRenderFlagSet(stderr io.Writer) (*flag.FlagSet, *renderFlags) {
	fs := newFlagSet("render", stderr, printRenderUsage)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to each project)")
	fs.StringVarP(&f.mode, "mode", "m", "published", "render mode: preview, published, card")
	fs.StringVar(&f.baseURL, "base-url", "", "URL prefix for assets/ files (default: file:// paths)")
	fs.BoolVar(&f.watch, "watch", false, "re-render when project files change")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)
	return fs, f
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs, f := newRenderFlagSet(stderr)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newImportFlagSet registers the import flags.
func newImportFlagSet(stderr io.Writer) (*flag.FlagSet, *importFlags) {
	fs := newFlagSet("import", stderr, printImportUsage)
	f := &importFlags{}

	fs.StringVar(&f.db, "db", "", "SQLite database path (default: database.path)")
	fs.StringVar(&f.owner, "owner", "", "owner ID of the imported content")
	fs.StringVar(&f.baseURL, "base-url", "", "public URL prefix where assets/ files are served")
	fs.StringVar(&f.subject, "subject", "", "subject when the manifest has none")
	fs.BoolVar(&f.publish, "publish", false, "publish immediately")

	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseImportFlags parses import command flags and returns positional args.
func parseImportFlags(args []string, stderr io.Writer) (*importFlags, []string, error) {
	fs, f := newImportFlagSet(stderr)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newServeFlagSet registers the serve flags.
func newServeFlagSet(stderr io.Writer) (*flag.FlagSet, *serveFlags) {
	fs := newFlagSet("serve", stderr, printServeUsage)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default: server.addr)")
	fs.StringVar(&f.db, "db", "", "SQLite database path (default: database.path)")
	fs.StringVar(&f.dotenv, "env-file", defaultDotenv, "dotenv file loaded before configuration")

	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs, f := newServeFlagSet(stderr)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %v", ErrUsage, fs.Args())
	}
	return f, nil
}
