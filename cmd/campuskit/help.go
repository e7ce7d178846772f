package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: campuskit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Assemble project directories into HTML, PDF or PNG")
	fmt.Fprintln(w, "  import     Store project directories in the content database")
	fmt.Fprintln(w, "  serve      Run the rendering host")
	fmt.Fprintln(w, "  doctor     Check the system for export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'campuskit help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: campuskit render <project-dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assemble each project (index.html, style.css, script.js, assets/) into")
	fmt.Fprintln(w, "one standalone document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each project)")
	fmt.Fprintln(w, "  -m, --mode <s>            preview, published, card (default: published)")
	fmt.Fprintln(w, "      --base-url <url>      URL prefix for assets/ files (default: file:// paths)")
	fmt.Fprintln(w, "      --watch               Re-render when project files change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "      --pdf                 Also write a PDF snapshot")
	fmt.Fprintln(w, "      --png                 Also write a PNG snapshot")
	fmt.Fprintln(w, "      --width <n>           PNG viewport width (default: 1280)")
	fmt.Fprintln(w, "      --height <n>          PNG viewport height (default: 800)")
	fmt.Fprintln(w, "      --full                PNG: capture the full page")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printImportUsage prints usage for the import command.
func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: campuskit import <project-dir>... --owner <id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Store projects and register their assets/ files in the content database.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --owner <id>          Owner ID (or CAMPUSKIT_OWNER)")
	fmt.Fprintln(w, "      --db <path>           SQLite database (default: database.path)")
	fmt.Fprintln(w, "      --base-url <url>      Public URL prefix where assets/ files are served")
	fmt.Fprintln(w, "      --subject <s>         Subject when the manifest has none")
	fmt.Fprintln(w, "      --publish             Publish immediately")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: campuskit serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve published content until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default: server.addr)")
	fmt.Fprintln(w, "      --db <path>           SQLite database (default: database.path)")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file (default: .env)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "import":
		printImportUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: campuskit doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check configuration, database directory, Chrome and temp directory setup.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: campuskit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: campuskit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case "completion":
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
