package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/config"
	"github.com/campuskit/campuskit/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommands runMain dispatches.
var commands = []string{"render", "import", "serve", "doctor", "version", "help", "completion"}

func main() {
	// maxprocs.Set only fails for an invalid GOMAXPROCS env value, in which
	// case the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	for _, c := range commands {
		if arg == c {
			return true
		}
	}
	return false
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if cmd == "-h" || cmd == "--help" {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "import":
		err = runImport(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "campuskit %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	case "completion":
		err = runCompletion(rest, env)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for well-known failures, or "".
// Store and listener failures carry their hint in the message already.
func hintFor(err error) string {
	switch {
	case errors.Is(err, campuskit.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	case errors.Is(err, ErrNotProject):
		return hints.ForProjectDir()
	}
	return ""
}
