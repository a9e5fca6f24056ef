package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()
	setMaxProcs(os.Args, env.Stderr)
	os.Exit(runMain(os.Args, env))
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota, logging the
// change only with --verbose.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(args []string, w io.Writer) {
	if hasVerbose(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// hasVerbose reports whether -v or --verbose appears before "--".
func hasVerbose(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

// runMain dispatches a subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitGeneral
	}

	if env.Environ != nil {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "select":
		return runSelectCmd(ctx, rest, env)
	case "convert":
		return runConvertCmd(ctx, rest, env)
	case "watermark":
		return runWatermarkCmd(ctx, rest, env)
	case "run":
		return runRunCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "docpdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}
