package main

import (
	"context"
	"fmt"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
	"github.com/alnah/go-docpdf/internal/ghaction"
)

// runSelectCmd prints the documents to process and, under GitHub Actions,
// publishes them as the "files" step output.
func runSelectCmd(ctx context.Context, args []string, env *Environment) int {
	flags, rest, err := parseSelectFlags(args, env.Stderr)
	if err != nil {
		return exitCodeForFlags(err)
	}
	if len(rest) > 0 {
		fmt.Fprintf(env.Stderr, "error: %v: %v\n", errUnexpectedArgs, rest)
		return ExitUsage
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	mergeSelectFlags(&flags.sel, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	files, err := selectFiles(ctx, &flags.sel, cfg, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	encoded := ghaction.EncodeFiles(files)
	fmt.Fprintf(env.Stdout, "Files to process: %s\n", encoded)

	if err := publishFiles(flags.githubOutput, encoded, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitIO
	}
	return ExitSuccess
}

// publishFiles appends the encoded list as the "files" step output to
// flagPath, or to GITHUB_OUTPUT when the flag is empty. Nothing is written
// when neither is set.
func publishFiles(flagPath, encoded string, env *Environment) error {
	out := flagPath
	if out == "" {
		out = ghaction.Load(env.Getenv).OutputPath
	}
	if out == "" {
		return nil
	}
	return ghaction.AppendOutput(env.path(out), "files", encoded)
}

// selectFiles builds the request from flags and the workflow environment,
// flags first, and runs the selector.
func selectFiles(ctx context.Context, f *selectFlags, cfg *config.Config, env *Environment) ([]string, error) {
	req, err := selectRequest(f, ghaction.Load(env.Getenv))
	if err != nil {
		return nil, err
	}
	return newSelector(cfg, env).Select(ctx, req)
}

// selectRequest resolves trigger, scope and file list.
func selectRequest(f *selectFlags, in ghaction.Inputs) (docpdf.SelectRequest, error) {
	var req docpdf.SelectRequest

	if f.trigger != "" {
		trigger, err := docpdf.ParseTrigger(f.trigger)
		if err != nil {
			return req, err
		}
		req.Trigger = trigger
	} else {
		req.Trigger = docpdf.TriggerFromEvent(in.EventName)
	}

	if req.Trigger != docpdf.TriggerManual {
		return req, nil
	}

	scope := f.scope
	if scope == "" {
		scope = in.Scope
	}
	parsed, err := docpdf.ParseScope(scope)
	if err != nil {
		return req, err
	}
	req.Scope = parsed

	req.Files = f.files
	if req.Files == "" {
		req.Files = in.SpecificFiles
	}
	return req, nil
}

// newSelector configures a Selector from the selector config section.
func newSelector(cfg *config.Config, env *Environment) *docpdf.Selector {
	s := docpdf.NewSelector()
	s.Runner = env.runner()
	s.Dir = env.Dir
	s.DocRoot = cfg.Selector.DocRoot
	s.Extension = cfg.Selector.Extension
	s.BaseRev = cfg.Selector.BaseRev
	s.HeadRev = cfg.Selector.HeadRev
	s.Pathspec = cfg.Selector.Pathspec
	s.Warn = env.Stderr
	return s
}
