package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
)

// Exit codes for the docpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General error, failed files, missing arguments
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitTool    = 4 // pandoc, git or Chrome unavailable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4)
	if errors.Is(err, docpdf.ErrToolNotFound) ||
		errors.Is(err, docpdf.ErrBrowserConnect) {
		return ExitTool
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, docpdf.ErrInvalidWatermark) ||
		errors.Is(err, docpdf.ErrUnknownPreset) ||
		errors.Is(err, docpdf.ErrInvalidTrigger) ||
		errors.Is(err, docpdf.ErrInvalidScope) ||
		errors.Is(err, errUnexpectedArgs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, docpdf.ErrInputNotFound) ||
		errors.Is(err, docpdf.ErrOutputWrite) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}

// errUnexpectedArgs reports positional arguments a command does not take.
var errUnexpectedArgs = errors.New("unexpected arguments")

// exitCodeForFlags maps a flag parsing error; --help is not an error.
func exitCodeForFlags(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	return ExitUsage
}
