package main

import (
	"fmt"
	"io"
	"strings"

	docpdf "github.com/alnah/go-docpdf"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  select     List documents changed by the last commit (or chosen manually)")
	fmt.Fprintln(w, "  convert    Convert a JSON list of documents to PDF")
	fmt.Fprintln(w, "  watermark  Stamp a text watermark onto a PDF")
	fmt.Fprintln(w, "  run        Select, convert and watermark in one step")
	fmt.Fprintln(w, "  doctor     Check external tools and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docpdf help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

func printSelectFlags(w io.Writer) {
	fmt.Fprintln(w, "Selection:")
	fmt.Fprintln(w, "      --trigger <s>         automatic or manual (default: from GITHUB_EVENT_NAME)")
	fmt.Fprintln(w, "      --scope <s>           Manual scope: all, specific, changed")
	fmt.Fprintln(w, "      --files <list>        Comma-separated files for --scope specific")
	fmt.Fprintln(w, "      --doc-root <dir>      Document root (default: doc)")
	fmt.Fprintln(w, "      --base <rev>          Diff base (default: HEAD~1)")
	fmt.Fprintln(w, "      --head <rev>          Diff head (default: HEAD)")
	fmt.Fprintln(w)
}

func printOutputFlags(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --github-output <f>   Step output file (default: $GITHUB_OUTPUT)")
	fmt.Fprintln(w)
}

func printConvertFlags(w io.Writer) {
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "  -e, --engine <s>          pandoc or chrome (default: pandoc)")
	fmt.Fprintln(w, "      --pdf-engine <s>      pandoc PDF engine (default: xelatex)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (default: 1)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-file timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --fail-on-error       Exit 1 when a file fails")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents")
	fmt.Fprintln(w)
}

func printWatermarkFlags(w io.Writer) {
	fmt.Fprintln(w, "Watermark:")
	fmt.Fprintf(w, "      --preset <s>          %s (default: %s)\n", strings.Join(docpdf.PresetNames(), ", "), docpdf.DefaultPreset)
	fmt.Fprintln(w, "      --mode <s>            tiled or centered")
	fmt.Fprintln(w, "      --opacity <f>         Opacity (0.0-1.0)")
	fmt.Fprintln(w, "      --angle <f>           Rotation in degrees")
	fmt.Fprintln(w, "      --color <s>           Hex color")
	fmt.Fprintln(w, "      --font <s>            Standard PDF font")
	fmt.Fprintln(w, "      --font-size <n>       Fixed font size in points")
	fmt.Fprintln(w, "      --grid-radius <n>     Tiled grid radius")
	fmt.Fprintln(w)
}

// printSelectUsage prints usage for the select command.
func printSelectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpdf select [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the documents to process as 'Files to process: <json>'.")
	fmt.Fprintln(w, "Under GitHub Actions the list is also written to the 'files' output.")
	fmt.Fprintln(w)
	printSelectFlags(w)
	printOutputFlags(w)
	printCommonUsage(w)
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpdf convert [flags] [json-list]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert documents to PDFs next to their sources.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  json-list    JSON array of paths (default: $FILES_TO_PROCESS)")
	fmt.Fprintln(w)
	printConvertFlags(w)
	printCommonUsage(w)
}

// printWatermarkUsage prints usage for the watermark command.
func printWatermarkUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpdf watermark [flags] <input> <output> <text>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stamp <text> onto every page of <input>. <output> may equal <input>.")
	fmt.Fprintln(w)
	printWatermarkFlags(w)
	printCommonUsage(w)
}

// printRunUsage prints usage for the run command.
func printRunUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpdf run [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Select, convert and watermark documents in one step.")
	fmt.Fprintln(w)
	printSelectFlags(w)
	printConvertFlags(w)
	printWatermarkFlags(w)
	fmt.Fprintln(w, "      --wm-text <s>         Watermark text (enables the watermark)")
	fmt.Fprintln(w, "      --suffix <s>          Write <base><suffix>.pdf (default: in place)")
	fmt.Fprintln(w, "      --no-watermark        Skip the watermark step")
	fmt.Fprintln(w)
	printOutputFlags(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpdf doctor [--json] [--engine <s>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check git, pandoc, the PDF engine and Chrome.")
	fmt.Fprintln(w, "Exits 1 when a tool the engine needs is missing.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "select":
		printSelectUsage(env.Stdout)
	case "convert":
		printConvertUsage(env.Stdout)
	case "watermark":
		printWatermarkUsage(env.Stdout)
	case "run":
		printRunUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
