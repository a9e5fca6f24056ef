package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-docpdf/internal/config"
	"github.com/alnah/go-docpdf/internal/ghaction"
	"github.com/alnah/go-docpdf/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Engine   string     `json:"engine"`
	Tools    []toolInfo `json:"tools"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds the lookup result of one external binary.
type toolInfo struct {
	Name     string `json:"name"`
	Found    bool   `json:"found"`
	Required bool   `json:"required"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found    bool   `json:"found"`
	Required bool   `json:"required"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Sandbox  bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	GitHubActions bool   `json:"github_actions"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = a tool the engine needs is missing.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var (
		jsonOutput bool
		engine     string
		configName string
	)
	fs := newFlagSet("doctor", env.Stderr, printDoctorUsage)
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	fs.StringVarP(&engine, "engine", "e", "", "engine to check: pandoc, chrome")
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	if err := parseArgs(fs, args, env.Stderr, printDoctorUsage); err != nil {
		return exitCodeForFlags(err)
	}

	cfg, err := loadConfig(configName, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	if engine != "" {
		cfg.Convert.Engine = engine
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Engine: cfg.Convert.Engine,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	pandoc := cfg.Convert.Engine != config.EngineChrome
	checkTool(ctx, result, env, "git", false)
	checkTool(ctx, result, env, "pandoc", pandoc)
	checkTool(ctx, result, env, cfg.Convert.PDFEngine, pandoc)
	checkChrome(ctx, result, env, !pandoc)
	checkEnvironment(result, env)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTool looks an external binary up on PATH.
func checkTool(ctx context.Context, result *doctorResult, env *Environment, name string, required bool) {
	if name == "" {
		return
	}
	info := toolInfo{Name: name, Required: required}

	path, err := env.LookPath(name)
	if err != nil {
		msg := fmt.Sprintf("%s not found on PATH%s", name, hints.ForToolNotFound(name))
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
		result.Tools = append(result.Tools, info)
		return
	}

	info.Found = true
	info.Path = path
	info.Version = toolVersion(ctx, env, path)
	result.Tools = append(result.Tools, info)
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(ctx context.Context, result *doctorResult, env *Environment, required bool) {
	result.Chrome.Required = required
	report := func(msg string) {
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = env.LookChrome()
		if !found {
			report("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	} else if _, err := os.Stat(chromePath); err != nil {
		report(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Version = toolVersion(ctx, env, chromePath)

	// Sandbox status: disabled if ROD_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// toolVersion returns the first line of `<path> --version`, or "".
func toolVersion(ctx context.Context, env *Environment, path string) string {
	stdout, _, err := env.runner().Run(ctx, path, "--version")
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(line)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
	result.Env.GitHubActions = ghaction.Load(env.Getenv).Actions

	// Chrome sandboxing fails in most containers
	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("DOCPDF_CONTAINER") == "1" {
		return true, "DOCPDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable.
func checkSystem(result *doctorResult) {
	f, err := os.CreateTemp("", "docpdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docpdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Tools (engine: %s)\n", r.Engine)
	for _, t := range r.Tools {
		switch {
		case t.Found && t.Version != "":
			fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", t.Name, t.Path, t.Version)
		case t.Found:
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		case t.Required:
			fmt.Fprintf(w, "  [ERROR] %s: not found\n", t.Name)
		default:
			fmt.Fprintf(w, "  [WARN] %s: not found\n", t.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case r.Chrome.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	case r.Chrome.Required:
		fmt.Fprintln(w, "  [ERROR] Not found")
	default:
		fmt.Fprintln(w, "  [WARN] Not found (only needed for --engine chrome)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.GitHubActions {
		fmt.Fprintln(w, "  [OK] GitHub Actions: detected")
	} else if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

