// Package ghaction reads GitHub Actions inputs from the environment and
// writes step outputs to the GITHUB_OUTPUT file.
package ghaction

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for action I/O.
var (
	ErrInvalidFileList = errors.New("invalid file list")
	ErrInvalidKey      = errors.New("invalid output key")
)

// Environment variable names read by Load.
const (
	EnvEventName      = "GITHUB_EVENT_NAME"
	EnvOutput         = "GITHUB_OUTPUT"
	EnvActions        = "GITHUB_ACTIONS"
	EnvScope          = "INPUT_GENERATION_SCOPE"
	EnvSpecificFiles  = "INPUT_SPECIFIC_FILES"
	EnvFilesToProcess = "FILES_TO_PROCESS"
)

// Inputs holds the workflow values a run depends on.
type Inputs struct {
	EventName      string // "workflow_dispatch" for manual runs
	Scope          string // all, specific or changed
	SpecificFiles  string // comma-separated
	FilesToProcess string // JSON array handed over by the selection step
	OutputPath     string // step output file; empty outside Actions
	Actions        bool
}

// Load reads Inputs through getenv (os.Getenv in production).
func Load(getenv func(string) string) Inputs {
	return Inputs{
		EventName:      getenv(EnvEventName),
		Scope:          getenv(EnvScope),
		SpecificFiles:  getenv(EnvSpecificFiles),
		FilesToProcess: getenv(EnvFilesToProcess),
		OutputPath:     getenv(EnvOutput),
		Actions:        getenv(EnvActions) == "true",
	}
}

// EncodeFiles returns paths as a compact JSON array. Nil encodes as [].
func EncodeFiles(paths []string) string {
	if paths == nil {
		paths = []string{}
	}
	data, err := json.Marshal(paths)
	if err != nil {
		// []string always marshals
		panic(err)
	}
	return string(data)
}

// DecodeFiles parses a JSON array of paths. Blank entries are dropped.
func DecodeFiles(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileList, err)
	}
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// AppendOutput appends key=value to the step output file at path.
// Multi-line values use the heredoc form with a random delimiter.
func AppendOutput(path, key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n\r") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	var entry string
	if strings.ContainsAny(value, "\n\r") {
		delim, err := delimiter()
		if err != nil {
			return err
		}
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delim, value, delim)
	} else {
		entry = key + "=" + value + "\n"
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G302 G304 -- path set by the runner
	if err != nil {
		return fmt.Errorf("opening step output: %w", err)
	}
	if _, err := f.WriteString(entry); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing step output: %w", err)
	}
	return f.Close()
}

func delimiter() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating delimiter: %w", err)
	}
	return "ghadelimiter_" + hex.EncodeToString(b), nil
}
