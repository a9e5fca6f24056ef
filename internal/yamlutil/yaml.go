// Package yamlutil wraps YAML parsing to isolate the external dependency.
// It serves both the CLI configuration file and Markdown front matter.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown fields. Front matter
// routinely carries keys meant for other tools, so leniency is the default.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

var (
	fmDelimiter = []byte("---")
	fmClosers   = [][]byte{[]byte("---"), []byte("...")}
)

// SplitFrontMatter separates a leading YAML block delimited by "---" lines
// from the rest of a Markdown document. ok is false when src has no
// (terminated) front matter, in which case body is src.
func SplitFrontMatter(src []byte) (meta, body []byte, ok bool) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || !bytes.Equal(bytes.TrimRight(first, " \t\r"), fmDelimiter) {
		return nil, src, false
	}

	offset := 0
	for offset <= len(rest) {
		line, tail, more := bytes.Cut(rest[offset:], []byte("\n"))
		trimmed := bytes.TrimRight(line, " \t\r")
		for _, closer := range fmClosers {
			if bytes.Equal(trimmed, closer) {
				return rest[:offset], tail, true
			}
		}
		if !more {
			break
		}
		offset += len(line) + 1
	}
	return nil, src, false
}
