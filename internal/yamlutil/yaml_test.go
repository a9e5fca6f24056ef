package yamlutil_test

// Notes:
// - Only the size limit of MaxInputSize is tested through a temporarily
//   lowered value; the test restores it and cannot run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-docpdf/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		want    testConfig
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
			want: testConfig{Name: "test", Count: 42, Enabled: true},
		},
		{
			name: "unknown fields are ignored",
			data: []byte("name: test\nauthor: someone"),
			dest: &testConfig{},
			want: testConfig{Name: "test"},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := *tt.dest.(*testConfig); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown field rejection
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	if err := yamlutil.UnmarshalStrict([]byte("name: ok"), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := yamlutil.UnmarshalStrict([]byte("name: ok\nnmae: typo"), &cfg)
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error %q should be prefixed with yamlutil:", err)
	}
}

func TestUnmarshal_InputTooLarge(t *testing.T) {
	orig := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 8
	defer func() { yamlutil.MaxInputSize = orig }()

	var cfg testConfig
	err := yamlutil.Unmarshal([]byte("name: far too long"), &cfg)
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestSplitFrontMatter - Markdown front matter detection
// ---------------------------------------------------------------------------

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantOK   bool
		wantMeta string
		wantBody string
	}{
		{
			name:     "front matter with dashes closer",
			src:      "---\ntitle: Guide\n---\n# Body\n",
			wantOK:   true,
			wantMeta: "title: Guide\n",
			wantBody: "# Body\n",
		},
		{
			name:     "front matter with dots closer and CRLF",
			src:      "---\r\ntitle: Guide\r\n...\r\ntext",
			wantOK:   true,
			wantMeta: "title: Guide\r\n",
			wantBody: "text",
		},
		{
			name:     "empty front matter",
			src:      "---\n---\nbody",
			wantOK:   true,
			wantMeta: "",
			wantBody: "body",
		},
		{
			name:     "no front matter",
			src:      "# Title\n\ntext",
			wantOK:   false,
			wantBody: "# Title\n\ntext",
		},
		{
			name:     "unterminated front matter",
			src:      "---\ntitle: x\n# Title",
			wantOK:   false,
			wantBody: "---\ntitle: x\n# Title",
		},
		{
			name:     "horizontal rule later in document",
			src:      "intro\n---\nmore",
			wantOK:   false,
			wantBody: "intro\n---\nmore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meta, body, ok := yamlutil.SplitFrontMatter([]byte(tt.src))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if string(meta) != tt.wantMeta {
				t.Errorf("meta = %q, want %q", meta, tt.wantMeta)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
