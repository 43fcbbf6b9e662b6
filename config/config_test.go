package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    *Config
	}{
		{
			name: "yaml",
			file: "avo.yaml",
			content: `runtime: example.com/fork/avo
suffix: _avo.go
exclude: [build]
verbose: true
`,
			want: &Config{Runtime: "example.com/fork/avo", Suffix: "_avo.go", Exclude: []string{"build"}, Verbose: true},
		},
		{
			name: "toml",
			file: "avo.toml",
			content: `runtime = "example.com/fork/avo"
exclude = ["build", "dist"]
`,
			want: &Config{Runtime: "example.com/fork/avo", Suffix: ".go", Exclude: []string{"build", "dist"}},
		},
		{
			name:    "empty yaml keeps defaults",
			file:    "avo.yml",
			content: "",
			want:    Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if got.Path != path {
				t.Errorf("Path = %q, want %q", got.Path, path)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Config{}, "Path")); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad yaml", "avo.yaml", "suffix: [unclosed", "YAML parse error"},
		{"bad toml", "avo.toml", "suffix = ", "TOML parse error"},
		{"unknown format", "avo.json", "{}", "unsupported config format"},
		{"bad suffix", "avo.yaml", "suffix: .txt", "must end in .go"},
		{"bad runtime", "avo.toml", `runtime = "not a path"`, "not an import path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	writeFile(t, filepath.Join(root, "avo.toml"), "suffix = \"_gen.go\"\n")

	sub := filepath.Join(root, "internal", "views")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Find(sub)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if cfg.Suffix != "_gen.go" {
		t.Errorf("Suffix = %q, want %q", cfg.Suffix, "_gen.go")
	}
	if cfg.Path != filepath.Join(root, "avo.toml") {
		t.Errorf("Path = %q", cfg.Path)
	}
}

func TestFindStopsAtModuleRoot(t *testing.T) {
	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, "avo.yaml"), "suffix: _outer.go\n")

	module := filepath.Join(outer, "app")
	writeFile(t, filepath.Join(module, "go.mod"), "module example.com/app\n")

	cfg, err := Find(module)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
}

func TestExcluded(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name string
		want bool
	}{
		{"vendor", true},
		{".git", true},
		{"node_modules", true},
		{".", false},
		{"views", false},
	}
	for _, tt := range tests {
		if got := cfg.Excluded(tt.name); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	if got := cfg.OutputPath(filepath.Join("views", "page.avo")); got != filepath.Join("views", "page.go") {
		t.Errorf("OutputPath() = %q", got)
	}

	cfg.Suffix = "_avo.go"
	if got := cfg.OutputPath("page.avo"); got != "page_avo.go" {
		t.Errorf("OutputPath() = %q", got)
	}
}

func TestFormatString(t *testing.T) {
	if FormatYAML.String() != "yaml" || FormatTOML.String() != "toml" || FormatUnknown.String() != "unknown" {
		t.Error("unexpected Format.String() values")
	}
}
