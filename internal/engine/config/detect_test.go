package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestIsCSource(t *testing.T) {
	tests := map[string]bool{
		"main.c":          true,
		"include/util.h":  true,
		"LEGACY.C":        true,
		"main.cpp":        false,
		"Makefile":        false,
		"notes.c.txt":     false,
		"":                false,
		"dir.with.dots/x": false,
	}
	for path, want := range tests {
		if got := IsCSource(path); got != want {
			t.Errorf("IsCSource(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFilterCSources_PreservesOrder(t *testing.T) {
	got := FilterCSources([]string{"b.c", "README.md", "a.h", "go.mod"})
	want := []string{"b.c", "a.h"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpandSources_DirectoriesAndFiles(t *testing.T) {
	mockFS := NewMockFileSystem()
	for _, p := range []string{
		"src/main.c",
		"src/util.h",
		"src/README.md",
		"src/net/socket.c",
		"src/.git/hooks.c",
		"script.py",
	} {
		mockFS.Files[filepath.FromSlash(p)] = []byte("x")
	}

	got, err := ExpandSources(mockFS, []string{"script.py", "src", "-", "src/main.c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"script.py",
		filepath.FromSlash("src/main.c"),
		filepath.FromSlash("src/net/socket.c"),
		filepath.FromSlash("src/util.h"),
		"-",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpandSources_MissingPath(t *testing.T) {
	mockFS := NewMockFileSystem()
	_, err := ExpandSources(mockFS, []string{"nope.c"})
	if err == nil {
		t.Fatal("expected error for missing source, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpandSources_StatError(t *testing.T) {
	mockFS := NewMockFileSystem()
	mockFS.StatErrors["x.c"] = errors.New("io failure")
	_, err := ExpandSources(mockFS, []string{"x.c"})
	if err == nil || !strings.Contains(err.Error(), "io failure") {
		t.Errorf("expected wrapped stat error, got %v", err)
	}
}

func TestGenerateConfigYAML_ValidYAML(t *testing.T) {
	for _, p := range append([]Provider{""}, Providers...) {
		t.Run(string(p), func(t *testing.T) {
			out := GenerateConfigYAML(p)

			cfg := Default()
			if err := yaml.Unmarshal([]byte(out), cfg); err != nil {
				t.Fatalf("generated YAML does not parse: %v\n%s", err, out)
			}

			want := p
			if want == "" {
				want = ProviderOpenAI
			}
			if cfg.Provider != want {
				t.Errorf("expected provider %q, got %q", want, cfg.Provider)
			}
			if cfg.Model != DefaultModel(want) {
				t.Errorf("expected model %q, got %q", DefaultModel(want), cfg.Model)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("generated config should validate: %v", err)
			}
		})
	}
}

func TestGenerateConfigYAML_NoSecrets(t *testing.T) {
	out := GenerateConfigYAML(ProviderOpenAI)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "api_key:") && !strings.HasPrefix(strings.TrimSpace(line), "#") {
			t.Errorf("expected credential lines to be commented out, got %q", line)
		}
	}
}
