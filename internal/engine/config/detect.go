package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StdinPath is the source argument that means "read from standard input".
const StdinPath = "-"

// sourceExtensions lists the file extensions treated as C sources when
// expanding directories.
var sourceExtensions = map[string]bool{
	".c": true,
	".h": true,
}

// IsCSource reports whether path names a C source or header file. Pure function, no I/O.
func IsCSource(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// FilterCSources returns the C sources in paths, preserving order.
func FilterCSources(paths []string) []string {
	var out []string
	for _, p := range paths {
		if IsCSource(p) {
			out = append(out, p)
		}
	}
	return out
}

// ExpandSources resolves command-line arguments into the list of files to analyze.
// Files are kept as given, whatever their extension. Directories are walked
// recursively for C sources, skipping hidden directories. StdinPath passes
// through untouched. Each path is returned at most once.
func ExpandSources(fsys FileSystem, args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if arg == StdinPath {
			add(arg)
			continue
		}

		path := filepath.Clean(arg)
		info, err := fsys.Stat(path)
		if err != nil {
			if fsys.IsNotExist(err) {
				return nil, fmt.Errorf("source %q does not exist", arg)
			}
			return nil, fmt.Errorf("inspecting %q: %w", arg, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		files, err := walkSources(fsys, path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	return out, nil
}

func walkSources(fsys FileSystem, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		full := filepath.Join(dir, name)
		if e.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			nested, err := walkSources(fsys, full)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		if IsCSource(name) {
			out = append(out, full)
		}
	}
	return out, nil
}

// GenerateConfigYAML produces a commented user configuration for the given provider.
// If provider is empty, OpenAI is used.
func GenerateConfigYAML(provider Provider) string {
	if provider == "" {
		provider = ProviderOpenAI
	}

	var b strings.Builder
	b.WriteString(yamlHeader)
	fmt.Fprintf(&b, "provider: %s\n", provider)
	fmt.Fprintf(&b, "model: %q  # default for this provider\n\n", DefaultModel(provider))
	b.WriteString(credentialsYAML)
	b.WriteString(tuningYAML)
	return b.String()
}

const yamlHeader = `# memsafe configuration (auto-generated)
# Location: ~/.config/memsafe/config.yaml
# Environment variables (and a .env file in the working directory) override these values.

# openai | gemini | huggingface
`

const credentialsYAML = `# Credentials. Prefer OPENAI_API_KEY, GEMINI_API_KEY and HUGGINGFACE_API_TOKEN.
# openai_api_key: "sk-..."
# openai_base_url: "https://api.openai.com/v1"
# gemini_api_key: ""
# huggingface_api_token: "hf_..."

`

const tuningYAML = `timeout: 120s
requests_per_minute: 30
max_source_size: 100KB
concurrency: 4
fail_under: 0

output:
  color: true
  verbose: false
  format: cli  # cli | json | markdown | sarif

server:
  addr: ":8080"
`
