// Package config resolves the optional tracegen.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/tracegen/pkg/capability"
	"github.com/go-drift/tracegen/pkg/dispatch"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
)

// FileName is the name of the project file.
const FileName = "tracegen.yaml"

// Config represents the optional tracegen.yaml configuration.
type Config struct {
	Program      ProgramConfig     `yaml:"program"`
	Backend      BackendConfig     `yaml:"backend"`
	Capabilities string            `yaml:"capabilities,omitempty"`
	Names        map[string]string `yaml:"names,omitempty"`
	Externs      []string          `yaml:"externs,omitempty"`
	Poll         string            `yaml:"poll,omitempty"`
}

// ProgramConfig names the generated program.
type ProgramConfig struct {
	Name string `yaml:"name,omitempty"`
}

// BackendConfig selects the toolkit backend.
type BackendConfig struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	ModulePath     string
	ProgramName    string
	Backend        string
	BackendVersion string
	// Table is the capability table file, or nil for the built-in one.
	Table   *capability.Table
	Names   map[string]string
	Externs []string
	Poll    time.Duration
}

// LoadOptional reads tracegen.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads tracegen.yaml (if present) and resolves defaults. A
// directory outside any Go module is fine; the program name then comes from
// the directory name.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cfg.Program.Name)
	if name == "" {
		name = defaultProgramName(modulePath, dir)
	}

	backend := strings.TrimSpace(cfg.Backend.Name)
	if backend == "" {
		backend = headless.Themed
	}
	if backend != headless.Plain && backend != headless.Themed {
		return nil, fmt.Errorf("backend.name must be %q or %q (got %q)", headless.Plain, headless.Themed, backend)
	}

	version := strings.TrimSpace(cfg.Backend.Version)
	if version != "" && !semver.IsValid(version) {
		return nil, fmt.Errorf("backend.version must be a semantic version like v8.6.12 (got %q)", version)
	}

	var table *capability.Table
	if cfg.Capabilities != "" {
		path := cfg.Capabilities
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if table, err = capability.LoadFile(path); err != nil {
			return nil, err
		}
	}

	poll := dispatch.DefaultInterval
	if cfg.Poll != "" {
		if poll, err = time.ParseDuration(cfg.Poll); err != nil {
			return nil, fmt.Errorf("invalid poll interval: %w", err)
		}
		if poll <= 0 {
			return nil, fmt.Errorf("poll interval must be positive (got %s)", cfg.Poll)
		}
	}

	for _, e := range cfg.Externs {
		if !isIdentifier(e) {
			return nil, fmt.Errorf("extern %q is not an identifier", e)
		}
	}
	for hint, name := range cfg.Names {
		if !isIdentifier(name) {
			return nil, fmt.Errorf("name %q for %q is not an identifier", name, hint)
		}
	}

	return &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		ProgramName:    name,
		Backend:        backend,
		BackendVersion: version,
		Table:          table,
		Names:          cfg.Names,
		Externs:        cfg.Externs,
		Poll:           poll,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod or
// tracegen.yaml. Without either, the current directory is the root.
func FindProjectRoot() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := start
	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", err
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultProgramName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "ui"
	}
	return base
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
