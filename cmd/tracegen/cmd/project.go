package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/go-drift/tracegen/cmd/tracegen/internal/config"
	"github.com/go-drift/tracegen/pkg/capability"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
)

// loadProject resolves tracegen.yaml from -C or the project root.
func loadProject() (*config.Resolved, error) {
	dir := global.dir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
		dir = root
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newToolkit returns the headless toolkit for the configured backend.
func newToolkit(cfg *config.Resolved) *headless.Toolkit {
	var opts []headless.Option
	if cfg.BackendVersion != "" {
		opts = append(opts, headless.WithVersion(cfg.BackendVersion))
	}
	return headless.New(cfg.Backend, opts...)
}

// table returns the configured capability table, or base when none is set.
func table(cfg *config.Resolved, base *capability.Table) *capability.Table {
	if cfg.Table != nil {
		return cfg.Table
	}
	return base
}

// numbered reports whether output to w gets line numbers: only when w is a
// terminal and --plain was not given.
func numbered(w io.Writer) bool {
	if global.plain {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeText writes text to w, numbering lines when w is a terminal.
func writeText(w io.Writer, text string) error {
	if !numbered(w) {
		_, err := io.WriteString(w, text)
		return err
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		if _, err := fmt.Fprintf(w, "%4d  %s\n", i+1, line); err != nil {
			return err
		}
	}
	return nil
}

// parseOutput extracts "-o FILE" from args.
func parseOutput(args []string) (rest []string, out string, err error) {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-o" || args[i] == "--out":
			if i+1 >= len(args) {
				return nil, "", fmt.Errorf("%s requires a file path", args[i])
			}
			out = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--out="):
			out = strings.TrimPrefix(args[i], "--out=")
		case strings.HasPrefix(args[i], "-"):
			return nil, "", fmt.Errorf("unknown flag: %s", args[i])
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, out, nil
}

// emit writes text to the file out, or to stdout when out is empty.
func emit(out, text string) error {
	if out == "" {
		return writeText(os.Stdout, text)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}
