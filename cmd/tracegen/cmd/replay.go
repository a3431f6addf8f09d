package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-drift/tracegen/pkg/replay"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Rebuild a window from generated code",
		Long: `Run a program written by "tracegen demo" against the headless toolkit
and print the resulting widget tree.

The backend named in the program header is used unless --backend is given.
Externs listed in the header are bound before the code runs: "self" to an
empty namespace, every other name to a command that reports its calls on
stderr.`,
		Usage: "tracegen replay FILE [--backend NAME]",
		Run:   runReplay,
	})
}

// header is what a rendered program declares in its leading comments.
type header struct {
	backend string
	externs []string
}

// parseHeader reads the leading comment lines of a rendered program.
func parseHeader(src string) header {
	var h header
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "//") {
			break
		}
		text := strings.TrimSpace(strings.TrimPrefix(line, "//"))
		if rest, ok := strings.CutPrefix(text, "externs:"); ok {
			for _, name := range strings.Split(rest, ",") {
				if name = strings.TrimSpace(name); name != "" {
					h.externs = append(h.externs, name)
				}
			}
			continue
		}
		if _, rest, ok := strings.Cut(text, "for the "); ok {
			if backend, ok := strings.CutSuffix(rest, " backend."); ok {
				h.backend = backend
			}
		}
	}
	return h
}

// bindings returns replay bindings for the externs a program declares.
func bindings(externs []string) replay.Env {
	env := replay.Env{}
	for _, name := range externs {
		switch name {
		case trace.RootName, trace.ToolkitName:
		case "self":
			env[name] = trace.NewNamespace()
		default:
			env[name] = toolkit.NewCommand(name, func(args ...any) {
				fmt.Fprintf(os.Stderr, "%s%v\n", name, args)
			})
		}
	}
	return env
}

func runReplay(args []string) error {
	var file, backend string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--backend":
			if i+1 >= len(args) {
				return fmt.Errorf("--backend requires a name")
			}
			backend = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--backend="):
			backend = strings.TrimPrefix(args[i], "--backend=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		case file == "":
			file = args[i]
		default:
			return fmt.Errorf("replay takes one file\n\nUsage: tracegen replay FILE [--backend NAME]")
		}
	}
	if file == "" {
		return fmt.Errorf("missing file\n\nUsage: tracegen replay FILE [--backend NAME]")
	}

	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	h := parseHeader(string(src))
	if backend == "" {
		backend = h.backend
	}
	if backend == "" {
		backend = headless.Themed
	}
	if backend != headless.Plain && backend != headless.Themed {
		return fmt.Errorf("unknown backend %q (want %s or %s)", backend, headless.Plain, headless.Themed)
	}

	tk := headless.New(backend)
	if _, err := replay.Run(tk, string(src), bindings(h.externs)); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return writeText(os.Stdout, tk.DumpRoot())
}
