package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-drift/tracegen/cmd/tracegen/internal/config"
	"github.com/go-drift/tracegen/cmd/tracegen/internal/demo"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
)

func init() {
	var list strings.Builder
	for _, d := range demo.All() {
		fmt.Fprintf(&list, "  %-10s %s\n", d.Name, d.Short)
	}
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Print the code traced by a sample window",
		Long: `Realize a sample window against the headless toolkit and print the
code recorded while building it, as a standalone program.

The backend, program name, capability table and name table come from
tracegen.yaml when present. The recorder demo also feeds pitch values to
its label from a worker goroutine through the dispatch queue.

Demos:
` + list.String(),
		Usage: "tracegen demo [name] [-o FILE]",
		Run:   runDemo,
	})
}

var pitches = []string{"C4", "D4", "E4", "G4", "A4"}

func runDemo(args []string) error {
	args, out, err := parseOutput(args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("demo takes at most one name\n\nUsage: tracegen demo [name] [-o FILE]")
	}
	cfg, err := loadProject()
	if err != nil {
		return err
	}
	b, err := buildDemo(cfg, args)
	if err != nil {
		return err
	}

	if pitch, ok := b.env.Handles[demo.PitchName]; ok {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := demo.Feed(ctx, b.tk, b.session, pitch, pitches, cfg.Poll); err != nil {
			return fmt.Errorf("feeding %s: %w", b.demo.Name, err)
		}
	}

	text, err := trace.Render(b.session.Program(cfg.ProgramName))
	if err != nil {
		return err
	}
	return emit(out, text)
}

// built is a demo realized on a fresh headless toolkit.
type built struct {
	demo    demo.Demo
	tk      *headless.Toolkit
	session *trace.Session
	env     demo.Env
}

// buildDemo realizes the demo named by args (gallery when empty) with the
// project's backend, capability table, names and externs.
func buildDemo(cfg *config.Resolved, args []string) (*built, error) {
	name := "gallery"
	if len(args) == 1 {
		name = args[0]
	}
	d, err := demo.Lookup(name)
	if err != nil {
		return nil, err
	}

	tk := newToolkit(cfg)
	opts := []trace.Option{trace.WithTable(table(cfg, demo.Table()))}
	if cfg.Names != nil {
		opts = append(opts, trace.WithNames(cfg.Names))
	}
	s := trace.NewSession(tk, opts...)
	s.Shim().Verbose = global.verbose
	self, err := s.Extern("self", trace.NewNamespace())
	if err != nil {
		return nil, err
	}
	for _, e := range cfg.Externs {
		if e == "self" {
			continue
		}
		if _, err := s.Extern(e, trace.NewNamespace()); err != nil {
			return nil, err
		}
	}

	commands := make(map[string]*toolkit.Command)
	env := demo.NewEnv(s, self, func(name string) *toolkit.Command {
		if c, ok := commands[name]; ok {
			return c
		}
		c := toolkit.NewCommand(name, func(...any) {
			fmt.Fprintf(os.Stderr, "%s\n", name)
		})
		commands[name] = c
		return c
	})
	if err := d.Build(env); err != nil {
		return nil, fmt.Errorf("building %s: %w", d.Name, err)
	}
	return &built{demo: d, tk: tk, session: s, env: env}, nil
}
