package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-drift/tracegen/pkg/dispatch"
	"github.com/go-drift/tracegen/pkg/inspect"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Inspect a live demo window over HTTP",
		Long: `Realize a sample window and keep its event loop running while an HTTP
server exposes it:

  GET  /tree      widget tree as JSON
  GET  /externs   names the recorded code expects to be bound
  POST /code      render the code recorded so far and start a new session
  GET  /runtime   memory and GC stats
  GET  /health    liveness

Requests reach the window through the dispatch queue. Stop with Ctrl-C.`,
		Usage: "tracegen serve [name] [--port N]",
		Run:   runServe,
	})
}

func runServe(args []string) error {
	port := 0
	var rest []string
	for i := 0; i < len(args); i++ {
		var value string
		switch {
		case args[i] == "--port":
			if i+1 >= len(args) {
				return fmt.Errorf("--port requires a number")
			}
			value = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--port="):
			value = strings.TrimPrefix(args[i], "--port=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			rest = append(rest, args[i])
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		port = n
	}
	if len(rest) > 1 {
		return fmt.Errorf("serve takes at most one name\n\nUsage: tracegen serve [name] [--port N]")
	}

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	b, err := buildDemo(cfg, rest)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	looper := dispatch.New(b.tk)
	if _, err := looper.Start(ctx, cfg.Poll); err != nil {
		return err
	}
	defer looper.Stop()

	srv := inspect.New(looper, b.tk, b.session, cfg.ProgramName)
	actual, err := srv.Start(port)
	if err != nil {
		return err
	}
	defer srv.Stop()
	fmt.Fprintf(os.Stderr, "Inspecting %s at http://localhost:%d (Ctrl-C to stop)\n", b.demo.Name, actual)

	resolution := cfg.Poll / 2
	if resolution <= 0 {
		resolution = dispatch.DefaultInterval / 2
	}
	if err := b.tk.Run(ctx, resolution); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
