package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-drift/tracegen/cmd/tracegen/internal/demo"
	"github.com/go-drift/tracegen/pkg/capability"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
)

func init() {
	RegisterCommand(&Command{
		Name:  "caps",
		Short: "Show the capability table",
		Long: `Print the capability table used when tracing, as YAML. This is the
table from tracegen.yaml when it names one, otherwise the built-in table.

With a backend name only that backend's entry is printed. --classes lists
the widget classes the headless toolkit provides.`,
		Usage: "tracegen caps [backend] [--classes]",
		Run:   runCaps,
	})
}

func runCaps(args []string) error {
	var name string
	classes := false
	for _, arg := range args {
		switch {
		case arg == "--classes":
			classes = true
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		case name == "":
			name = arg
		default:
			return fmt.Errorf("caps takes at most one backend\n\nUsage: tracegen caps [backend] [--classes]")
		}
	}

	if classes {
		return writeText(os.Stdout, strings.Join(headless.Classes(), "\n")+"\n")
	}

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	t := table(cfg, demo.Table())
	if name != "" {
		b, ok := t.Lookup(name)
		if !ok {
			return fmt.Errorf("no backend %q in table (have %s)", name, strings.Join(t.BackendNames(), ", "))
		}
		single := capability.NewTable()
		single.Backends[name] = b
		t = single
	}
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	return writeText(os.Stdout, string(data))
}
