// Package cmd implements the tracegen CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (demo, replay, caps, serve).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-drift/tracegen/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "tracegen",
	Short: "tracegen - trace widget construction into flat code",
	Long: `tracegen realizes declarative widget trees against a toolkit and
records every construction and mutation as flat, standalone code that
rebuilds the same window when replayed.

Use "tracegen <command> --help" for more information about a command.`,
	Usage: "tracegen <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// global holds the flags accepted before the command name.
var global struct {
	dir     string
	plain   bool
	verbose bool
}

// Execute runs the CLI with the given arguments.
func Execute() error {
	args := os.Args[1:]

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("tracegen version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--plain":
			global.plain = true
		case "--verbose":
			global.verbose = true
		case "-C":
			if i+1 < len(args) {
				global.dir = args[i+1]
				i++
			} else {
				return fmt.Errorf("-C requires a directory path")
			}
		default:
			if strings.HasPrefix(arg, "-C=") {
				global.dir = strings.TrimPrefix(arg, "-C=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs
	if global.verbose {
		errors.SetHandler(&errors.LogHandler{Verbose: true})
	}

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  -C DIR               Resolve tracegen.yaml from DIR instead of the project root")
	fmt.Println("  --plain              Never number output lines, even on a terminal")
	fmt.Println("  --verbose            Log capability rewrites and stack traces")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tracegen demo gallery          Print the code traced by the gallery window")
	fmt.Println("  tracegen demo hello -o ui.tg   Write it to a file")
	fmt.Println("  tracegen replay ui.tg          Rebuild a window from generated code")
	fmt.Println("  tracegen caps themed           Show the capability table of a backend")
	fmt.Println("  tracegen serve --port 9000     Inspect the gallery window over HTTP")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
