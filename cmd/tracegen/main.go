// Command tracegen realizes sample windows against the headless toolkit,
// prints the code they trace and replays generated code.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/tracegen/cmd/tracegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
