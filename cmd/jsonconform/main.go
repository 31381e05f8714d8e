// Command jsonconform runs a JSON validator against a directory of
// conformance fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/jsonconform/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
