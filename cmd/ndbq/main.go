// Command ndbq compiles and runs typed filter expressions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ndbq/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
