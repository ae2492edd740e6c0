package main

import (
	"fmt"
	"os"

	"github.com/magv/rat2c/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rat2c: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
