package main

import (
	"fmt"
	"os"

	"github.com/roach88/navsplit/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "navsplit:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
