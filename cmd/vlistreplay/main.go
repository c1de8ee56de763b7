package main

import (
	"fmt"
	"os"

	"github.com/xqrs/vlist/internal/cli"
)

func main() {
	if err := cli.NewReplayCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vlistreplay:", err)
		os.Exit(cli.ExitCode(err))
	}
}
