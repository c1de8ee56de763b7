package main

import (
	"fmt"
	"os"

	"github.com/xqrs/vlist/internal/cli"
)

func main() {
	if err := cli.NewDemoCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vlistdemo:", err)
		os.Exit(cli.ExitCode(err))
	}
}
