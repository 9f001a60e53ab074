package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/ujjwal0563/splitwise-cli/internal/cli"
)

func main() {
	// glog writes to stderr; this is a short-lived CLI, not a daemon with
	// log files. Parse an empty flag set so glog stops complaining.
	_ = flag.Set("logtostderr", "true")
	_ = flag.CommandLine.Parse(nil)
	defer glog.Flush()

	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
