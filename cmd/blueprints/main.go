// Package main is the entry point for the blueprints CLI.
//
// blueprints deploys a cluster blueprint: it resolves the network, attaches
// to the cluster, deploys add-ons concurrently, sets up teams and runs
// post-deploy hooks, all described by a single YAML file.
//
// Commands: deploy, validate, version, completion.
//
// For detailed usage information, run:
//
//	blueprints --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/blueprints/cmd/blueprints/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
