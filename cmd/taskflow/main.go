// Package main provides the entry point for the taskflow CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/taskflow/internal/cli"
	"github.com/mrz1836/taskflow/internal/signal"
)

// Set via ldflags at build time.
var (
	version = "dev"     //nolint:gochecknoglobals // ldflags
	commit  = "none"    //nolint:gochecknoglobals // ldflags
	date    = "unknown" //nolint:gochecknoglobals // ldflags
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	h.Stop()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.ExitCodeForError(err))
	}
}
