// Command froyoctl is a CLI harness exercising the provider SDK's
// dispatcher, stdio client, state store, and provider-source grammar
// from the command line, for hand-testing a provider binary without
// writing a Go program against the engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/froyo-sdk/provider-sdk/cmd/froyoctl/commands"
)

// Version information (set via ldflags during build).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		os.Exit(1)
	}
}
