// Package main is the entry point for the taskctl CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"

	"taskctl/internal/cli"
	"taskctl/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	interactive := readline.DefaultIsTerminal()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.DefaultFactory(),
		cli.WithInput(os.Stdin, interactive),
	)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
