// Command schwifty browses a character API with a local SQLite cache.
//
// Run without arguments for the interactive browser, or use a subcommand
// (list, search, show, fav, cache) for scripted output.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	Execute(ctx)
}
