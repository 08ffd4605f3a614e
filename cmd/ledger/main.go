// Command ledger is the terminal front end of the Fortuna ledger. It signs
// in against the ledger API, lists and edits transactions, and renders the
// monthly income and expense summary.
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

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
