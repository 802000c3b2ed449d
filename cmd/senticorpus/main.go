// Command senticorpus scores Korean news articles against a sentiment
// lexicon and writes per-period TF-IDF tables, word frequencies and
// statistical comparisons.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "senticorpus:", err)
		stop()
		os.Exit(1)
	}
}
