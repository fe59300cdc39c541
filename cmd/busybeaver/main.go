package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/busybeaver/internal/cli"
)

func main() {
	ctx, stop := cli.WithSignals(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if sig, ok := cli.Interrupted(ctx); ok {
			fmt.Fprintf(os.Stderr, "stopped by %s\n", sig)
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
