package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// InterruptedError is the cancellation cause recorded when a signal stops the CLI.
type InterruptedError struct {
	Signal os.Signal
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.Signal)
}

// WithSignals returns a context that is cancelled on SIGINT or SIGTERM, with
// an *InterruptedError as its cause.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(&InterruptedError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// Interrupted reports whether ctx was stopped by a signal.
func Interrupted(ctx context.Context) (os.Signal, bool) {
	var ie *InterruptedError
	if errors.As(context.Cause(ctx), &ie) {
		return ie.Signal, true
	}
	return nil, false
}
