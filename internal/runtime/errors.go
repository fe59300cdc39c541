package runtime

import (
	"fmt"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// StepError reports a transition that could not be applied.
type StepError struct {
	State  domain.State
	Symbol domain.Symbol
	Cause  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step from state %q reading %q: %v", e.State, e.Symbol, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
