package dialog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// Guarded stops showing a dialog that keeps failing, typically because the
// session has no display. Cancellation by the user or the caller never
// counts as a failure.
type Guarded struct {
	inner   SaveDialog
	breaker *resilience.Breaker
}

// NewGuarded wraps inner in a circuit breaker that opens after three
// consecutive failures and retries after cooldown
func NewGuarded(inner SaveDialog, cooldown time.Duration, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guarded{
		inner: inner,
		breaker: resilience.New("save-dialog", resilience.Settings{
			Threshold: 3,
			Cooldown:  cooldown,
			IsFailure: func(err error) bool {
				return err != nil &&
					!errors.Is(err, context.Canceled) &&
					!errors.Is(err, context.DeadlineExceeded)
			},
			OnStateChange: func(name string, from, to resilience.State) {
				logger.Warn("save dialog circuit changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// SaveFile shows the wrapped dialog unless the circuit is open
func (g *Guarded) SaveFile(ctx context.Context, opts SaveOptions) (string, bool, error) {
	var (
		path string
		ok   bool
	)
	err := g.breaker.Do(func() error {
		var err error
		path, ok, err = g.inner.SaveFile(ctx, opts)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return "", false, apperr.Wrap(apperr.Unavailable, "Save dialog is not available", err)
	}
	return path, ok, err
}

// State reports the breaker state
func (g *Guarded) State() resilience.State {
	return g.breaker.State()
}
