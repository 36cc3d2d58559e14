/*
Package resilience provides a circuit breaker for collaborators that can
fail for a long stretch, such as a native dialog on a machine without a
display.

# Usage

	breaker := resilience.New("save-dialog", resilience.Settings{
		Threshold: 3,
		Cooldown:  30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit state changed", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	err := breaker.Do(func() error {
		return show()
	})

# States

- Closed: calls pass through
- Open: calls fail immediately with ErrCircuitOpen
- Half-Open: one probe is allowed; its outcome decides the next state

	Closed --[Threshold failures]-> Open --[Cooldown]-> Half-Open --[success]-> Closed
	                                  ^                     |
	                                  +------[failure]------+
*/
package resilience
