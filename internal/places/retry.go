package places

import (
	"context"
	"math/rand"
	"time"
)

// expBackoff doubles the delay for each retry attempt.
func expBackoff(initial time.Duration, attempt int) time.Duration {
	return initial << attempt
}

// withJitter spreads a delay over 80-120% of its value so a batch of
// rate-limited workers does not retry in lockstep.
func withJitter(d time.Duration) time.Duration {
	return time.Duration(float64(d) * (0.8 + rand.Float64()*0.4))
}

// sleepWithContext waits for the duration or until the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
