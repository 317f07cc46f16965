package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"

	"github.com/nhle/order-tracker/internal/source"
)

// RetryPolicy bounds the retry-with-recovery loop. Delays[i] is slept
// after the (i+1)th failed attempt; the last delay repeats.
type RetryPolicy struct {
	MaxAttempts int
	Delays      []time.Duration
}

// DefaultRetryPolicy is three attempts with 2s then 5s between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delays:      []time.Duration{2 * time.Second, 5 * time.Second},
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	i := attempt - 1
	if i >= len(p.Delays) {
		i = len(p.Delays) - 1
	}
	if i < 0 {
		i = 0
	}
	return p.Delays[i]
}

// withRecovery runs op until it succeeds, fails with an error that
// recoverable rejects, or MaxAttempts is reached. Between attempts it
// sleeps and then runs recoverFn; a recoverFn failure ends the loop.
// It returns the number of attempts made.
func withRecovery[T any](
	ctx context.Context,
	policy RetryPolicy,
	recoverable func(error) bool,
	recoverFn func(context.Context) error,
	sleep func(context.Context, time.Duration) error,
	op func() (T, error),
) (T, int, error) {
	var zero T

	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		v, err := op()
		if err == nil {
			return v, attempt, nil
		}
		if !recoverable(err) {
			return zero, attempt, err
		}
		if attempt >= maxAttempts {
			return zero, attempt, fmt.Errorf(
				"giving up after %d attempts: %w", attempt, err,
			)
		}

		if serr := sleep(ctx, policy.delay(attempt)); serr != nil {
			return zero, attempt, serr
		}
		if rerr := recoverFn(ctx); rerr != nil {
			return zero, attempt, fmt.Errorf(
				"recovering after attempt %d: %w", attempt, rerr,
			)
		}
	}
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTransient reports whether err is a recoverable session failure.
// Tagged NO/BAD replies (unknown folder, malformed query) and
// authentication failures are not; dropped connections and other
// transport errors are.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotConnected) || errors.Is(err, ErrMessageNotFound) {
		return false
	}
	if source.IsAuthError(err) {
		return false
	}

	var imapErr *imap.Error
	if errors.As(err, &imapErr) {
		return imapErr.Code == imap.ResponseCodeUnavailable
	}

	return true
}
