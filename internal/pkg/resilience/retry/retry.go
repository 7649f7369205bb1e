// Package retry provides a configurable retry mechanism for operations that may fail temporarily.
// It wraps the retry-go package from Avast and exposes a simple interface with functional
// options for customizing retry behavior.
//
// The package implements an exponential backoff strategy. Callers can restrict
// retries to errors they consider transient with WithRetryIf:
//
//	r := retry.New(
//	    retry.WithAttempts(4),
//	    retry.WithDelay(50*time.Millisecond),
//	    retry.WithRetryIf(isBusy),
//	)
//	err := r.Execute(ctx, func() error {
//	    return query(ctx)
//	})
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry defines the interface for retry operations.
type Retry interface {
	// Execute runs operation until it succeeds, the attempts are exhausted,
	// the error is not retryable, or ctx is done.
	//
	// The operation should be idempotent. Execute returns nil on success,
	// otherwise the last error.
	Execute(ctx context.Context, operation func() error) error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts uint              // maximum number of attempts, including the first
	delay    time.Duration     // base delay between attempts
	maxDelay time.Duration     // cap for the exponential delay
	retryIf  func(error) bool  // nil retries every error
	onRetry  func(uint, error) // called before each retry
}

// Option defines a functional option for configuring the retry mechanism.
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

// Compile-time assertion that retrier implements Retry interface
var _ Retry = (*retrier)(nil)

// New creates a Retry configured with opts.
//
// Default configuration:
//   - attempts: 3 (1 initial attempt + 2 retries)
//   - delay:    1 second
//   - maxDelay: 5 seconds
//   - retryIf:  every error
func New(opts ...Option) Retry {
	cfg := config{
		attempts: 3,
		delay:    1 * time.Second,
		maxDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// Execute implements the Retry interface.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	}
	if r.cfg.retryIf != nil {
		options = append(options, retry.RetryIf(r.cfg.retryIf))
	}
	if r.cfg.onRetry != nil {
		options = append(options, retry.OnRetry(r.cfg.onRetry))
	}

	return retry.Do(operation, options...)
}

// WithAttempts sets the maximum number of attempts (including the initial attempt).
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the base delay between retry attempts.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay caps the exponential growth of the delay.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithRetryIf restricts retries to errors for which f returns true; other
// errors are returned immediately.
func WithRetryIf(f func(error) bool) Option {
	return func(c *config) {
		c.retryIf = f
	}
}

// WithOnRetry registers a callback invoked with the attempt number and error
// before each retry.
func WithOnRetry(f func(attempt uint, err error)) Option {
	return func(c *config) {
		c.onRetry = f
	}
}
