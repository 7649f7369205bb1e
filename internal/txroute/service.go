// Package txroute moves transactions from the node's mempool into
// per-contract partitions.
//
// A Service polls a TransactionSource for rows newer than its watermark,
// merges each new transaction into the partition named by PartitionKey,
// appends it to the archive and advances the watermark. Archive and
// watermark are flushed together after every batch, so a restarted Service
// resumes where the last flush left off and never writes a transaction to a
// partition twice.
package txroute

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/mempart/internal/pkg/logger"
)

// ErrServiceAlreadyStarted is returned by Start on a running Service.
var ErrServiceAlreadyStarted = errors.New("service already started")

// DefaultPollInterval is the pause between two poll cycles.
const DefaultPollInterval = time.Second

type Service interface {
	// Start loads the persisted state and starts polling in the
	// background. It returns ErrServiceAlreadyStarted if already running.
	Start(ctx context.Context) error

	// Close stops polling, flushes pending state and waits for the loop
	// to exit.
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	source     TransactionSource
	watermarks WatermarkStorage
	archive    ArchiveStorage
	partitions PartitionStorage

	pollInterval time.Duration
	instruments  instruments
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	st := loadState(ctx, s.watermarks, s.archive)
	s.instruments.recordWatermark(ctx, st.Watermark)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx, st)
	}()

	s.closeFunc = func() {
		cancel()
		<-done
	}

	s.isStarted = true
	logger.Info(ctx, "transaction router started",
		"poll.interval", s.pollInterval.String(),
		"watermark", st.Watermark,
	)
	return nil
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.isStarted = false
	s.closeFunc = nil
}

// run polls until ctx is done, then makes a last attempt to flush.
func (s *service) run(ctx context.Context, st State) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown(ctx, st)
			return
		case <-timer.C:
		}

		st = s.tick(ctx, st)
		timer.Reset(s.pollInterval)
	}
}

func (s *service) shutdown(ctx context.Context, st State) {
	if !st.Dirty {
		logger.Info(ctx, "transaction router stopped", "watermark", st.Watermark)
		return
	}

	// ctx is already canceled; the final flush must still reach storage.
	ctx = context.WithoutCancel(ctx)
	if _, err := s.flush(ctx, st); err != nil {
		logger.Error(ctx, "final flush failed, pending batch will be refetched on restart",
			"watermark", st.Watermark,
			"error", err,
		)
		return
	}
	logger.Info(ctx, "transaction router stopped", "watermark", st.Watermark)
}

type config struct {
	pollInterval time.Duration
}

type Option func(*config)

// New creates a Service reading from source and writing through the given
// storages. The Service is idle until Start is called.
func New(source TransactionSource, watermarks WatermarkStorage, archive ArchiveStorage, partitions PartitionStorage, opts ...Option) *service {
	cfg := config{
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		source:       source,
		watermarks:   watermarks,
		archive:      archive,
		partitions:   partitions,
		pollInterval: cfg.pollInterval,
		instruments:  newInstruments(),
	}
}

// WithPollInterval sets the pause between poll cycles. Non-positive values
// are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}
