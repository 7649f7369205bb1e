package txroute

import (
	"context"
	"fmt"

	"github.com/gabapcia/mempart/internal/pkg/logger"
	"github.com/gabapcia/mempart/internal/pkg/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tick runs one cycle with its own id, span and logging. Errors are logged
// and st is returned as the cycle left it, so the next tick retries.
func (s *service) tick(ctx context.Context, st State) State {
	cycleID := newCycleID()
	ctx = logger.Derive(ctx, "cycle.id", cycleID)

	ctx, span := s.instruments.tracer.Start(ctx, "txroute.cycle",
		trace.WithAttributes(
			attribute.String("cycle.id", cycleID),
			attribute.Int64("cycle.watermark", int64(st.Watermark)),
		),
	)
	defer span.End()

	next, err := s.cycle(ctx, st)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.instruments.failedCycles.Add(ctx, 1)
		logger.Error(ctx, "poll cycle failed",
			"watermark", next.Watermark,
			"dirty", next.Dirty,
			"error", err,
		)
	}

	return next
}

func newCycleID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// cycle performs FETCHING, ROUTING and FLUSHING once.
//
// A failed fetch or partition write returns st unchanged. A failed flush
// returns the routed state with Dirty still set, so only the flush is
// retried.
func (s *service) cycle(ctx context.Context, st State) (State, error) {
	batch, err := s.source.FetchSince(ctx, st.Watermark)
	if err != nil {
		return st, fmt.Errorf("fetch transactions after %d: %w", st.Watermark, err)
	}
	s.instruments.fetched.Add(ctx, int64(len(batch)))

	if len(batch) > 0 {
		st, err = s.route(ctx, st, batch)
		if err != nil {
			return st, err
		}
	}

	if !st.Dirty {
		return st, nil
	}

	return s.flush(ctx, st)
}

// route merges the unseen transactions of batch into their partitions and
// returns the advanced state. If any merge fails, st is returned unchanged.
func (s *service) route(ctx context.Context, st State, batch []MempoolTransaction) (State, error) {
	var (
		fresh     = make([]MempoolTransaction, 0, len(batch))
		freshIDs  = make(map[string]struct{}, len(batch))
		watermark = st.Watermark
	)
	for _, tx := range batch {
		watermark = max(watermark, tx.AcceptTime)

		_, dup := freshIDs[tx.TxID]
		if dup || st.Seen.Has(tx.TxID) {
			logger.Debug(ctx, "skipping already archived transaction",
				"tx.id", tx.TxID,
				"tx.accept_time", tx.AcceptTime,
			)
			continue
		}

		freshIDs[tx.TxID] = struct{}{}
		fresh = append(fresh, tx)
	}

	if skipped := len(batch) - len(fresh); skipped > 0 {
		s.instruments.skipped.Add(ctx, int64(skipped))
	}

	keys, groups := groupByPartition(fresh)
	for _, key := range keys {
		txs := groups[key]
		if err := s.partitions.Merge(ctx, key, txs...); err != nil {
			return st, fmt.Errorf("merge %d transactions into partition %q: %w", len(txs), key, err)
		}

		s.instruments.routed.Add(ctx, int64(len(txs)), partitionAttr(key))
		logger.Debug(ctx, "partition merged",
			"partition.key", key,
			"tx.ids", txIDs(txs),
		)
	}

	if len(fresh) == 0 && watermark == st.Watermark {
		return st, nil
	}

	if st.Seen == nil {
		st.Seen = types.NewSet[string]()
	}
	st.Seen.Add(txIDs(fresh)...)
	next := State{
		Watermark: watermark,
		Archive:   append(st.Archive, fresh...),
		Seen:      st.Seen,
		Dirty:     true,
	}

	logger.Info(ctx, "batch routed",
		"tx.fetched", len(batch),
		"tx.routed", len(fresh),
		"partition.count", len(keys),
		"watermark", next.Watermark,
	)

	return next, nil
}

// flush persists the archive and then the watermark. Dirty is cleared only
// when both writes succeed.
func (s *service) flush(ctx context.Context, st State) (State, error) {
	if err := s.archive.SaveArchive(ctx, st.Archive); err != nil {
		return st, fmt.Errorf("save archive: %w", err)
	}

	if err := s.watermarks.SaveWatermark(ctx, st.Watermark); err != nil {
		return st, fmt.Errorf("save watermark %d: %w", st.Watermark, err)
	}

	s.instruments.recordWatermark(ctx, st.Watermark)
	logger.Debug(ctx, "state flushed",
		"watermark", st.Watermark,
		"archive.size", len(st.Archive),
	)

	st.Dirty = false
	return st, nil
}
