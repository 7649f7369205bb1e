package txroute

import (
	"context"
	"errors"

	"github.com/gabapcia/mempart/internal/pkg/logger"
	"github.com/gabapcia/mempart/internal/pkg/types"
)

// State is the in-memory progress of the poll loop. Each cycle takes a
// State and returns the next one.
type State struct {
	// Watermark is the highest accept time processed so far.
	Watermark uint64

	// Archive lists every processed transaction in arrival order.
	Archive []MempoolTransaction

	// Seen holds the txids in Archive.
	Seen types.Set[string]

	// Dirty is set while Watermark or Archive are ahead of storage.
	Dirty bool
}

func newState(watermark uint64, archive []MempoolTransaction) State {
	seen := types.NewSet[string]()
	for _, tx := range archive {
		seen.Add(tx.TxID)
	}

	return State{
		Watermark: watermark,
		Archive:   archive,
		Seen:      seen,
	}
}

// loadState restores the loop state from storage. Load failures are never
// fatal: if either the archive or the watermark cannot be loaded both start
// empty, and the next fetch rescans the mempool from accept time 0.
// Partition merges skip txids they already hold, so the rescan rebuilds the
// archive without duplicating partition entries.
func loadState(ctx context.Context, watermarks WatermarkStorage, archive ArchiveStorage) State {
	txs, err := archive.LoadArchive(ctx)
	if err != nil {
		if errors.Is(err, ErrNoArchiveFound) {
			logger.Warn(ctx, "no archive found, starting from an empty state")
		} else {
			logger.Warn(ctx, "failed to load archive, starting from an empty state", "error", err)
		}
		return newState(0, nil)
	}

	watermark, err := watermarks.LoadWatermark(ctx)
	if err != nil {
		if errors.Is(err, ErrNoWatermarkFound) {
			logger.Warn(ctx, "no watermark found, starting from an empty state", "archive.size", len(txs))
		} else {
			logger.Warn(ctx, "failed to load watermark, starting from an empty state", "archive.size", len(txs), "error", err)
		}
		return newState(0, nil)
	}

	logger.Info(ctx, "state loaded",
		"watermark", watermark,
		"archive.size", len(txs),
	)

	return newState(watermark, txs)
}
