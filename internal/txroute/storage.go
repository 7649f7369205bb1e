package txroute

import (
	"context"
	"errors"
)

var (
	// ErrNoWatermarkFound is returned by LoadWatermark when nothing has
	// been saved yet.
	ErrNoWatermarkFound = errors.New("no watermark found")

	// ErrNoArchiveFound is returned by LoadArchive when nothing has been
	// saved yet.
	ErrNoArchiveFound = errors.New("no archive found")
)

// WatermarkStorage persists the highest accept time that has been fully
// processed.
type WatermarkStorage interface {
	// LoadWatermark returns the last saved watermark, or ErrNoWatermarkFound.
	LoadWatermark(ctx context.Context) (uint64, error)

	// SaveWatermark replaces the stored watermark. A crash during the call
	// must leave either the old or the new value readable.
	SaveWatermark(ctx context.Context, watermark uint64) error
}

// ArchiveStorage persists the ordered list of every transaction processed
// so far. The archive is the authoritative seen set used after a restart.
type ArchiveStorage interface {
	// LoadArchive returns the saved archive, or ErrNoArchiveFound.
	LoadArchive(ctx context.Context) ([]MempoolTransaction, error)

	// SaveArchive overwrites the stored archive with txs.
	SaveArchive(ctx context.Context, txs []MempoolTransaction) error
}

// PartitionStorage holds one ordered log of transactions per partition key.
type PartitionStorage interface {
	// Merge appends txs to the partition identified by key, creating it if
	// needed. Transactions already present in the partition (by txid) are
	// skipped, so merging the same batch twice is a no-op. Merging no
	// transactions must not modify the partition.
	Merge(ctx context.Context, key string, txs ...MempoolTransaction) error
}

// PartitionInfo describes one stored partition.
type PartitionInfo struct {
	Key   string
	Count int
}

// PartitionCatalog lists stored partitions.
type PartitionCatalog interface {
	// ListPartitions returns every stored partition sorted by key.
	ListPartitions(ctx context.Context) ([]PartitionInfo, error)
}
