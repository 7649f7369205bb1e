package txroute

import (
	"context"
	"errors"
	"fmt"
)

// Status is a snapshot of what has been persisted.
type Status struct {
	// Watermark is the stored watermark; zero when WatermarkFound is false.
	Watermark      uint64
	WatermarkFound bool

	// ArchiveSize is the number of archived transactions; zero when
	// ArchiveFound is false.
	ArchiveSize  int
	ArchiveFound bool

	// LastAcceptTime is the highest accept time in the archive.
	LastAcceptTime uint64

	Partitions []PartitionInfo
}

// Inspect reads the persisted state without modifying it. Missing
// watermark or archive are reported through the Found flags; any other
// storage error is returned.
func Inspect(ctx context.Context, watermarks WatermarkStorage, archive ArchiveStorage, catalog PartitionCatalog) (Status, error) {
	var status Status

	watermark, err := watermarks.LoadWatermark(ctx)
	switch {
	case err == nil:
		status.Watermark, status.WatermarkFound = watermark, true
	case !errors.Is(err, ErrNoWatermarkFound):
		return Status{}, fmt.Errorf("load watermark: %w", err)
	}

	txs, err := archive.LoadArchive(ctx)
	switch {
	case err == nil:
		status.ArchiveSize, status.ArchiveFound = len(txs), true
		for _, tx := range txs {
			status.LastAcceptTime = max(status.LastAcceptTime, tx.AcceptTime)
		}
	case !errors.Is(err, ErrNoArchiveFound):
		return Status{}, fmt.Errorf("load archive: %w", err)
	}

	partitions, err := catalog.ListPartitions(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("list partitions: %w", err)
	}
	status.Partitions = partitions

	return status, nil
}
