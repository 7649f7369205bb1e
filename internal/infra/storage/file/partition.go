package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabapcia/mempart/internal/pkg/logger"
	"github.com/gabapcia/mempart/internal/pkg/types"
	"github.com/gabapcia/mempart/internal/txroute"
)

const partitionExt = ".json"

// ErrInvalidPartitionKey is returned for keys that cannot be used as a file name.
var ErrInvalidPartitionKey = errors.New("invalid partition key")

// PartitionStorage keeps each partition as "<key>.json" in a directory.
type PartitionStorage struct {
	dir string
}

func NewPartitionStorage(dir string) *PartitionStorage {
	return &PartitionStorage{dir: dir}
}

func (s *PartitionStorage) path(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`+"\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPartitionKey, key)
	}
	return filepath.Join(s.dir, key+partitionExt), nil
}

// Merge appends the transactions of txs that the partition does not hold
// yet and rewrites the file. An unreadable partition file is logged and
// replaced.
func (s *PartitionStorage) Merge(ctx context.Context, key string, txs ...txroute.MempoolTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	path, err := s.path(key)
	if err != nil {
		return err
	}

	current, err := readTransactions(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn(ctx, "partition file unreadable, recreating it",
			"partition.key", key,
			"partition.path", path,
			"error", err,
		)
		current = nil
	}

	seen := types.NewSet[string]()
	for _, tx := range current {
		seen.Add(tx.TxID)
	}

	merged := slices.Grow(current, len(txs))
	for _, tx := range txs {
		if seen.Has(tx.TxID) {
			continue
		}
		seen.Add(tx.TxID)
		merged = append(merged, tx)
	}

	if len(merged) == len(current) && current != nil {
		return nil
	}

	if err := writeTransactions(path, merged); err != nil {
		return fmt.Errorf("write partition %q: %w", key, err)
	}
	return nil
}

// ListPartitions returns every partition file in the directory with its
// entry count, sorted by key. Hidden files are not partitions.
func (s *PartitionStorage) ListPartitions(_ context.Context) ([]txroute.PartitionInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read partition directory: %w", err)
	}

	var partitions []txroute.PartitionInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != partitionExt {
			continue
		}

		txs, err := readTransactions(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, txroute.PartitionInfo{
			Key:   strings.TrimSuffix(name, partitionExt),
			Count: len(txs),
		})
	}

	// os.ReadDir already sorts by file name.
	return partitions, nil
}

var (
	_ txroute.PartitionStorage = (*PartitionStorage)(nil)
	_ txroute.PartitionCatalog = (*PartitionStorage)(nil)
)
