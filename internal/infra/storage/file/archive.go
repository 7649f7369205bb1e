package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gabapcia/mempart/internal/txroute"
)

// ArchiveStorage keeps the archive as a single JSON array document.
type ArchiveStorage struct {
	path string
}

func NewArchiveStorage(path string) *ArchiveStorage {
	return &ArchiveStorage{path: path}
}

// LoadArchive returns txroute.ErrNoArchiveFound if the file does not exist.
func (s *ArchiveStorage) LoadArchive(_ context.Context) ([]txroute.MempoolTransaction, error) {
	txs, err := readTransactions(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, txroute.ErrNoArchiveFound
	}
	return txs, err
}

// SaveArchive rewrites the whole document.
func (s *ArchiveStorage) SaveArchive(_ context.Context, txs []txroute.MempoolTransaction) error {
	return writeTransactions(s.path, txs)
}

var _ txroute.ArchiveStorage = (*ArchiveStorage)(nil)

// readTransactions decodes the JSON array stored at path. The returned
// error wraps fs.ErrNotExist when the file is missing.
func readTransactions(path string) ([]txroute.MempoolTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var txs []txroute.MempoolTransaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return txs, nil
}

func writeTransactions(path string, txs []txroute.MempoolTransaction) error {
	if txs == nil {
		txs = []txroute.MempoolTransaction{}
	}

	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return writeFileAtomic(path, data)
}
