// Package file stores the router's watermark, archive and partitions as
// plain files. Every write replaces the target atomically.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/gabapcia/mempart/internal/txroute"
)

// WatermarkStorage keeps the watermark as a decimal number in a text file.
type WatermarkStorage struct {
	path string
}

func NewWatermarkStorage(path string) *WatermarkStorage {
	return &WatermarkStorage{path: path}
}

// LoadWatermark returns txroute.ErrNoWatermarkFound if the file does not
// exist, and a parse error if it does not hold an unsigned integer.
func (s *WatermarkStorage) LoadWatermark(_ context.Context) (uint64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, txroute.ErrNoWatermarkFound
		}
		return 0, fmt.Errorf("read watermark file: %w", err)
	}

	watermark, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse watermark file %q: %w", s.path, err)
	}
	return watermark, nil
}

func (s *WatermarkStorage) SaveWatermark(_ context.Context, watermark uint64) error {
	return writeFileAtomic(s.path, strconv.AppendUint(nil, watermark, 10))
}

var _ txroute.WatermarkStorage = (*WatermarkStorage)(nil)
