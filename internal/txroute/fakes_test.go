package txroute

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/gabapcia/mempart/internal/stacks/stackstest"

	"github.com/stretchr/testify/require"
)

// memorySource is an append-only mempool table.
type memorySource struct {
	mu   sync.Mutex
	rows []MempoolTransaction
}

func (m *memorySource) insert(txs ...MempoolTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, txs...)
}

func (m *memorySource) FetchSince(_ context.Context, watermark uint64) ([]MempoolTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []MempoolTransaction
	for _, row := range m.rows {
		if row.AcceptTime > watermark {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AcceptTime < out[j].AcceptTime })
	return out, nil
}

// memoryStore keeps every storage as JSON documents, so values go through
// the same encoding as the file storages.
type memoryStore struct {
	mu         sync.Mutex
	watermark  *uint64
	archive    []byte
	partitions map[string][]byte

	failArchiveSave bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{partitions: make(map[string][]byte)}
}

func (m *memoryStore) LoadWatermark(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watermark == nil {
		return 0, ErrNoWatermarkFound
	}
	return *m.watermark, nil
}

func (m *memoryStore) SaveWatermark(_ context.Context, watermark uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.watermark = &watermark
	return nil
}

func (m *memoryStore) deleteWatermark() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watermark = nil
}

func (m *memoryStore) LoadArchive(context.Context) ([]MempoolTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.archive == nil {
		return nil, ErrNoArchiveFound
	}

	var txs []MempoolTransaction
	if err := json.Unmarshal(m.archive, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (m *memoryStore) SaveArchive(_ context.Context, txs []MempoolTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failArchiveSave {
		return errDiskFull
	}

	data, err := json.Marshal(txs)
	if err != nil {
		return err
	}
	m.archive = data
	return nil
}

func (m *memoryStore) Merge(_ context.Context, key string, txs ...MempoolTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(txs) == 0 {
		return nil
	}

	var current []MempoolTransaction
	if data, ok := m.partitions[key]; ok {
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
	}

	ids := txIDs(current)
	for _, tx := range txs {
		if slices.Contains(ids, tx.TxID) {
			continue
		}
		ids = append(ids, tx.TxID)
		current = append(current, tx)
	}

	data, err := json.Marshal(current)
	if err != nil {
		return err
	}
	m.partitions[key] = data
	return nil
}

func (m *memoryStore) ListPartitions(context.Context) ([]PartitionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PartitionInfo
	for key, data := range m.partitions {
		var txs []MempoolTransaction
		if err := json.Unmarshal(data, &txs); err != nil {
			return nil, err
		}
		out = append(out, PartitionInfo{Key: key, Count: len(txs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStore) partition(t *testing.T, key string) []MempoolTransaction {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.partitions[key]
	if !ok {
		return nil
	}

	var txs []MempoolTransaction
	require.NoError(t, json.Unmarshal(data, &txs))
	return txs
}

func (m *memoryStore) savedWatermark() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watermark == nil {
		return 0, false
	}
	return *m.watermark, true
}

// contractCallTx returns a mempool row calling contract, accepted at acceptTime.
func contractCallTx(t testing.TB, contract string, acceptTime uint64) MempoolTransaction {
	t.Helper()

	tx := stackstest.ContractCall(t, contract, acceptTime)
	return MempoolTransaction{TxID: tx.TxID(), AcceptTime: acceptTime, Tx: tx}
}

// tokenTransferTx returns a mempool row with an STX transfer, accepted at acceptTime.
func tokenTransferTx(t testing.TB, acceptTime uint64) MempoolTransaction {
	t.Helper()

	tx := stackstest.TokenTransfer(t, acceptTime)
	return MempoolTransaction{TxID: tx.TxID(), AcceptTime: acceptTime, Tx: tx}
}

func acceptTimes(txs []MempoolTransaction) []uint64 {
	out := make([]uint64, len(txs))
	for i, tx := range txs {
		out[i] = tx.AcceptTime
	}
	return out
}
