// Package sqlitetest creates throwaway mempool databases for tests.
package sqlitetest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// schema is the subset of the node's mempool table read by the router.
const schema = `
CREATE TABLE mempool (
	txid TEXT NOT NULL,
	origin_address TEXT NOT NULL DEFAULT '',
	accept_time INTEGER NOT NULL,
	tx BLOB NOT NULL,
	PRIMARY KEY (txid)
);
CREATE INDEX by_accept_time ON mempool(accept_time);
`

// Mempool is a writable mempool database.
type Mempool struct {
	t  testing.TB
	db *sqlx.DB
}

// Create creates a mempool database at path. It is closed when the test ends.
func Create(t testing.TB, path string) *Mempool {
	t.Helper()

	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.MustExec(schema)
	return &Mempool{t: t, db: db}
}

// Insert adds one row.
func (m *Mempool) Insert(txid string, acceptTime uint64, raw []byte) {
	m.t.Helper()

	_, err := m.db.Exec(`INSERT INTO mempool (txid, accept_time, tx) VALUES (?, ?, ?)`, txid, int64(acceptTime), raw)
	require.NoError(m.t, err)
}
