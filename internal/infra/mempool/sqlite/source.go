// Package sqlite reads transactions from the mempool database of a Stacks
// node. The database is opened read-only; the node remains its only writer.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabapcia/mempart/internal/pkg/logger"
	"github.com/gabapcia/mempart/internal/pkg/resilience/retry"
	"github.com/gabapcia/mempart/internal/stacks"
	"github.com/gabapcia/mempart/internal/txroute"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	driverName = "sqlite"

	// busyTimeout is how long SQLite itself waits on a locked database
	// before reporting SQLITE_BUSY.
	busyTimeout = 5 * time.Second

	selectColumns = "SELECT txid, accept_time, tx FROM mempool"
)

// row mirrors the columns of the mempool table the router needs.
type row struct {
	TxID       string `db:"txid"`
	AcceptTime uint64 `db:"accept_time"`
	Tx         []byte `db:"tx"`
}

type Source struct {
	db        *sqlx.DB
	limit     uint64
	inclusive bool
	retry     retry.Retry
}

type config struct {
	limit     uint64
	inclusive bool
	retry     retry.Retry
}

type Option func(*config)

// WithLimit caps the number of rows returned by one FetchSince call.
// Zero means no limit.
func WithLimit(n uint64) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithInclusiveWatermark makes FetchSince also return every row whose
// accept time equals the watermark. Node accept times have one second
// resolution, so rows accepted in the same second as the last processed
// row would otherwise never be read. The router skips rows it already
// archived.
func WithInclusiveWatermark(inclusive bool) Option {
	return func(c *config) {
		c.inclusive = inclusive
	}
}

// WithRetry replaces the retry policy applied to queries.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// New wraps an open database handle.
func New(db *sqlx.DB, opts ...Option) *Source {
	cfg := config{
		retry: retry.New(
			retry.WithAttempts(4),
			retry.WithDelay(50*time.Millisecond),
			retry.WithMaxDelay(time.Second),
			retry.WithRetryIf(isBusy),
			retry.WithOnRetry(logBusyRetry),
		),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Source{
		db:        db,
		limit:     cfg.limit,
		inclusive: cfg.inclusive,
		retry:     cfg.retry,
	}
}

// dsn builds a read-only SQLite URI for path.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
}

// Open opens the mempool database at path read-only and checks that it
// can be queried.
func Open(ctx context.Context, path string, opts ...Option) (*Source, error) {
	db, err := sqlx.Open(driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open mempool database %q: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open mempool database %q: %w", path, err)
	}

	return New(db, opts...), nil
}

func (s *Source) Close() error {
	return s.db.Close()
}

// isBusy reports whether err is SQLite's transient "database is locked" or
// "database is busy" condition.
func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}

	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	default:
		return false
	}
}

func logBusyRetry(attempt uint, err error) {
	logger.Warn(context.Background(), "mempool database busy, retrying",
		"retry.attempt", attempt+1,
		"error", err,
	)
}

func (s *Source) selectRows(ctx context.Context, query string, args ...any) ([]row, error) {
	var rows []row
	err := s.retry.Execute(ctx, func() error {
		rows = rows[:0]
		return s.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Source) afterQuery() string {
	q := selectColumns + " WHERE accept_time > ? ORDER BY accept_time ASC, txid ASC"
	if s.limit > 0 {
		q += " LIMIT ?"
	}
	return q
}

const atQuery = selectColumns + " WHERE accept_time = ? ORDER BY txid ASC"

// FetchSince implements txroute.TransactionSource.
//
// Rows newer than watermark are read in pages of at most the configured
// limit. A page never ends in the middle of a run of rows sharing one
// accept time: the partial run is dropped and read by the next call, and a
// run longer than the limit is returned whole.
//
// With an inclusive watermark the rows at exactly watermark are read first,
// without a limit, and the newer page follows. Keeping the re-read out of
// the limited page means a second full of already routed rows can never
// crowd out newer rows.
func (s *Source) FetchSince(ctx context.Context, watermark uint64) ([]txroute.MempoolTransaction, error) {
	var rows []row
	if s.inclusive {
		at, err := s.selectRows(ctx, atQuery, watermark)
		if err != nil {
			return nil, fmt.Errorf("query mempool at accept time %d: %w", watermark, err)
		}
		rows = at
	}

	after, err := s.fetchAfter(ctx, watermark)
	if err != nil {
		return nil, err
	}
	rows = append(rows, after...)

	txs := make([]txroute.MempoolTransaction, 0, len(rows))
	for _, r := range rows {
		tx, err := decodeRow(r)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	logger.Debug(ctx, "mempool rows fetched",
		"watermark", watermark,
		"tx.count", len(txs),
	)
	return txs, nil
}

// fetchAfter reads one page of rows strictly newer than watermark.
func (s *Source) fetchAfter(ctx context.Context, watermark uint64) ([]row, error) {
	args := []any{watermark}
	if s.limit > 0 {
		args = append(args, s.limit)
	}

	rows, err := s.selectRows(ctx, s.afterQuery(), args...)
	if err != nil {
		return nil, fmt.Errorf("query mempool: %w", err)
	}

	if s.limit > 0 && uint64(len(rows)) == s.limit {
		return s.completeLastRun(ctx, rows)
	}
	return rows, nil
}

// completeLastRun trims the trailing rows sharing the last accept time of
// a full page. If the whole page shares it, every row with that accept
// time is returned instead.
func (s *Source) completeLastRun(ctx context.Context, rows []row) ([]row, error) {
	last := rows[len(rows)-1].AcceptTime

	end := len(rows)
	for end > 0 && rows[end-1].AcceptTime == last {
		end--
	}
	if end > 0 {
		return rows[:end], nil
	}

	rows, err := s.selectRows(ctx, atQuery, last)
	if err != nil {
		return nil, fmt.Errorf("query mempool at accept time %d: %w", last, err)
	}
	return rows, nil
}

func decodeRow(r row) (txroute.MempoolTransaction, error) {
	tx, err := stacks.Decode(r.Tx)
	if err != nil {
		return txroute.MempoolTransaction{}, fmt.Errorf("%w: txid %s at accept time %d: %w", txroute.ErrDecode, r.TxID, r.AcceptTime, err)
	}

	txid := strings.ToLower(strings.TrimPrefix(r.TxID, "0x"))
	if txid == "" {
		txid = tx.TxID()
	}

	return txroute.MempoolTransaction{
		TxID:       txid,
		AcceptTime: r.AcceptTime,
		Tx:         tx,
	}, nil
}

var _ txroute.TransactionSource = (*Source)(nil)
