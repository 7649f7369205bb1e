package txroute

import (
	"context"
	"errors"
)

// ErrDecode is wrapped by TransactionSource implementations when a stored
// row cannot be decoded into a transaction.
var ErrDecode = errors.New("decode mempool transaction")

// TransactionSource reads new transactions from the mempool store.
type TransactionSource interface {
	// FetchSince returns every transaction whose accept time is strictly
	// greater than watermark, ordered by accept time ascending.
	//
	// If any selected row fails to decode, FetchSince returns an error
	// wrapping ErrDecode and no transactions, so the caller never moves
	// past a row it could not read.
	FetchSince(ctx context.Context, watermark uint64) ([]MempoolTransaction, error)
}
