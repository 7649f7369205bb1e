package txroute

import "github.com/gabapcia/mempart/internal/stacks"

// MempoolTransaction is one decoded row of the mempool. It is the unit
// stored in the archive and in every partition.
type MempoolTransaction struct {
	// TxID is the hex transaction id, without a 0x prefix.
	TxID string `json:"txid"`

	// AcceptTime is the time the node accepted the transaction into its
	// mempool. It is the watermark column.
	AcceptTime uint64 `json:"accept_time"`

	// Tx is the decoded transaction.
	Tx stacks.Transaction `json:"tx"`
}

// txIDs returns the ids of txs in order.
func txIDs(txs []MempoolTransaction) []string {
	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.TxID
	}
	return ids
}
