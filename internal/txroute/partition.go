package txroute

import (
	"regexp"

	"github.com/gabapcia/mempart/internal/pkg/types"
	"github.com/gabapcia/mempart/internal/stacks"
)

// SentinelPartitionKey collects every transaction that does not call a
// contract, or whose contract name cannot safely name a file.
const SentinelPartitionKey = "NO_NAME"

// contractNamePattern matches valid Clarity contract names. It rules out
// path separators, dots and NUL, so a matching name is always a safe file
// name component.
var contractNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,127}$`)

// PartitionKey derives the partition a transaction payload belongs to.
//
// Contract calls are keyed by the called contract's name. Every other
// payload, and any contract name that is not a valid Clarity name, maps to
// SentinelPartitionKey. PartitionKey never fails.
func PartitionKey(payload stacks.Payload) string {
	var name string
	switch p := payload.(type) {
	case stacks.ContractCall:
		name = p.ContractName
	case *stacks.ContractCall:
		if p != nil {
			name = p.ContractName
		}
	}

	if !contractNamePattern.MatchString(name) {
		return SentinelPartitionKey
	}
	return name
}

// groupByPartition splits txs by partition key. Keys are returned in order
// of first appearance and each group keeps the order of txs.
func groupByPartition(txs []MempoolTransaction) ([]string, map[string][]MempoolTransaction) {
	groups := types.NewDefaultMap[string](func() []MempoolTransaction { return nil })
	for _, tx := range txs {
		key := PartitionKey(tx.Tx.Payload)
		groups.Set(key, append(groups.Get(key), tx))
	}
	return groups.Keys(), groups.ToMap()
}
