package txroute

import (
	"strings"
	"testing"

	"github.com/gabapcia/mempart/internal/stacks"
	"github.com/gabapcia/mempart/internal/stacks/stackstest"

	"github.com/stretchr/testify/assert"
)

func TestPartitionKey(t *testing.T) {
	call := func(name string) stacks.ContractCall {
		return stacks.ContractCall{
			Address:      stackstest.Address(0x22),
			ContractName: name,
			FunctionName: "transfer",
		}
	}

	t.Run("should use the contract name of a contract call", func(t *testing.T) {
		assert.Equal(t, "alpha", PartitionKey(call("alpha")))
		assert.Equal(t, "sbtc-token_v2", PartitionKey(call("sbtc-token_v2")))
	})

	t.Run("should accept a pointer to a contract call", func(t *testing.T) {
		c := call("alpha")
		assert.Equal(t, "alpha", PartitionKey(&c))
	})

	t.Run("should use the sentinel for other payloads", func(t *testing.T) {
		payloads := []stacks.Payload{
			nil,
			(*stacks.ContractCall)(nil),
			stacks.TokenTransfer{Amount: 10},
			stacks.SmartContract{Name: "alpha", Code: "(begin)"},
			stacks.VersionedSmartContract{ClarityVersion: 2, Name: "alpha"},
			stacks.Coinbase{},
			stacks.OpaquePayload{Kind: stacks.PayloadTenureChange},
		}

		for _, p := range payloads {
			assert.Equal(t, SentinelPartitionKey, PartitionKey(p), "payload %T", p)
		}
	})

	t.Run("should use the sentinel for names that are unsafe as file names", func(t *testing.T) {
		names := []string{
			"",
			"../etc/passwd",
			"a/b",
			`a\b`,
			"nul\x00byte",
			"dotted.name",
			"1starts-with-digit",
			"-dash",
			"with space",
			strings.Repeat("a", 129),
		}

		for _, name := range names {
			assert.Equal(t, SentinelPartitionKey, PartitionKey(call(name)), "name %q", name)
		}
	})

	t.Run("should accept the longest valid name", func(t *testing.T) {
		name := strings.Repeat("a", 128)
		assert.Equal(t, name, PartitionKey(call(name)))
	})

	t.Run("should be deterministic", func(t *testing.T) {
		tx := stackstest.ContractCall(t, "alpha", 1)

		first := PartitionKey(tx.Payload)
		for range 10 {
			assert.Equal(t, first, PartitionKey(tx.Payload))
		}
	})
}

func TestGroupByPartition(t *testing.T) {
	t.Run("should group in order of first appearance", func(t *testing.T) {
		// Arrange
		txs := []MempoolTransaction{
			contractCallTx(t, "beta", 10),
			tokenTransferTx(t, 20),
			contractCallTx(t, "alpha", 30),
			contractCallTx(t, "beta", 40),
			tokenTransferTx(t, 50),
		}

		// Act
		keys, groups := groupByPartition(txs)

		// Assert
		assert.Equal(t, []string{"beta", SentinelPartitionKey, "alpha"}, keys)
		assert.Equal(t, []uint64{10, 40}, acceptTimes(groups["beta"]))
		assert.Equal(t, []uint64{20, 50}, acceptTimes(groups[SentinelPartitionKey]))
		assert.Equal(t, []uint64{30}, acceptTimes(groups["alpha"]))
	})

	t.Run("should return nothing for an empty batch", func(t *testing.T) {
		keys, groups := groupByPartition(nil)

		assert.Empty(t, keys)
		assert.Empty(t, groups)
	})
}
