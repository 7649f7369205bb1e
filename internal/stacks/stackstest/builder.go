// Package stackstest builds wire-encoded Stacks transactions for tests.
package stackstest

import (
	"encoding/binary"
	"testing"

	"github.com/gabapcia/mempart/internal/stacks"

	"github.com/stretchr/testify/require"
)

// TestnetChainID is the chain id used by fixtures.
const TestnetChainID uint32 = 0x80000000

// Tx describes a single-sig (or sponsored) testnet transaction to encode.
type Tx struct {
	Nonce          uint64
	Fee            uint64
	Signer         [20]byte
	Sponsor        *[20]byte
	PostConditions [][]byte
	Payload        []byte
}

func appendU32(b []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(b, v) }
func appendU64(b []byte, v uint64) []byte { return binary.BigEndian.AppendUint64(b, v) }

func appendShortString(b []byte, s string) []byte {
	b = append(b, byte(len(s)))
	return append(b, s...)
}

func appendSingleSig(b []byte, signer [20]byte, nonce, fee uint64) []byte {
	b = append(b, byte(stacks.HashModeP2PKH))
	b = append(b, signer[:]...)
	b = appendU64(b, nonce)
	b = appendU64(b, fee)
	b = append(b, 0x00) // compressed key encoding
	return append(b, make([]byte, 65)...)
}

// Bytes returns the wire encoding of tx.
func (tx Tx) Bytes() []byte {
	b := []byte{byte(stacks.TransactionVersionTestnet)}
	b = appendU32(b, TestnetChainID)

	if tx.Sponsor != nil {
		b = append(b, byte(stacks.AuthTypeSponsored))
		b = appendSingleSig(b, tx.Signer, tx.Nonce, tx.Fee)
		b = appendSingleSig(b, *tx.Sponsor, 0, tx.Fee)
	} else {
		b = append(b, byte(stacks.AuthTypeStandard))
		b = appendSingleSig(b, tx.Signer, tx.Nonce, tx.Fee)
	}

	b = append(b, byte(stacks.AnchorModeAny), byte(stacks.PostConditionModeDeny))
	b = appendU32(b, uint32(len(tx.PostConditions)))
	for _, pc := range tx.PostConditions {
		b = append(b, pc...)
	}

	return append(b, tx.Payload...)
}

// Address returns a deterministic testnet address derived from seed.
func Address(seed byte) stacks.Address {
	addr := stacks.Address{Version: stacks.AddressVersionTestnetSingleSig}
	for i := range addr.Hash160 {
		addr.Hash160[i] = seed
	}
	return addr
}

func appendAddress(b []byte, addr stacks.Address) []byte {
	b = append(b, addr.Version)
	return append(b, addr.Hash160[:]...)
}

// UIntValue serializes a Clarity uint.
func UIntValue(v uint64) []byte {
	b := []byte{0x01}
	b = append(b, make([]byte, 8)...)
	return appendU64(b, v)
}

// StringASCIIValue serializes a Clarity string-ascii.
func StringASCIIValue(s string) []byte {
	b := []byte{0x0d}
	b = appendU32(b, uint32(len(s)))
	return append(b, s...)
}

// TupleValue serializes a Clarity tuple with a single field.
func TupleValue(name string, value []byte) []byte {
	b := []byte{0x0c}
	b = appendU32(b, 1)
	b = appendShortString(b, name)
	return append(b, value...)
}

// ContractCallPayload encodes a contract-call payload.
func ContractCallPayload(addr stacks.Address, contract, function string, args ...[]byte) []byte {
	b := []byte{byte(stacks.PayloadContractCall)}
	b = appendAddress(b, addr)
	b = appendShortString(b, contract)
	b = appendShortString(b, function)
	b = appendU32(b, uint32(len(args)))
	for _, arg := range args {
		b = append(b, arg...)
	}
	return b
}

// TokenTransferPayload encodes an STX transfer to a standard principal.
func TokenTransferPayload(recipient stacks.Address, amount uint64) []byte {
	b := []byte{byte(stacks.PayloadTokenTransfer), 0x05}
	b = appendAddress(b, recipient)
	b = appendU64(b, amount)
	return append(b, make([]byte, 34)...)
}

// SmartContractPayload encodes a contract deployment.
func SmartContractPayload(name, code string) []byte {
	b := []byte{byte(stacks.PayloadSmartContract)}
	b = appendShortString(b, name)
	b = appendU32(b, uint32(len(code)))
	return append(b, code...)
}

// CoinbasePayload encodes a plain coinbase.
func CoinbasePayload() []byte {
	return append([]byte{byte(stacks.PayloadCoinbase)}, make([]byte, 32)...)
}

// STXPostCondition encodes an origin STX post condition.
func STXPostCondition(code byte, amount uint64) []byte {
	b := []byte{byte(stacks.PostConditionSTX), 0x01, code}
	return appendU64(b, amount)
}

// NFTPostCondition encodes a standard-principal NFT post condition.
func NFTPostCondition(owner, assetAddr stacks.Address, contract, asset string, value []byte, code byte) []byte {
	b := []byte{byte(stacks.PostConditionNonFungible), 0x02}
	b = appendAddress(b, owner)
	b = appendAddress(b, assetAddr)
	b = appendShortString(b, contract)
	b = appendShortString(b, asset)
	b = append(b, value...)
	return append(b, code)
}

// Decode decodes raw and fails the test on error.
func Decode(t testing.TB, raw []byte) stacks.Transaction {
	t.Helper()

	tx, err := stacks.Decode(raw)
	require.NoError(t, err)
	return tx
}

// ContractCall returns a decoded contract-call transaction targeting
// contract; nonce keeps otherwise identical fixtures distinct.
func ContractCall(t testing.TB, contract string, nonce uint64) stacks.Transaction {
	t.Helper()

	raw := Tx{
		Nonce:   nonce,
		Fee:     180,
		Signer:  Address(0x11).Hash160,
		Payload: ContractCallPayload(Address(0x22), contract, "transfer", UIntValue(nonce)),
	}.Bytes()
	return Decode(t, raw)
}

// TokenTransfer returns a decoded STX transfer transaction.
func TokenTransfer(t testing.TB, nonce uint64) stacks.Transaction {
	t.Helper()

	raw := Tx{
		Nonce:   nonce,
		Fee:     180,
		Signer:  Address(0x11).Hash160,
		Payload: TokenTransferPayload(Address(0x33), 1000+nonce),
	}.Bytes()
	return Decode(t, raw)
}
