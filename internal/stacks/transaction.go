// Package stacks decodes Stacks blockchain transactions from their consensus
// wire encoding, as stored in the `tx` column of a Stacks node mempool
// database.
//
// Only the structure the mempart pipeline needs is interpreted in depth:
// the authorization header, post conditions and the payload variant. Clarity
// values are validated and kept in their serialized form.
package stacks

import (
	"crypto/sha512"
	"encoding/hex"
)

// TransactionVersion distinguishes mainnet and testnet transactions.
type TransactionVersion byte

const (
	TransactionVersionMainnet TransactionVersion = 0x00
	TransactionVersionTestnet TransactionVersion = 0x80
)

func (v TransactionVersion) String() string {
	switch v {
	case TransactionVersionMainnet:
		return "mainnet"
	case TransactionVersionTestnet:
		return "testnet"
	default:
		return "unknown"
	}
}

// AnchorMode tells miners where the transaction may be included.
type AnchorMode byte

const (
	AnchorModeOnChainOnly  AnchorMode = 0x01
	AnchorModeOffChainOnly AnchorMode = 0x02
	AnchorModeAny          AnchorMode = 0x03
)

func (m AnchorMode) String() string {
	switch m {
	case AnchorModeOnChainOnly:
		return "on_chain_only"
	case AnchorModeOffChainOnly:
		return "off_chain_only"
	case AnchorModeAny:
		return "any"
	default:
		return "unknown"
	}
}

// PostConditionMode controls whether asset transfers not covered by post
// conditions are allowed.
type PostConditionMode byte

const (
	PostConditionModeAllow PostConditionMode = 0x01
	PostConditionModeDeny  PostConditionMode = 0x02
)

func (m PostConditionMode) String() string {
	switch m {
	case PostConditionModeAllow:
		return "allow"
	case PostConditionModeDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// AuthType is the transaction authorization kind.
type AuthType byte

const (
	AuthTypeStandard  AuthType = 0x04
	AuthTypeSponsored AuthType = 0x05
)

func (a AuthType) String() string {
	switch a {
	case AuthTypeStandard:
		return "standard"
	case AuthTypeSponsored:
		return "sponsored"
	default:
		return "unknown"
	}
}

// HashMode identifies how a spending condition's signer hash was derived.
type HashMode byte

const (
	HashModeP2PKH                 HashMode = 0x00
	HashModeP2SH                  HashMode = 0x01
	HashModeP2WPKH                HashMode = 0x02
	HashModeP2WSH                 HashMode = 0x03
	HashModeOrderIndependentP2SH  HashMode = 0x05
	HashModeOrderIndependentP2WSH HashMode = 0x07
)

// singleSig reports whether the hash mode belongs to a single-signature spending condition.
func (h HashMode) singleSig() bool {
	return h == HashModeP2PKH || h == HashModeP2WPKH
}

func (h HashMode) valid() bool {
	switch h {
	case HashModeP2PKH, HashModeP2SH, HashModeP2WPKH, HashModeP2WSH,
		HashModeOrderIndependentP2SH, HashModeOrderIndependentP2WSH:
		return true
	}
	return false
}

// SpendingCondition identifies who pays for (or originates) a transaction.
type SpendingCondition struct {
	HashMode           HashMode
	Signer             [20]byte
	Nonce              uint64
	Fee                uint64
	SignaturesRequired uint16 // multisig only
}

// SignerAddress returns the signer as an address for the given network.
func (s SpendingCondition) SignerAddress(version TransactionVersion) Address {
	addr := Address{Hash160: s.Signer}
	switch {
	case version == TransactionVersionMainnet && s.HashMode.singleSig():
		addr.Version = AddressVersionMainnetSingleSig
	case version == TransactionVersionMainnet:
		addr.Version = AddressVersionMainnetMultiSig
	case s.HashMode.singleSig():
		addr.Version = AddressVersionTestnetSingleSig
	default:
		addr.Version = AddressVersionTestnetMultiSig
	}
	return addr
}

// Authorization carries the origin spending condition and, for sponsored
// transactions, the sponsor's.
type Authorization struct {
	Type    AuthType
	Origin  SpendingCondition
	Sponsor *SpendingCondition
}

// PostConditionType is the asset class a post condition constrains.
type PostConditionType byte

const (
	PostConditionSTX         PostConditionType = 0x00
	PostConditionFungible    PostConditionType = 0x01
	PostConditionNonFungible PostConditionType = 0x02
)

func (t PostConditionType) String() string {
	switch t {
	case PostConditionSTX:
		return "stx"
	case PostConditionFungible:
		return "fungible"
	case PostConditionNonFungible:
		return "non_fungible"
	default:
		return "unknown"
	}
}

// PostCondition is a decoded post condition. Asset is empty for STX
// conditions; Amount is zero for non-fungible conditions.
type PostCondition struct {
	Type          PostConditionType
	Principal     string
	ConditionCode byte
	Asset         string
	Amount        uint64
}

// Transaction is a decoded Stacks transaction. It is a value type: copies
// share the Raw backing array, which is never mutated after decoding.
type Transaction struct {
	Version           TransactionVersion
	ChainID           uint32
	Auth              Authorization
	AnchorMode        AnchorMode
	PostConditionMode PostConditionMode
	PostConditions    []PostCondition
	Payload           Payload

	// Raw holds the exact wire bytes the transaction was decoded from.
	Raw []byte
}

// TxID returns the transaction id: the SHA-512/256 digest of the wire bytes, hex encoded.
func (t Transaction) TxID() string {
	sum := sha512.Sum512_256(t.Raw)
	return hex.EncodeToString(sum[:])
}

// Sender returns the origin address.
func (t Transaction) Sender() Address {
	return t.Auth.Origin.SignerAddress(t.Version)
}
