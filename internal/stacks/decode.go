package stacks

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedTransaction wraps every error returned by Decode.
var ErrMalformedTransaction = errors.New("malformed stacks transaction")

const (
	publicKeyLength = 33
	signatureLength = 65
	memoLength      = 34
	coinbaseLength  = 32
)

// multisig auth field tags.
const (
	authFieldPublicKeyCompressed   byte = 0x00
	authFieldPublicKeyUncompressed byte = 0x01
	authFieldSignatureCompressed   byte = 0x02
	authFieldSignatureUncompressed byte = 0x03
)

// post condition principal tags.
const (
	pcPrincipalOrigin   byte = 0x01
	pcPrincipalStandard byte = 0x02
	pcPrincipalContract byte = 0x03
)

// reader is a bounds-checked cursor over a byte slice.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("need %d bytes at offset %d, have %d", n, r.off, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// shortString reads a string prefixed by a one byte length.
func (r *reader) shortString() (string, error) {
	n, err := r.u8()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// longString reads a string prefixed by a four byte length.
func (r *reader) longString() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if int64(n) > int64(r.remaining()) {
		return "", fmt.Errorf("string length %d exceeds remaining %d bytes", n, r.remaining())
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) address() (Address, error) {
	var addr Address

	version, err := r.u8()
	if err != nil {
		return addr, err
	}
	hash, err := r.take(20)
	if err != nil {
		return addr, err
	}

	addr.Version = version
	copy(addr.Hash160[:], hash)
	return addr, nil
}

// Decode parses a transaction from its wire encoding. The returned
// transaction keeps a private copy of raw.
func Decode(raw []byte) (Transaction, error) {
	owned := make([]byte, len(raw))
	copy(owned, raw)

	tx, err := decode(&reader{buf: owned})
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	tx.Raw = owned
	return tx, nil
}

func decode(r *reader) (Transaction, error) {
	var tx Transaction

	version, err := r.u8()
	if err != nil {
		return tx, fmt.Errorf("version: %w", err)
	}
	tx.Version = TransactionVersion(version)
	if tx.Version != TransactionVersionMainnet && tx.Version != TransactionVersionTestnet {
		return tx, fmt.Errorf("unknown transaction version 0x%02x", version)
	}

	if tx.ChainID, err = r.u32(); err != nil {
		return tx, fmt.Errorf("chain id: %w", err)
	}

	if tx.Auth, err = decodeAuthorization(r); err != nil {
		return tx, fmt.Errorf("authorization: %w", err)
	}

	anchorMode, err := r.u8()
	if err != nil {
		return tx, fmt.Errorf("anchor mode: %w", err)
	}
	tx.AnchorMode = AnchorMode(anchorMode)
	if tx.AnchorMode < AnchorModeOnChainOnly || tx.AnchorMode > AnchorModeAny {
		return tx, fmt.Errorf("unknown anchor mode 0x%02x", anchorMode)
	}

	pcMode, err := r.u8()
	if err != nil {
		return tx, fmt.Errorf("post condition mode: %w", err)
	}
	tx.PostConditionMode = PostConditionMode(pcMode)
	if tx.PostConditionMode != PostConditionModeAllow && tx.PostConditionMode != PostConditionModeDeny {
		return tx, fmt.Errorf("unknown post condition mode 0x%02x", pcMode)
	}

	if tx.PostConditions, err = decodePostConditions(r, tx.Version); err != nil {
		return tx, fmt.Errorf("post conditions: %w", err)
	}

	if tx.Payload, err = decodePayload(r); err != nil {
		return tx, fmt.Errorf("payload: %w", err)
	}

	if r.remaining() != 0 {
		return tx, fmt.Errorf("%d trailing bytes", r.remaining())
	}

	return tx, nil
}

func decodeAuthorization(r *reader) (Authorization, error) {
	var auth Authorization

	authType, err := r.u8()
	if err != nil {
		return auth, err
	}
	auth.Type = AuthType(authType)

	if auth.Origin, err = decodeSpendingCondition(r); err != nil {
		return auth, fmt.Errorf("origin: %w", err)
	}

	switch auth.Type {
	case AuthTypeStandard:
	case AuthTypeSponsored:
		sponsor, err := decodeSpendingCondition(r)
		if err != nil {
			return auth, fmt.Errorf("sponsor: %w", err)
		}
		auth.Sponsor = &sponsor
	default:
		return auth, fmt.Errorf("unknown auth type 0x%02x", authType)
	}

	return auth, nil
}

func decodeSpendingCondition(r *reader) (SpendingCondition, error) {
	var cond SpendingCondition

	hashMode, err := r.u8()
	if err != nil {
		return cond, err
	}
	cond.HashMode = HashMode(hashMode)
	if !cond.HashMode.valid() {
		return cond, fmt.Errorf("unknown hash mode 0x%02x", hashMode)
	}

	signer, err := r.take(20)
	if err != nil {
		return cond, err
	}
	copy(cond.Signer[:], signer)

	if cond.Nonce, err = r.u64(); err != nil {
		return cond, err
	}
	if cond.Fee, err = r.u64(); err != nil {
		return cond, err
	}

	if cond.HashMode.singleSig() {
		// key encoding + recoverable signature
		if _, err := r.take(1 + signatureLength); err != nil {
			return cond, err
		}
		return cond, nil
	}

	fields, err := r.u32()
	if err != nil {
		return cond, err
	}
	for i := uint32(0); i < fields; i++ {
		tag, err := r.u8()
		if err != nil {
			return cond, err
		}

		size := 0
		switch tag {
		case authFieldPublicKeyCompressed, authFieldPublicKeyUncompressed:
			size = publicKeyLength
		case authFieldSignatureCompressed, authFieldSignatureUncompressed:
			size = signatureLength
		default:
			return cond, fmt.Errorf("unknown auth field 0x%02x", tag)
		}
		if _, err := r.take(size); err != nil {
			return cond, err
		}
	}

	if cond.SignaturesRequired, err = r.u16(); err != nil {
		return cond, err
	}
	return cond, nil
}

func decodePostConditions(r *reader, version TransactionVersion) ([]PostCondition, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	if int64(count) > int64(r.remaining()) {
		return nil, fmt.Errorf("post condition count %d exceeds remaining %d bytes", count, r.remaining())
	}

	conditions := make([]PostCondition, 0, count)
	for i := uint32(0); i < count; i++ {
		pc, err := decodePostCondition(r, version)
		if err != nil {
			return nil, fmt.Errorf("#%d: %w", i, err)
		}
		conditions = append(conditions, pc)
	}
	return conditions, nil
}

func decodePostCondition(r *reader, version TransactionVersion) (PostCondition, error) {
	var pc PostCondition

	kind, err := r.u8()
	if err != nil {
		return pc, err
	}
	pc.Type = PostConditionType(kind)

	if pc.Principal, err = decodePostConditionPrincipal(r); err != nil {
		return pc, err
	}

	switch pc.Type {
	case PostConditionSTX:
	case PostConditionFungible, PostConditionNonFungible:
		if pc.Asset, err = decodeAssetInfo(r); err != nil {
			return pc, err
		}
	default:
		return pc, fmt.Errorf("unknown post condition type 0x%02x", kind)
	}

	if pc.Type == PostConditionNonFungible {
		if _, err := readValue(r); err != nil {
			return pc, fmt.Errorf("asset value: %w", err)
		}
	}

	if pc.ConditionCode, err = r.u8(); err != nil {
		return pc, err
	}

	if pc.Type != PostConditionNonFungible {
		if pc.Amount, err = r.u64(); err != nil {
			return pc, err
		}
	}

	return pc, nil
}

func decodePostConditionPrincipal(r *reader) (string, error) {
	tag, err := r.u8()
	if err != nil {
		return "", err
	}

	switch tag {
	case pcPrincipalOrigin:
		return "origin", nil
	case pcPrincipalStandard:
		addr, err := r.address()
		if err != nil {
			return "", err
		}
		return addr.String(), nil
	case pcPrincipalContract:
		addr, err := r.address()
		if err != nil {
			return "", err
		}
		name, err := r.shortString()
		if err != nil {
			return "", err
		}
		return Principal{Address: addr, ContractName: name}.String(), nil
	default:
		return "", fmt.Errorf("unknown post condition principal 0x%02x", tag)
	}
}

// decodeAssetInfo returns the asset identifier as "<address>.<contract>::<asset>".
func decodeAssetInfo(r *reader) (string, error) {
	addr, err := r.address()
	if err != nil {
		return "", err
	}
	contract, err := r.shortString()
	if err != nil {
		return "", err
	}
	asset, err := r.shortString()
	if err != nil {
		return "", err
	}
	return addr.String() + "." + contract + "::" + asset, nil
}

func decodePayload(r *reader) (Payload, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}

	switch kind := PayloadType(tag); kind {
	case PayloadTokenTransfer:
		return decodeTokenTransfer(r)
	case PayloadSmartContract:
		name, err := r.shortString()
		if err != nil {
			return nil, err
		}
		code, err := r.longString()
		if err != nil {
			return nil, err
		}
		return SmartContract{Name: name, Code: code}, nil
	case PayloadVersionedSmartContract:
		clarityVersion, err := r.u8()
		if err != nil {
			return nil, err
		}
		name, err := r.shortString()
		if err != nil {
			return nil, err
		}
		code, err := r.longString()
		if err != nil {
			return nil, err
		}
		return VersionedSmartContract{ClarityVersion: clarityVersion, Name: name, Code: code}, nil
	case PayloadContractCall:
		return decodeContractCall(r)
	case PayloadCoinbase, PayloadCoinbaseToAltRecipient:
		return decodeCoinbase(r, kind == PayloadCoinbaseToAltRecipient)
	case PayloadPoisonMicroblock, PayloadTenureChange, PayloadNakamotoCoinbase:
		body, _ := r.take(r.remaining())
		return OpaquePayload{Kind: kind, Body: body}, nil
	default:
		return nil, fmt.Errorf("unknown payload type 0x%02x", tag)
	}
}

func decodeTokenTransfer(r *reader) (TokenTransfer, error) {
	var tt TokenTransfer

	recipient, err := readPrincipalValue(r)
	if err != nil {
		return tt, fmt.Errorf("recipient: %w", err)
	}
	tt.Recipient = recipient

	if tt.Amount, err = r.u64(); err != nil {
		return tt, err
	}

	memo, err := r.take(memoLength)
	if err != nil {
		return tt, err
	}
	copy(tt.Memo[:], memo)

	return tt, nil
}

func decodeContractCall(r *reader) (ContractCall, error) {
	var cc ContractCall
	var err error

	if cc.Address, err = r.address(); err != nil {
		return cc, err
	}
	if cc.ContractName, err = r.shortString(); err != nil {
		return cc, err
	}
	if cc.FunctionName, err = r.shortString(); err != nil {
		return cc, err
	}

	argc, err := r.u32()
	if err != nil {
		return cc, err
	}
	if int64(argc) > int64(r.remaining()) {
		return cc, fmt.Errorf("argument count %d exceeds remaining %d bytes", argc, r.remaining())
	}

	cc.Args = make([][]byte, 0, argc)
	for i := uint32(0); i < argc; i++ {
		arg, err := readValue(r)
		if err != nil {
			return cc, fmt.Errorf("argument #%d: %w", i, err)
		}
		cc.Args = append(cc.Args, arg)
	}

	return cc, nil
}

func decodeCoinbase(r *reader, withRecipient bool) (Coinbase, error) {
	var cb Coinbase

	buf, err := r.take(coinbaseLength)
	if err != nil {
		return cb, err
	}
	copy(cb.Buffer[:], buf)

	if withRecipient {
		recipient, err := readPrincipalValue(r)
		if err != nil {
			return cb, fmt.Errorf("recipient: %w", err)
		}
		cb.Recipient = &recipient
	}

	return cb, nil
}
