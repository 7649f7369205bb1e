package stacks

import (
	"crypto/sha256"
	"encoding/hex"
)

// c32Alphabet is the Crockford base32 alphabet used by Stacks addresses.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address versions used on mainnet and testnet.
const (
	AddressVersionMainnetSingleSig byte = 22
	AddressVersionMainnetMultiSig  byte = 20
	AddressVersionTestnetSingleSig byte = 26
	AddressVersionTestnetMultiSig  byte = 21
)

// Address is a Stacks account address: a version byte plus a 20-byte hash160.
type Address struct {
	Version byte
	Hash160 [20]byte
}

// String renders the address in c32check form (e.g. "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7").
func (a Address) String() string {
	payload := make([]byte, 0, 1+len(a.Hash160))
	payload = append(payload, a.Version)
	payload = append(payload, a.Hash160[:]...)

	first := sha256.Sum256(payload)
	checksum := sha256.Sum256(first[:])

	data := make([]byte, 0, len(a.Hash160)+4)
	data = append(data, a.Hash160[:]...)
	data = append(data, checksum[:4]...)

	return "S" + string(c32Alphabet[a.Version&0x1f]) + c32Encode(data)
}

// HashHex returns the hash160 as lowercase hex.
func (a Address) HashHex() string {
	return hex.EncodeToString(a.Hash160[:])
}

// c32Encode encodes input as big-endian base32 using the c32 alphabet,
// preserving leading zero bytes as leading '0' characters.
func c32Encode(input []byte) string {
	out := make([]byte, 0, len(input)*8/5+2)

	var (
		carry     byte
		carryBits uint
	)
	for i := len(input) - 1; i >= 0; i-- {
		current := input[i]

		lowBitsToTake := 5 - carryBits
		lowBits := current & ((1 << lowBitsToTake) - 1)
		out = append(out, c32Alphabet[(lowBits<<carryBits)+carry])

		carryBits = 8 + carryBits - 5
		carry = current >> (8 - carryBits)

		if carryBits >= 5 {
			out = append(out, c32Alphabet[carry&0x1f])
			carryBits -= 5
			carry >>= 5
		}
	}
	if carryBits > 0 {
		out = append(out, c32Alphabet[carry])
	}

	for len(out) > 0 && out[len(out)-1] == c32Alphabet[0] {
		out = out[:len(out)-1]
	}
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, c32Alphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
