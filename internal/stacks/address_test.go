package stacks

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name     string
		version  byte
		hash     string
		expected string
	}{
		{
			name:     "mainnet boot address",
			version:  AddressVersionMainnetSingleSig,
			hash:     "0000000000000000000000000000000000000000",
			expected: "SP000000000000000000002Q6VF78",
		},
		{
			name:     "testnet boot address",
			version:  AddressVersionTestnetSingleSig,
			hash:     "0000000000000000000000000000000000000000",
			expected: "ST000000000000000000002AMW42H",
		},
		{
			name:     "mainnet single sig",
			version:  AddressVersionMainnetSingleSig,
			hash:     "a46ff88886c2ef9762d970b4d2c63678835bd39d",
			expected: "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7",
		},
		{
			name:     "testnet single sig",
			version:  AddressVersionTestnetSingleSig,
			hash:     "0102030405060708090a0b0c0d0e0f1011121314",
			expected: "STG40R40M30E209185GR38E1W8124GK2HKSRMTB",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := hex.DecodeString(tc.hash)
			require.NoError(t, err)

			addr := Address{Version: tc.version}
			copy(addr.Hash160[:], raw)

			assert.Equal(t, tc.expected, addr.String())
			assert.Equal(t, tc.hash, addr.HashHex())
		})
	}
}

func TestPrincipal_String(t *testing.T) {
	addr := Address{Version: AddressVersionMainnetSingleSig}

	t.Run("standard principal", func(t *testing.T) {
		assert.Equal(t, "SP000000000000000000002Q6VF78", Principal{Address: addr}.String())
	})

	t.Run("contract principal", func(t *testing.T) {
		p := Principal{Address: addr, ContractName: "pox-4"}
		assert.Equal(t, "SP000000000000000000002Q6VF78.pox-4", p.String())
	})
}
