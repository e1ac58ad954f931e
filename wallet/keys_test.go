package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bchwalletorg/libbchwallet-go/cashaddr"
)

func TestNewKeyGeneratesDistinctKeys(t *testing.T) {
	a, err := NewKey(&RegTest)
	require.NoError(t, err)
	b, err := NewKey(&RegTest)
	require.NoError(t, err)

	assert.NotEqual(t, a.WIF(), b.WIF())
	assert.NotEqual(t, a.PublicKeyHex(), b.PublicKeyHex())
}

func TestWIFRoundTrip(t *testing.T) {
	key, err := NewKey(&MainNet)
	require.NoError(t, err)

	imported, err := FromWIF(key.WIF(), &MainNet)
	require.NoError(t, err)

	assert.Equal(t, key.PublicKeyHex(), imported.PublicKeyHex())

	addrA, err := key.CashAddr()
	require.NoError(t, err)
	addrB, err := imported.CashAddr()
	require.NoError(t, err)
	assert.Equal(t, addrA, addrB)
}

func TestFromWIFInvalid(t *testing.T) {
	for _, wif := range []string{"", "notawif", "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU70000000"} {
		_, err := FromWIF(wif, &MainNet)
		assert.ErrorIs(t, err, ErrInvalidWIF, "wif %q", wif)
	}
}

func TestCashAddrUsesNetworkPrefix(t *testing.T) {
	tests := []struct {
		network *NetworkConfig
		prefix  string
	}{
		{&MainNet, "bitcoincash:"},
		{&TestNet, "bchtest:"},
		{&RegTest, "bchreg:"},
	}
	for _, tc := range tests {
		t.Run(tc.network.Name, func(t *testing.T) {
			key, err := NewKey(tc.network)
			require.NoError(t, err)

			addr, err := key.CashAddr()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(addr, tc.prefix), "addr %q", addr)
		})
	}
}

func TestCashAddrEncodesPubKeyHash(t *testing.T) {
	key, err := NewKey(&MainNet)
	require.NoError(t, err)

	addr, err := key.CashAddr()
	require.NoError(t, err)

	prefix, addrType, hash, err := cashaddr.Decode(addr)
	require.NoError(t, err)
	assert.Equal(t, cashaddr.MainnetPrefix, prefix)
	assert.Equal(t, cashaddr.P2PKH, addrType)

	wantHash, err := key.PubKeyHash()
	require.NoError(t, err)
	assert.Equal(t, wantHash, hash)
}

func TestLegacyAddress(t *testing.T) {
	key, err := NewKey(&MainNet)
	require.NoError(t, err)

	legacy, err := key.LegacyAddress()
	require.NoError(t, err)
	assert.NotEmpty(t, legacy)
	assert.True(t, strings.HasPrefix(legacy, "1"), "mainnet P2PKH addresses start with 1, got %q", legacy)
}

func TestPubKeyHashLength(t *testing.T) {
	key, err := NewKey(&TestNet)
	require.NoError(t, err)

	hash, err := key.PubKeyHash()
	require.NoError(t, err)
	assert.Len(t, hash, cashaddr.Hash160Len)
}
