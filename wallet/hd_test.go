package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testHDWallet(t *testing.T) *HDWallet {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	w, err := NewHDWallet(seed, &MainNet)
	require.NoError(t, err)
	return w
}

func TestNewHDWalletRejectsEmptySeed(t *testing.T) {
	_, err := NewHDWallet(nil, &MainNet)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestDerivationIsDeterministic(t *testing.T) {
	a := testHDWallet(t)
	b := testHDWallet(t)

	keyA, err := a.DeriveReceiveKey(0)
	require.NoError(t, err)
	keyB, err := b.DeriveReceiveKey(0)
	require.NoError(t, err)

	assert.Equal(t, keyA.WIF(), keyB.WIF())
	assert.Equal(t, keyA.PublicKeyHex(), keyB.PublicKeyHex())
}

func TestDistinctIndicesYieldDistinctKeys(t *testing.T) {
	w := testHDWallet(t)

	seen := make(map[string]bool)
	for i := uint32(0); i < 5; i++ {
		key, err := w.DeriveReceiveKey(i)
		require.NoError(t, err)
		pub := key.PublicKeyHex()
		assert.False(t, seen[pub], "index %d repeated a key", i)
		seen[pub] = true
	}
}

func TestReceiveAndChangeChainsDiffer(t *testing.T) {
	w := testHDWallet(t)

	receive, err := w.DeriveReceiveKey(0)
	require.NoError(t, err)
	change, err := w.DeriveChangeKey(0)
	require.NoError(t, err)

	assert.NotEqual(t, receive.PublicKeyHex(), change.PublicKeyHex())
}

func TestDistinctAccountsDiffer(t *testing.T) {
	w := testHDWallet(t)

	acct0, err := w.DeriveKey(0, ExternalChain, 0)
	require.NoError(t, err)
	acct1, err := w.DeriveKey(1, ExternalChain, 0)
	require.NoError(t, err)

	assert.NotEqual(t, acct0.PublicKeyHex(), acct1.PublicKeyHex())
}

func TestDeriveKeyRejectsHardenedAccount(t *testing.T) {
	w := testHDWallet(t)

	_, err := w.DeriveKey(Hardened, ExternalChain, 0)
	assert.ErrorIs(t, err, ErrDerivationFailed)
}

func TestDerivedKeysInheritNetwork(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	w, err := NewHDWallet(seed, &TestNet)
	require.NoError(t, err)

	key, err := w.DeriveReceiveKey(0)
	require.NoError(t, err)
	assert.Equal(t, "testnet", key.Network().Name)

	addr, err := key.CashAddr()
	require.NoError(t, err)
	assert.Contains(t, addr, "bchtest:")
}

func TestPath(t *testing.T) {
	assert.Equal(t, "m/44'/145'/0'/0/0", Path(0, ExternalChain, 0))
	assert.Equal(t, "m/44'/145'/2'/1/7", Path(2, InternalChain, 7))
}
