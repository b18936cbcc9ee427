package signer

import (
	"bytes"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leomcdev/CoriteNFTDrop/authz"
)

func testSeed(t *testing.T) []byte {
	t.Helper()
	mnemonic, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)
	seed, err := SeedFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	return seed
}

func TestFromSeed_Deterministic(t *testing.T) {
	seed := testSeed(t)

	a, err := FromSeed(seed, 0)
	require.NoError(t, err)
	b, err := FromSeed(seed, 0)
	require.NoError(t, err)
	assert.Equal(t, a.Address(), b.Address())
	assert.Equal(t, uint32(0), a.Index())
}

func TestFromSeed_RotationChangesAddress(t *testing.T) {
	seed := testSeed(t)

	a, err := FromSeed(seed, 0)
	require.NoError(t, err)
	b, err := FromSeed(seed, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Address(), b.Address())
	assert.Equal(t, uint32(1), b.Index())
}

func TestFromSeed_Empty(t *testing.T) {
	_, err := FromSeed(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestAuthorize(t *testing.T) {
	seed := testSeed(t)
	s, err := FromSeed(seed, 0)
	require.NoError(t, err)

	var claimant, instance [20]byte
	claimant[0] = 0xAA
	instance[0] = 0x01
	intent := &authz.ClaimUnitsIntent{
		Claimant: claimant,
		Instance: instance,
		Units:    []*big.Int{big.NewInt(1_000_000_000)},
	}

	auth, err := s.Authorize(intent)
	require.NoError(t, err)
	assert.NoError(t, authz.Verify(intent, auth, s.Address()))
}

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic(Mnemonic24Words)
	require.NoError(t, err)
	seed, err := SeedFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	_, err = GenerateMnemonic(200)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	_, err := SeedFromMnemonic("definitely not a valid mnemonic phrase", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestSeedFromMnemonic_Passphrase(t *testing.T) {
	mnemonic, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)

	plain, err := SeedFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	protected, err := SeedFromMnemonic(mnemonic, "hunter2")
	require.NoError(t, err)
	assert.False(t, bytes.Equal(plain, protected))
}

func TestEncryptDecryptSeed(t *testing.T) {
	seed := testSeed(t)

	encrypted, err := EncryptSeed(seed, "correct horse")
	require.NoError(t, err)
	assert.NotContains(t, string(encrypted), string(seed))

	decrypted, err := DecryptSeed(encrypted, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, seed, decrypted)
}

func TestDecryptSeed_WrongPassword(t *testing.T) {
	seed := testSeed(t)
	encrypted, err := EncryptSeed(seed, "correct horse")
	require.NoError(t, err)

	_, err = DecryptSeed(encrypted, "battery staple")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptSeed_Truncated(t *testing.T) {
	_, err := DecryptSeed([]byte{0x01, 0x02}, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestKeyfileRoundTrip(t *testing.T) {
	seed := testSeed(t)
	path := filepath.Join(t.TempDir(), "signer.key")

	require.NoError(t, SaveKeyfile(path, seed, "pw"))
	loaded, err := LoadKeyfile(path, "pw")
	require.NoError(t, err)
	assert.Equal(t, seed, loaded)

	// The key on disk derives the same signer address.
	a, err := FromSeed(seed, 3)
	require.NoError(t, err)
	b, err := FromSeed(loaded, 3)
	require.NoError(t, err)
	assert.Equal(t, a.Address(), b.Address())
}

func TestLoadKeyfile_Missing(t *testing.T) {
	_, err := LoadKeyfile(filepath.Join(t.TempDir(), "nope.key"), "pw")
	assert.Error(t, err)
}
