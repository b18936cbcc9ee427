package signer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/crypto/argon2"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128
	Mnemonic24Words = 256

	// Argon2id parameters for seed encryption.
	argon2Time        = 3
	argon2Memory      = 64 * 1024 // 64 MB
	argon2Parallelism = 4
	argon2KeyLen      = 32

	// Encryption format sizes.
	saltLen     = 16
	nonceLen    = 12
	checksumLen = 4
)

// GenerateMnemonic creates a new BIP39 mnemonic with the specified
// entropy bits (Mnemonic12Words or Mnemonic24Words).
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("signer: generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("signer: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// SeedFromMnemonic derives the 64-byte BIP39 seed from a mnemonic and
// optional passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("signer: derive seed: %w", err)
	}
	return seed, nil
}

// EncryptSeed encrypts the seed with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(key, nonce, seed||checksum)
// where key = argon2id(password, salt) and checksum = SHA256(seed)[:4].
func EncryptSeed(seed []byte, password string) ([]byte, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("signer: generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	seedHash := sha256.Sum256(seed)
	plaintext := make([]byte, 0, len(seed)+checksumLen)
	plaintext = append(plaintext, seed...)
	plaintext = append(plaintext, seedHash[:checksumLen]...)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("signer: AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("signer: GCM: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("signer: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	result := make([]byte, 0, saltLen+nonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// DecryptSeed reverses EncryptSeed and verifies the seed checksum.
func DecryptSeed(encrypted []byte, password string) ([]byte, error) {
	if len(encrypted) < saltLen+nonceLen+checksumLen {
		return nil, ErrDecryptionFailed
	}
	salt := encrypted[:saltLen]
	nonce := encrypted[saltLen : saltLen+nonceLen]
	ciphertext := encrypted[saltLen+nonceLen:]

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(plaintext) < checksumLen {
		return nil, ErrDecryptionFailed
	}

	seed := plaintext[:len(plaintext)-checksumLen]
	storedChecksum := plaintext[len(plaintext)-checksumLen:]
	seedHash := sha256.Sum256(seed)
	for i := 0; i < checksumLen; i++ {
		if storedChecksum[i] != seedHash[i] {
			return nil, ErrChecksumMismatch
		}
	}
	return seed, nil
}

// SaveKeyfile encrypts the seed and writes it to path with owner-only
// permissions.
func SaveKeyfile(path string, seed []byte, password string) error {
	encrypted, err := EncryptSeed(seed, password)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		return fmt.Errorf("signer: write keyfile: %w", err)
	}
	return nil
}

// LoadKeyfile reads and decrypts a keyfile written by SaveKeyfile.
func LoadKeyfile(path string, password string) ([]byte, error) {
	encrypted, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("signer: read keyfile: %w", err)
	}
	return DecryptSeed(encrypted, password)
}
