package signer

import "errors"

var (
	// ErrInvalidEntropy indicates an unsupported mnemonic entropy size.
	ErrInvalidEntropy = errors.New("signer: entropy must be 128 or 256 bits")

	// ErrInvalidMnemonic indicates a mnemonic that fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("signer: invalid mnemonic")

	// ErrInvalidSeed indicates an empty or malformed seed.
	ErrInvalidSeed = errors.New("signer: invalid seed")

	// ErrDerivationFailed indicates a BIP32 derivation error.
	ErrDerivationFailed = errors.New("signer: key derivation failed")

	// ErrDecryptionFailed indicates the keyfile could not be decrypted.
	ErrDecryptionFailed = errors.New("signer: keyfile decryption failed")

	// ErrChecksumMismatch indicates the decrypted seed failed its
	// integrity check (almost always a wrong password).
	ErrChecksumMismatch = errors.New("signer: seed checksum mismatch")
)
