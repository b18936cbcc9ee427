package authz

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// CompressedPubKeyLen is the expected length of a compressed public key.
const CompressedPubKeyLen = 33

// Authorization carries the detached signature components produced
// off-system by the trusted signer: the signer's compressed public key
// and a DER-encoded ECDSA signature over the intent digest.
type Authorization struct {
	PubKey []byte // 33-byte compressed public key
	SigDER []byte // DER-encoded ECDSA signature
}

// AddressFromPubKey returns the 20-byte address (Hash160 of the
// compressed encoding) of a public key.
func AddressFromPubKey(pub *ec.PublicKey) [20]byte {
	var addr [20]byte
	copy(addr[:], bsvhash.Hash160(pub.Compressed()))
	return addr
}

// Sign produces an Authorization for the intent with the given private
// key. This is the off-system half of the protocol, exported for the
// signer tooling and tests.
func Sign(intent Intent, priv *ec.PrivateKey) (*Authorization, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidIntent)
	}
	digest, err := intent.Digest()
	if err != nil {
		return nil, err
	}
	sig, err := priv.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("authz: sign intent: %w", err)
	}
	return &Authorization{
		PubKey: priv.PubKey().Compressed(),
		SigDER: sig.Serialize(),
	}, nil
}

// Verify checks that auth is a valid signature over the intent's
// digest and that the signing key's address equals trustedSigner. It
// performs no state changes and must run before any mutation in the
// same call. Every failure mode maps to ErrInvalidSignature so callers
// cannot distinguish a forged signature from a rotated signer.
func Verify(intent Intent, auth *Authorization, trustedSigner [20]byte) error {
	if auth == nil || len(auth.PubKey) != CompressedPubKeyLen || len(auth.SigDER) == 0 {
		return fmt.Errorf("%w: malformed authorization", ErrInvalidSignature)
	}
	digest, err := intent.Digest()
	if err != nil {
		return err
	}
	pub, err := ec.PublicKeyFromBytes(auth.PubKey)
	if err != nil {
		return fmt.Errorf("%w: parse public key: %w", ErrInvalidSignature, err)
	}
	sig, err := ec.ParseDERSignature(auth.SigDER)
	if err != nil {
		return fmt.Errorf("%w: parse signature: %w", ErrInvalidSignature, err)
	}
	if !sig.Verify(digest, pub) {
		return fmt.Errorf("%w: signature does not match digest", ErrInvalidSignature)
	}
	if AddressFromPubKey(pub) != trustedSigner {
		return fmt.Errorf("%w: signer is not the trusted signer", ErrInvalidSignature)
	}
	return nil
}
