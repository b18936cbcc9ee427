// Package signer is the off-system half of the claim authorization
// protocol: tooling for the trusted co-signer that pre-approves claim
// and purchase intents. Signer keys derive from a BIP39 seed along
//
//	m/44'/236'/9'/0/{index}
//
// so the trusted signer can be rotated by bumping the index and
// re-registering the new address with the engine, without touching the
// seed backup.
package signer

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/leomcdev/CoriteNFTDrop/authz"
)

const (
	// BIP44 path constants for the signer chain.
	purposeBIP44  = 44
	coinType      = 236
	signerAccount = 9

	// hardened is the BIP32 hardened derivation offset.
	hardened = 0x80000000
)

// Signer holds one derived trusted-signer key.
type Signer struct {
	priv  *ec.PrivateKey
	index uint32
}

// FromSeed derives the signer at the given rotation index from a
// BIP39 seed.
func FromSeed(seed []byte, index uint32) (*Signer, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	master, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	current := master
	for _, child := range []uint32{
		purposeBIP44 + hardened,
		coinType + hardened,
		signerAccount + hardened,
		0,
		index,
	} {
		current, err = current.Child(child)
		if err != nil {
			return nil, fmt.Errorf("%w: child %d: %w", ErrDerivationFailed, child, err)
		}
	}
	priv, err := current.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract EC key: %w", ErrDerivationFailed, err)
	}
	return &Signer{priv: priv, index: index}, nil
}

// FromPrivateKey wraps an existing key, for tests and external key
// management.
func FromPrivateKey(priv *ec.PrivateKey) *Signer {
	return &Signer{priv: priv}
}

// Index returns the rotation index this signer was derived at.
func (s *Signer) Index() uint32 { return s.index }

// Address returns the 20-byte signer address to register with the
// engine via SetTrustedSigner.
func (s *Signer) Address() [20]byte {
	return authz.AddressFromPubKey(s.priv.PubKey())
}

// Authorize signs an intent, producing the detached authorization the
// claimant submits with the claim call.
func (s *Signer) Authorize(intent authz.Intent) (*authz.Authorization, error) {
	return authz.Sign(intent, s.priv)
}
