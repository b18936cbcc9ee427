// Package authz implements the detached-signer claim authorization
// protocol: a trusted signing key pre-approves a specific (claimant,
// instance, payload) tuple off-system, and the engine recomputes the
// digest over the same structured payload and checks the signature
// before any mutation.
//
// Verification is stateless; the signed payload carries no nonce or
// expiry. A replayed authorization fails downstream once the first
// execution has consumed the units or settled their baselines, but that
// protection is incidental, so authorizations should be treated as
// bearer credentials until redeemed.
package authz

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Intent type tags. Each payload shape digests under a distinct tag so
// a signature over one intent can never authorize another.
const (
	tagClaimUnits    = 0x01
	tagBuyUnits      = 0x02
	tagClaimEarnings = 0x03
)

// unitIDLen is the serialized width of a unit identifier (256 bits).
const unitIDLen = 32

// Intent is a signable claim/transfer payload.
type Intent interface {
	// Digest returns the double-SHA256 of the intent's canonical
	// serialization.
	Digest() ([]byte, error)
}

// ClaimUnitsIntent authorizes transferring custody of specific units
// to the claimant, settling their earnings baselines first.
type ClaimUnitsIntent struct {
	Claimant [20]byte
	Instance [20]byte
	Units    []*big.Int
}

// BuyUnitsIntent is ClaimUnitsIntent plus a payment the claimant must
// make into custody before receiving the units.
type BuyUnitsIntent struct {
	Claimant        [20]byte
	Instance        [20]byte
	Units           []*big.Int
	PaymentAmount   uint64
	PaymentCurrency string
}

// ClaimEarningsIntent authorizes paying out accrued earnings on units
// the claimant already owns.
type ClaimEarningsIntent struct {
	Claimant [20]byte
	Instance [20]byte
	Units    []*big.Int
	Amount   uint64
	DropID   uint64
}

// serializer accumulates the canonical big-endian layout of an intent.
type serializer struct {
	buf []byte
	err error
}

func (s *serializer) tag(t byte)      { s.buf = append(s.buf, t) }
func (s *serializer) addr(a [20]byte) { s.buf = append(s.buf, a[:]...) }
func (s *serializer) num(v uint64)    { s.buf = binary.BigEndian.AppendUint64(s.buf, v) }

func (s *serializer) units(units []*big.Int) {
	if s.err != nil {
		return
	}
	if len(units) == 0 {
		s.err = fmt.Errorf("%w: empty unit list", ErrInvalidIntent)
		return
	}
	if len(units) > math.MaxUint32 {
		s.err = fmt.Errorf("%w: %d units", ErrInvalidIntent, len(units))
		return
	}
	s.buf = binary.BigEndian.AppendUint32(s.buf, uint32(len(units)))
	for _, unit := range units {
		if unit == nil || unit.Sign() < 0 || unit.BitLen() > unitIDLen*8 {
			s.err = fmt.Errorf("%w: unit id out of range", ErrInvalidIntent)
			return
		}
		s.buf = append(s.buf, unit.FillBytes(make([]byte, unitIDLen))...)
	}
}

func (s *serializer) str(v string) {
	if s.err != nil {
		return
	}
	if len(v) > math.MaxUint16 {
		s.err = fmt.Errorf("%w: string field too long", ErrInvalidIntent)
		return
	}
	s.buf = binary.BigEndian.AppendUint16(s.buf, uint16(len(v)))
	s.buf = append(s.buf, v...)
}

func (s *serializer) digest() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	first := sha256.Sum256(s.buf)
	second := sha256.Sum256(first[:])
	return second[:], nil
}

// Digest implements Intent.
func (in *ClaimUnitsIntent) Digest() ([]byte, error) {
	s := &serializer{}
	s.tag(tagClaimUnits)
	s.addr(in.Claimant)
	s.addr(in.Instance)
	s.units(in.Units)
	return s.digest()
}

// Digest implements Intent.
func (in *BuyUnitsIntent) Digest() ([]byte, error) {
	s := &serializer{}
	s.tag(tagBuyUnits)
	s.addr(in.Claimant)
	s.addr(in.Instance)
	s.units(in.Units)
	s.num(in.PaymentAmount)
	s.str(in.PaymentCurrency)
	return s.digest()
}

// Digest implements Intent.
func (in *ClaimEarningsIntent) Digest() ([]byte, error) {
	s := &serializer{}
	s.tag(tagClaimEarnings)
	s.addr(in.Claimant)
	s.addr(in.Instance)
	s.units(in.Units)
	s.num(in.Amount)
	s.num(in.DropID)
	return s.digest()
}
