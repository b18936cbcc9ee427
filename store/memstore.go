package store

import (
	"fmt"
	"math/big"
	"sync"
)

// MemStore is an in-memory Store for tests and dry runs. All maps are
// guarded by one mutex; values returned are copies.
type MemStore struct {
	mu sync.Mutex

	drops     map[uint64]DropRecord
	claims    map[string]uint64 // key: unit decimal string
	whitelist map[[20]byte]bool
	roles     map[[20]byte]bool

	globalPause       bool
	whitelistEnforced bool
	signer            [20]byte
	signerSet         bool
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		drops:     make(map[uint64]DropRecord),
		claims:    make(map[string]uint64),
		whitelist: make(map[[20]byte]bool),
		roles:     make(map[[20]byte]bool),
	}
}

// GetDrop retrieves a drop record by id.
func (s *MemStore) GetDrop(dropID uint64) (*DropRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.drops[dropID]
	if !ok {
		return nil, fmt.Errorf("%w: drop %d", ErrDropNotFound, dropID)
	}
	return &rec, nil
}

// PutDrop stores or overwrites a drop record.
func (s *MemStore) PutDrop(rec *DropRecord) error {
	if rec == nil {
		return ErrNilRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops[rec.DropID] = *rec
	return nil
}

// ListDrops returns all drop records in unspecified order.
func (s *MemStore) ListDrops() ([]*DropRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]*DropRecord, 0, len(s.drops))
	for _, rec := range s.drops {
		r := rec
		recs = append(recs, &r)
	}
	return recs, nil
}

// GetClaimed returns the claimed-earnings value of a unit, zero if the
// unit has never been settled.
func (s *MemStore) GetClaimed(unit *big.Int) (uint64, error) {
	if unit == nil {
		return 0, ErrNilUnit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims[unit.String()], nil
}

// SetClaimed writes the claimed-earnings value for every unit.
func (s *MemStore) SetClaimed(units []*big.Int, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, unit := range units {
		if unit == nil {
			return ErrNilUnit
		}
	}
	for _, unit := range units {
		s.claims[unit.String()] = value
	}
	return nil
}

// SetWhitelisted sets or clears whitelist membership for addr.
func (s *MemStore) SetWhitelisted(addr [20]byte, ok bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		delete(s.whitelist, addr)
		return nil
	}
	s.whitelist[addr] = true
	return nil
}

// IsWhitelisted reports whitelist membership for addr.
func (s *MemStore) IsWhitelisted(addr [20]byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.whitelist[addr], nil
}

// SetAdmin grants or revokes the admin role for addr.
func (s *MemStore) SetAdmin(addr [20]byte, ok bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		delete(s.roles, addr)
		return nil
	}
	s.roles[addr] = true
	return nil
}

// IsAdmin reports admin role membership for addr.
func (s *MemStore) IsAdmin(addr [20]byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles[addr], nil
}

// SetGlobalPause sets the global pause flag.
func (s *MemStore) SetGlobalPause(paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalPause = paused
	return nil
}

// GlobalPaused reports the global pause flag.
func (s *MemStore) GlobalPaused() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalPause, nil
}

// SetWhitelistEnforced sets the whitelist enforcement flag.
func (s *MemStore) SetWhitelistEnforced(enforced bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelistEnforced = enforced
	return nil
}

// WhitelistEnforced reports the whitelist enforcement flag.
func (s *MemStore) WhitelistEnforced() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.whitelistEnforced, nil
}

// SetTrustedSigner stores the trusted signer address.
func (s *MemStore) SetTrustedSigner(addr [20]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signer = addr
	s.signerSet = true
	return nil
}

// TrustedSigner returns the configured trusted signer address, with
// ok=false if none has been set.
func (s *MemStore) TrustedSigner() ([20]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signer, s.signerSet, nil
}
