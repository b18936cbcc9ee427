package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketDrops     = []byte("drops")
	bucketClaims    = []byte("claims")
	bucketWhitelist = []byte("whitelist")
	bucketRoles     = []byte("roles")
	bucketMeta      = []byte("meta")
)

var (
	metaKeyGlobalPause       = []byte("global_pause")
	metaKeyWhitelistEnforced = []byte("whitelist_enforced")
	metaKeyTrustedSigner     = []byte("trusted_signer")
)

// unitKeyLen is the fixed claim-bucket key width: unit identifiers are
// 256-bit values stored big-endian so keys sort numerically.
const unitKeyLen = 32

// BoltStore is a bbolt-backed Store.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDrops, bucketClaims, bucketWhitelist, bucketRoles, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// dropKey encodes a drop id as an 8-byte big-endian key for sorted storage.
func dropKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// unitKey encodes a unit identifier as a fixed-width big-endian key.
func unitKey(unit *big.Int) ([]byte, error) {
	if unit == nil || unit.Sign() < 0 || unit.BitLen() > unitKeyLen*8 {
		return nil, fmt.Errorf("%w: %v", ErrNilUnit, unit)
	}
	return unit.FillBytes(make([]byte, unitKeyLen)), nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// GetDrop retrieves a drop record by id.
func (s *BoltStore) GetDrop(dropID uint64) (*DropRecord, error) {
	var rec DropRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDrops).Get(dropKey(dropID))
		if data == nil {
			return fmt.Errorf("%w: drop %d", ErrDropNotFound, dropID)
		}
		if err := decodeGob(data, &rec); err != nil {
			return fmt.Errorf("boltstore: decode drop %d: %w", dropID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutDrop stores or overwrites a drop record.
func (s *BoltStore) PutDrop(rec *DropRecord) error {
	if rec == nil {
		return ErrNilRecord
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("boltstore: encode drop %d: %w", rec.DropID, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDrops).Put(dropKey(rec.DropID), data)
	})
}

// ListDrops returns all drop records in drop-id order.
func (s *BoltStore) ListDrops() ([]*DropRecord, error) {
	var recs []*DropRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDrops).ForEach(func(k, v []byte) error {
			var rec DropRecord
			if err := decodeGob(v, &rec); err != nil {
				return fmt.Errorf("boltstore: decode drop in list: %w", err)
			}
			recs = append(recs, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// GetClaimed returns the claimed-earnings value of a unit, zero if the
// unit has never been settled.
func (s *BoltStore) GetClaimed(unit *big.Int) (uint64, error) {
	key, err := unitKey(unit)
	if err != nil {
		return 0, err
	}
	var value uint64
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketClaims).Get(key)
		if data == nil {
			return nil
		}
		if len(data) != 8 {
			return fmt.Errorf("boltstore: claim value for unit %s has %d bytes", unit, len(data))
		}
		value = binary.BigEndian.Uint64(data)
		return nil
	})
	return value, err
}

// SetClaimed writes the claimed-earnings value for every unit in one
// transaction; either all units are updated or none.
func (s *BoltStore) SetClaimed(units []*big.Int, value uint64) error {
	keys := make([][]byte, len(units))
	for i, unit := range units {
		key, err := unitKey(unit)
		if err != nil {
			return err
		}
		keys[i] = key
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketClaims)
		for _, key := range keys {
			if err := b.Put(key, buf); err != nil {
				return fmt.Errorf("boltstore: put claim: %w", err)
			}
		}
		return nil
	})
}

// putFlag stores a boolean membership flag keyed by address. A missing
// key reads as false, so clearing deletes the entry.
func (s *BoltStore) putFlag(bucket []byte, addr [20]byte, ok bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if !ok {
			return b.Delete(addr[:])
		}
		return b.Put(addr[:], []byte{1})
	})
}

func (s *BoltStore) getFlag(bucket []byte, addr [20]byte) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(bucket).Get(addr[:]) != nil
		return nil
	})
	return ok, err
}

// SetWhitelisted sets or clears whitelist membership for addr.
func (s *BoltStore) SetWhitelisted(addr [20]byte, ok bool) error {
	return s.putFlag(bucketWhitelist, addr, ok)
}

// IsWhitelisted reports whitelist membership for addr.
func (s *BoltStore) IsWhitelisted(addr [20]byte) (bool, error) {
	return s.getFlag(bucketWhitelist, addr)
}

// SetAdmin grants or revokes the admin role for addr.
func (s *BoltStore) SetAdmin(addr [20]byte, ok bool) error {
	return s.putFlag(bucketRoles, addr, ok)
}

// IsAdmin reports admin role membership for addr.
func (s *BoltStore) IsAdmin(addr [20]byte) (bool, error) {
	return s.getFlag(bucketRoles, addr)
}

func (s *BoltStore) putMetaBool(key []byte, v bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if !v {
			return b.Delete(key)
		}
		return b.Put(key, []byte{1})
	})
}

func (s *BoltStore) getMetaBool(key []byte) (bool, error) {
	var v bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v = tx.Bucket(bucketMeta).Get(key) != nil
		return nil
	})
	return v, err
}

// SetGlobalPause sets the global pause flag.
func (s *BoltStore) SetGlobalPause(paused bool) error {
	return s.putMetaBool(metaKeyGlobalPause, paused)
}

// GlobalPaused reports the global pause flag.
func (s *BoltStore) GlobalPaused() (bool, error) {
	return s.getMetaBool(metaKeyGlobalPause)
}

// SetWhitelistEnforced sets the whitelist enforcement flag.
func (s *BoltStore) SetWhitelistEnforced(enforced bool) error {
	return s.putMetaBool(metaKeyWhitelistEnforced, enforced)
}

// WhitelistEnforced reports the whitelist enforcement flag.
func (s *BoltStore) WhitelistEnforced() (bool, error) {
	return s.getMetaBool(metaKeyWhitelistEnforced)
}

// SetTrustedSigner stores the trusted signer address.
func (s *BoltStore) SetTrustedSigner(addr [20]byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(metaKeyTrustedSigner, addr[:])
	})
}

// TrustedSigner returns the configured trusted signer address, with
// ok=false if none has been set.
func (s *BoltStore) TrustedSigner() (addr [20]byte, ok bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(metaKeyTrustedSigner)
		if len(data) != 20 {
			return nil
		}
		copy(addr[:], data)
		ok = true
		return nil
	})
	return addr, ok, err
}
