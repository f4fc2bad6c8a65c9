package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	quotesBucket = []byte("quotes")

	errNoBucket = errors.New("quotes bucket missing")
)

// boltStore maps series keys to an 8-byte big-endian expiry in unix nanoseconds
// followed by the amount text. Reads never write; expired keys are removed by a
// periodic sweep that piggybacks on RecordAmount.
type boltStore struct {
	db       *bolt.DB
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	sweepMu   sync.Mutex
	nextSweep time.Time
}

func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(quotesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create quotes bucket: %w", err)
	}

	s := &boltStore{
		db:       db,
		ttl:      opts.QuoteTTL,
		interval: opts.CleanupInterval,
		now:      time.Now,
	}
	s.nextSweep = s.now().Add(s.interval)
	return s, nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

// LastAmount returns the amount recorded for key if it has not yet expired.
func (s *boltStore) LastAmount(key string) (string, bool, error) {
	now := s.now()
	var (
		amount string
		ok     bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(quotesBucket)
		if b == nil {
			return errNoBucket
		}
		v := b.Get([]byte(key))
		if live(v, now) {
			amount, ok = string(v[8:]), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("lookup amount: %w", err)
	}
	return amount, ok, nil
}

// RecordAmount stores amount as the latest for key, valid for the configured TTL.
func (s *boltStore) RecordAmount(key, amount string) error {
	now := s.now()
	if err := s.sweepIfDue(now); err != nil {
		return err
	}

	v := make([]byte, 8, 8+len(amount))
	binary.BigEndian.PutUint64(v, uint64(now.Add(s.ttl).UnixNano()))
	v = append(v, amount...)
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(quotesBucket)
		if b == nil {
			return errNoBucket
		}
		return b.Put([]byte(key), v)
	})
	if err != nil {
		return fmt.Errorf("record amount: %w", err)
	}
	return nil
}

func (s *boltStore) sweepIfDue(now time.Time) error {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if now.Before(s.nextSweep) {
		return nil
	}
	if err := s.sweep(now); err != nil {
		return err
	}
	s.nextSweep = now.Add(s.interval)
	return nil
}

// sweep deletes every expired or malformed entry. Keys are copied out before
// deletion because bbolt slices are only valid until the bucket is modified.
func (s *boltStore) sweep(now time.Time) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(quotesBucket)
		if b == nil {
			return errNoBucket
		}
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if !live(v, now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired quotes: %w", err)
	}
	return nil
}

// live reports whether v starts with an expiry later than now.
func live(v []byte, now time.Time) bool {
	if len(v) < 8 {
		return false
	}
	return int64(binary.BigEndian.Uint64(v[:8])) > now.UnixNano()
}
