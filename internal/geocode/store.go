// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geocode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/models"
)

const storeKeyPrefix = "geocode:"

// Store persists resolved coordinates in BadgerDB so they survive restarts.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) a store in dir.
func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20
	return openStore(opts)
}

// OpenInMemoryStore opens a store that keeps nothing on disk.
func OpenInMemoryStore() (*Store, error) {
	return openStore(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openStore(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger geocode store: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the coordinate stored under key.
func (s *Store) Get(key string) (models.Coordinate, bool, error) {
	var c models.Coordinate
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storeKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Coordinate{}, false, nil
	}
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("get geocode %q: %w", key, err)
	}
	return c, true, nil
}

// Put stores c under key. A non-positive ttl stores it without expiry.
func (s *Store) Put(key string, c models.Coordinate, ttl time.Duration) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal coordinate: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(storeKeyPrefix+key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// RunGC reclaims value log space until badger reports nothing to rewrite.
func (s *Store) RunGC() error {
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("geocode store gc: %w", err)
		}
	}
}

// RunGCLoop runs value log GC every interval until ctx is done.
func (s *Store) RunGCLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("geocode store gc failed")
			}
		}
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
