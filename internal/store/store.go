// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

// Package store provides the BadgerDB-backed document store for Attune.
//
// Collections are modeled as key prefixes over a single Badger keyspace;
// documents are JSON-encoded values. Point reads use Get, per-user and
// catalog listings use prefix iteration.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/attune-app/attune/internal/logging"
)

// Collection key prefixes.
const (
	userKeyPrefix       = "user:"
	responseKeyPrefix   = "response:"   // response:{uid}:{responseID}
	contentKeyPrefix    = "content:"    // content:{contentID}
	programKeyPrefix    = "program:"    // program:{programID}
	activityKeyPrefix   = "activity:"   // activity:{uid}:{contentID}
	enrollmentKeyPrefix = "enrollment:" // enrollment:{uid}:{programID}
	recKeyPrefix        = "rec:"        // rec:{uid}:{runKey}
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the BadgerDB-backed document store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store at the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's default logger is noisy; we log open/close ourselves
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	logger := logging.WithComponent("store")
	logger.Info().Str("dir", dir).Msg("store opened")
	return &Store{db: db}, nil
}

// OpenInMemory opens an in-memory store, used by tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// get reads the value at key and passes it to decode.
func (s *Store) get(key string, decode func([]byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(decode)
	})
}

// put writes the encoded value at key in a single-key transaction.
func (s *Store) put(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// scanPrefix iterates all values under prefix, passing each raw value to fn.
func (s *Store) scanPrefix(prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
