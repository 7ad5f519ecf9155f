package storage

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/jacokyle01/rating-features/models"
)

// Storage keys
const (
	keyEvalPrefix = "eval:"
)

// Storage wraps BadgerDB for persistent engine evaluations
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetEvaluation loads a cached evaluation
func (s *Storage) GetEvaluation(key string) (models.Evaluation, bool, error) {
	var ev models.Evaluation
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyEvalPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ev)
		})
	})

	return ev, found, err
}

// PutEvaluation saves an evaluation
func (s *Storage) PutEvaluation(key string, ev models.Evaluation) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyEvalPrefix+key), data)
	})
}

// CountEvaluations returns the number of stored evaluations
func (s *Storage) CountEvaluations() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyEvalPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
