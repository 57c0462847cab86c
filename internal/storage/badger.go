package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBlobStore is a BlobStore backed by BadgerDB.
type BadgerBlobStore struct {
	db     *badger.DB
	dbPath string
}

// NewBadgerBlobStore opens (or creates) a Badger database in dirPath.
func NewBadgerBlobStore(dirPath string) (*BadgerBlobStore, error) {
	opts := badger.DefaultOptions(dirPath).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob database: %w", err)
	}

	return &BadgerBlobStore{
		db:     db,
		dbPath: dirPath,
	}, nil
}

// Read returns the stored value and whether the key exists.
func (b *BadgerBlobStore) Read(key string) ([]byte, bool, error) {
	if b.db == nil {
		return nil, false, ErrUnavailable
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	return value, true, nil
}

// AtomicWrite replaces the value stored under key.
func (b *BadgerBlobStore) AtomicWrite(key string, data []byte) error {
	if b.db == nil {
		return ErrUnavailable
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Close closes the Badger instance.
func (b *BadgerBlobStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
