package store

import (
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/pkg/db"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

// Accounts stores one encoded record per account.
type Accounts struct {
	db db.KVStore
}

func NewAccounts(store db.KVStore) *Accounts {
	return &Accounts{db: store}
}

// Get returns the record of who. found is false for accounts never written
// or deleted.
func (a *Accounts) Get(who crypto.AccountID) (record []byte, found bool, err error) {
	record, err = a.db.Get(makeKey(prefixAccount, who[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get account %x: %w", who, err)
	}
	return record, true, nil
}

// PutAll writes records atomically. A nil record deletes the account.
func (a *Accounts) PutAll(records map[crypto.AccountID][]byte) error {
	batch := a.db.NewBatch()
	defer batch.Close()

	for who, record := range records {
		key := makeKey(prefixAccount, who[:])
		var err error
		if record == nil {
			err = batch.Delete(key)
		} else {
			err = batch.Put(key, record)
		}
		if err != nil {
			return fmt.Errorf("write account %x: %w", who, err)
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf(ErrFailedBatchCommit, err)
	}
	return nil
}

// ForEach calls fn for every stored account in key order. Iteration stops at
// the first error fn returns.
func (a *Accounts) ForEach(fn func(who crypto.AccountID, record []byte) error) error {
	iter, err := a.db.NewIterator([]byte{prefixAccount}, []byte{prefixAccount + 1})
	if err != nil {
		return fmt.Errorf("iterate accounts: %w", err)
	}
	defer iter.Close()

	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+crypto.AccountIDSize {
			continue
		}
		record, err := iter.Value()
		if err != nil {
			return fmt.Errorf("iterate accounts: %w", err)
		}
		var who crypto.AccountID
		copy(who[:], key[1:])
		if err := fn(who, record); err != nil {
			return err
		}
	}
	return nil
}
