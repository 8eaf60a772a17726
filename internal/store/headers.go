package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/pkg/db"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

var (
	ErrHeaderNotFound = errors.New("header not found")
	ErrNoBestHeader   = errors.New("no best header")
)

// DefaultHeadersToKeep bounds how many imported headers a scope retains.
const DefaultHeadersToKeep = 1024

// Headers keeps the headers a finality tracker imported, under a scope so
// several trackers can share one KVStore. Imported headers live in a ring
// buffer of fixed capacity: importing into a full ring evicts the oldest.
type Headers struct {
	db       db.KVStore
	scope    []byte
	capacity uint32
}

// NewHeaders creates a header store for scope. A zero capacity means
// DefaultHeadersToKeep.
func NewHeaders(store db.KVStore, scope []byte, capacity uint32) *Headers {
	if capacity == 0 {
		capacity = DefaultHeadersToKeep
	}
	return &Headers{db: store, scope: append([]byte(nil), scope...), capacity: capacity}
}

// Import stores data under hash. Re-importing a known hash overwrites its
// data without taking a new ring slot.
func (h *Headers) Import(hash crypto.Hash, data block.StoredHeaderData) error {
	headerKey := makeKey(prefixImportedHeader, h.scope, hash[:])

	known, err := h.db.Has(headerKey)
	if err != nil {
		return fmt.Errorf("check header %s: %w", hash, err)
	}
	if known {
		if err := h.db.Put(headerKey, data.Bytes()); err != nil {
			return fmt.Errorf("store header %s: %w", hash, err)
		}
		return nil
	}

	pointer, err := h.ringPointer()
	if err != nil {
		return err
	}

	batch := h.db.NewBatch()
	defer batch.Close()

	slotKey := h.slotKey(pointer)
	evicted, err := h.db.Get(slotKey)
	switch {
	case err == nil:
		if err := batch.Delete(makeKey(prefixImportedHeader, h.scope, evicted)); err != nil {
			return fmt.Errorf("evict header: %w", err)
		}
	case !errors.Is(err, pebble.ErrNotFound):
		return fmt.Errorf("read ring slot %d: %w", pointer, err)
	}

	if err := batch.Put(slotKey, hash[:]); err != nil {
		return fmt.Errorf("write ring slot %d: %w", pointer, err)
	}
	if err := batch.Put(headerKey, data.Bytes()); err != nil {
		return fmt.Errorf("store header %s: %w", hash, err)
	}
	next := make([]byte, 4)
	binary.LittleEndian.PutUint32(next, (pointer+1)%h.capacity)
	if err := batch.Put(makeKey(prefixRingPointer, h.scope), next); err != nil {
		return fmt.Errorf("advance ring pointer: %w", err)
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf(ErrFailedBatchCommit, err)
	}
	return nil
}

// Get returns the data of an imported header.
func (h *Headers) Get(hash crypto.Hash) (block.StoredHeaderData, error) {
	b, err := h.db.Get(makeKey(prefixImportedHeader, h.scope, hash[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return block.StoredHeaderData{}, fmt.Errorf("%w: %s", ErrHeaderNotFound, hash)
		}
		return block.StoredHeaderData{}, fmt.Errorf("get header %s: %w", hash, err)
	}
	return block.StoredHeaderDataFromBytes(b)
}

// SetBest overwrites the best header of the scope.
func (h *Headers) SetBest(id block.HeaderID) error {
	v := make([]byte, 4+crypto.HashSize)
	binary.LittleEndian.PutUint32(v, uint32(id.Number))
	copy(v[4:], id.Hash[:])
	if err := h.db.Put(makeKey(prefixBestHeader, h.scope), v); err != nil {
		return fmt.Errorf("store best header: %w", err)
	}
	return nil
}

func (h *Headers) Best() (block.HeaderID, error) {
	v, err := h.db.Get(makeKey(prefixBestHeader, h.scope))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return block.HeaderID{}, ErrNoBestHeader
		}
		return block.HeaderID{}, fmt.Errorf("get best header: %w", err)
	}
	if len(v) != 4+crypto.HashSize {
		return block.HeaderID{}, fmt.Errorf("best header record has %d bytes", len(v))
	}
	return block.HeaderID{
		Number: block.Number(binary.LittleEndian.Uint32(v)),
		Hash:   crypto.Hash(v[4:]),
	}, nil
}

func (h *Headers) ringPointer() (uint32, error) {
	v, err := h.db.Get(makeKey(prefixRingPointer, h.scope))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read ring pointer: %w", err)
	}
	if len(v) != 4 {
		return 0, fmt.Errorf("ring pointer has %d bytes", len(v))
	}
	return binary.LittleEndian.Uint32(v) % h.capacity, nil
}

func (h *Headers) slotKey(i uint32) []byte {
	idx := make([]byte, 4)
	binary.LittleEndian.PutUint32(idx, i)
	return makeKey(prefixRingSlot, h.scope, idx)
}
