// Package grandpa tracks finalized headers of a bridged chain that is
// finalized directly by its own voting gadget.
package grandpa

import (
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/store"
	"github.com/eigerco/bridgebench/pkg/db"
	"github.com/eigerco/bridgebench/pkg/log"
)

var (
	ErrNotInitialized = errors.New("bridged chain is not initialized")
	ErrUnknownHeader  = errors.New("header is unknown or has been pruned")
)

var scope = []byte("grandpa")

// Tracker keeps the best finalized header and the imported headers of one
// bridged chain.
type Tracker struct {
	headers *store.Headers
	hasher  crypto.Hasher
}

// NewTracker creates a tracker for a chain whose headers are hashed with
// hasher. headersToKeep bounds the imported header ring, zero picks the
// store default.
func NewTracker(kv db.KVStore, hasher crypto.Hasher, headersToKeep uint32) *Tracker {
	return &Tracker{
		headers: store.NewHeaders(kv, scope, headersToKeep),
		hasher:  hasher,
	}
}

func (t *Tracker) Hasher() crypto.Hasher {
	return t.hasher
}

// InitializeForBenchmarks imports header and makes it the best finalized
// header, overwriting whatever was there. No justification is checked.
func (t *Tracker) InitializeForBenchmarks(header block.Header) (block.HeaderID, error) {
	id := header.ID(t.hasher)
	if err := t.headers.Import(id.Hash, header.StoredData()); err != nil {
		return block.HeaderID{}, fmt.Errorf("import header %s: %w", id.Hash, err)
	}
	if err := t.headers.SetBest(id); err != nil {
		return block.HeaderID{}, err
	}

	log.Finality.Debug().
		Str("hash", id.Hash.String()).
		Uint32("number", uint32(id.Number)).
		Str("state_root", header.StateRoot.String()).
		Msg("initialized bridged chain")

	return id, nil
}

// BestFinalized returns the best finalized header.
func (t *Tracker) BestFinalized() (block.HeaderID, error) {
	id, err := t.headers.Best()
	if err != nil {
		if errors.Is(err, store.ErrNoBestHeader) {
			return block.HeaderID{}, ErrNotInitialized
		}
		return block.HeaderID{}, err
	}
	return id, nil
}

// FinalizedHeader returns what was stored for an imported header.
func (t *Tracker) FinalizedHeader(hash crypto.Hash) (block.StoredHeaderData, error) {
	data, err := t.headers.Get(hash)
	if err != nil {
		if errors.Is(err, store.ErrHeaderNotFound) {
			return block.StoredHeaderData{}, fmt.Errorf("%w: %s", ErrUnknownHeader, hash)
		}
		return block.StoredHeaderData{}, err
	}
	return data, nil
}
