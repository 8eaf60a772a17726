package finality

import (
	"fmt"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/finality/grandpa"
	"github.com/eigerco/bridgebench/internal/finality/parachains"
	"github.com/eigerco/bridgebench/pkg/db"
)

// Store bundles the trackers of both finality schemes over one KVStore.
//
// Registration overwrites the best header of a scheme without any version
// check, so callers targeting the same scheme must not run concurrently.
type Store struct {
	grandpa    *grandpa.Tracker
	parachains *parachains.Tracker
}

// NewStore creates the trackers. directHasher is the header hasher of the
// directly finalized bridged chain.
func NewStore(kv db.KVStore, directHasher crypto.Hasher, headersToKeep uint32) *Store {
	return &Store{
		grandpa:    grandpa.NewTracker(kv, directHasher, headersToKeep),
		parachains: parachains.NewTracker(kv, headersToKeep),
	}
}

func (s *Store) Grandpa() *grandpa.Tracker {
	return s.grandpa
}

func (s *Store) Parachains() *parachains.Tracker {
	return s.parachains
}

// HeaderHasher is how headers registered under scheme are hashed.
func (s *Store) HeaderHasher(scheme Scheme) crypto.Hasher {
	if scheme.Kind == KindParachain {
		return parachains.Hasher
	}
	return s.grandpa.Hasher()
}

// RegisterFinalizedHeader makes header the best finalized header of scheme.
func (s *Store) RegisterFinalizedHeader(scheme Scheme, header block.Header) error {
	var err error
	switch scheme.Kind {
	case KindDirect:
		_, err = s.grandpa.InitializeForBenchmarks(header)
	case KindParachain:
		_, err = s.parachains.InitializeForBenchmarks(scheme.ParaID, header)
	default:
		return fmt.Errorf("unknown finality scheme %s", scheme)
	}
	return err
}

// BestFinalized returns the best finalized header of scheme.
func (s *Store) BestFinalized(scheme Scheme) (block.HeaderID, error) {
	switch scheme.Kind {
	case KindDirect:
		return s.grandpa.BestFinalized()
	case KindParachain:
		return s.parachains.BestParaHead(scheme.ParaID)
	default:
		return block.HeaderID{}, fmt.Errorf("unknown finality scheme %s", scheme)
	}
}

// StateRoot returns the state root of a finalized header of scheme.
func (s *Store) StateRoot(scheme Scheme, hash crypto.Hash) (crypto.Hash, error) {
	var (
		data block.StoredHeaderData
		err  error
	)
	switch scheme.Kind {
	case KindDirect:
		data, err = s.grandpa.FinalizedHeader(hash)
	case KindParachain:
		data, err = s.parachains.ParaHead(scheme.ParaID, hash)
	default:
		return crypto.Hash{}, fmt.Errorf("unknown finality scheme %s", scheme)
	}
	if err != nil {
		return crypto.Hash{}, err
	}
	return data.StateRoot, nil
}
