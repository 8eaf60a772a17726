// Package parachains tracks heads of parachains finalized through a relay
// chain.
package parachains

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/store"
	"github.com/eigerco/bridgebench/pkg/db"
	"github.com/eigerco/bridgebench/pkg/log"
)

var (
	ErrUnknownParachain = errors.New("unknown parachain")
	ErrUnknownParaHead  = errors.New("parachain head is unknown or has been pruned")
)

// ParaID identifies a parachain.
type ParaID uint32

// Hasher is how every parachain header is hashed.
const Hasher = crypto.Blake2_256

// Tracker keeps, per parachain, the best head and the imported heads.
type Tracker struct {
	kv            db.KVStore
	headersToKeep uint32

	mu    sync.Mutex
	heads map[ParaID]*store.Headers
}

func NewTracker(kv db.KVStore, headersToKeep uint32) *Tracker {
	return &Tracker{
		kv:            kv,
		headersToKeep: headersToKeep,
		heads:         make(map[ParaID]*store.Headers),
	}
}

func (t *Tracker) headsOf(id ParaID) *store.Headers {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, ok := t.heads[id]
	if !ok {
		s := make([]byte, 0, 9)
		s = append(s, "para"...)
		s = binary.LittleEndian.AppendUint32(s, uint32(id))
		h = store.NewHeaders(t.kv, s, t.headersToKeep)
		t.heads[id] = h
	}
	return h
}

// InitializeForBenchmarks imports header as the best head of id,
// overwriting whatever was there. No relay chain proof is checked.
func (t *Tracker) InitializeForBenchmarks(id ParaID, header block.Header) (block.HeaderID, error) {
	heads := t.headsOf(id)
	head := header.ID(Hasher)

	if err := heads.Import(head.Hash, header.StoredData()); err != nil {
		return block.HeaderID{}, fmt.Errorf("import head of parachain %d: %w", id, err)
	}
	if err := heads.SetBest(head); err != nil {
		return block.HeaderID{}, err
	}

	log.Finality.Debug().
		Uint32("para_id", uint32(id)).
		Str("hash", head.Hash.String()).
		Str("state_root", header.StateRoot.String()).
		Msg("initialized parachain head")

	return head, nil
}

// BestParaHead returns the best head of id.
func (t *Tracker) BestParaHead(id ParaID) (block.HeaderID, error) {
	head, err := t.headsOf(id).Best()
	if err != nil {
		if errors.Is(err, store.ErrNoBestHeader) {
			return block.HeaderID{}, fmt.Errorf("%w: %d", ErrUnknownParachain, id)
		}
		return block.HeaderID{}, err
	}
	return head, nil
}

// ParaHead returns what was stored for an imported head of id.
func (t *Tracker) ParaHead(id ParaID, hash crypto.Hash) (block.StoredHeaderData, error) {
	data, err := t.headsOf(id).Get(hash)
	if err != nil {
		if errors.Is(err, store.ErrHeaderNotFound) {
			return block.StoredHeaderData{}, fmt.Errorf("%w: parachain %d head %s", ErrUnknownParaHead, id, hash)
		}
		return block.StoredHeaderData{}, err
	}
	return data, nil
}
