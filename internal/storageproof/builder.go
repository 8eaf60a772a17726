package storageproof

import (
	"bytes"
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/merkle/trie"
	"github.com/eigerco/bridgebench/internal/store"
	"github.com/eigerco/bridgebench/pkg/log"
)

// UnusedKey is the storage key inserted when Params.ExtraNodes is set.
var UnusedKey = []byte("unused_key")

var unusedValue = bytes.Repeat([]byte{42}, 32)

// StateKey is where a storage key lives in the trie.
func StateKey(storageKey []byte) trie.StateKey {
	return trie.StateKey(crypto.HashData(storageKey))
}

// Builder merklizes storage snapshots into a trie store and records proofs
// over them.
type Builder struct {
	trie *store.Trie
}

func NewBuilder(t *store.Trie) *Builder {
	return &Builder{trie: t}
}

// Build commits entries to a trie and proves proveKeys under its root. Keys
// not present in entries are proven absent. A later entry with the same key
// replaces an earlier one.
func (b *Builder) Build(entries []Entry, proveKeys [][]byte, params Params) (crypto.Hash, RawStorageProof, error) {
	entries = append([]Entry(nil), entries...)
	proveKeys = append([][]byte(nil), proveKeys...)

	if len(entries) > 0 {
		entries[0].Value = growValue(entries[0].Value, params)
	}
	if params.ExtraNodes {
		entries = append(entries, Entry{Key: UnusedKey, Value: unusedValue})
		proveKeys = append(proveKeys, UnusedKey)
	}

	index := make(map[trie.StateKey]int, len(entries))
	pairs := make([]trie.KeyValue, 0, len(entries))
	for _, e := range entries {
		k := StateKey(e.Key)
		if i, ok := index[k]; ok {
			pairs[i].Value = e.Value
			continue
		}
		index[k] = len(pairs)
		pairs = append(pairs, trie.KeyValue{Key: k, Value: e.Value})
	}

	root, err := b.trie.MerklizeAndCommit(pairs)
	if err != nil {
		return crypto.Hash{}, nil, fmt.Errorf("commit storage snapshot: %w", err)
	}

	stateKeys := make([]trie.StateKey, len(proveKeys))
	for i, k := range proveKeys {
		stateKeys[i] = StateKey(k)
	}
	items, err := b.trie.Prove(root, stateKeys)
	if err != nil {
		return crypto.Hash{}, nil, fmt.Errorf("record storage proof: %w", err)
	}

	proof := RawStorageProof(items)
	if params.Malformed && len(proof) > 0 {
		proof = append(proof, append([]byte(nil), proof[0]...))
	}

	log.Proof.Debug().
		Str("root", root.String()).
		Int("entries", len(pairs)).
		Int("items", len(proof)).
		Int("size", proof.Size()).
		Bool("malformed", params.Malformed).
		Bool("extra_nodes", params.ExtraNodes).
		Msg("built storage proof")

	return root, proof, nil
}

// growValue zero-pads value up to the target size.
func growValue(value []byte, params Params) []byte {
	target := int(params.TargetSize())
	if target <= len(value) {
		return value
	}
	grown := make([]byte, target)
	copy(grown, value)
	return grown
}
