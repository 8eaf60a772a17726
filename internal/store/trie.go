package store

import (
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/merkle/trie"
	"github.com/eigerco/bridgebench/pkg/db"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

// Trie persists trie nodes and out-of-node values, addressed by hash.
// Nodes are content addressed so committing the same pairs twice is a no-op.
type Trie struct {
	db.KVStore
}

func NewTrie(store db.KVStore) *Trie {
	return &Trie{KVStore: store}
}

// MerklizeAndCommit writes every node of the trie holding pairs and returns
// its root.
func (t *Trie) MerklizeAndCommit(pairs []trie.KeyValue) (crypto.Hash, error) {
	batch := t.NewBatch()
	defer batch.Close()

	root, err := trie.Merklize(pairs, 0,
		func(hash crypto.Hash, node trie.Node) error {
			ref := trie.Ref(hash)
			return batch.Put(makeKey(prefixTrieNode, ref[:]), node[:])
		},
		func(value []byte) error {
			hash := crypto.HashData(value)
			return batch.Put(makeKey(prefixTrieNodeValue, hash[:]), value)
		})
	if err != nil {
		return crypto.Hash{}, fmt.Errorf("merklize: %w", err)
	}

	if err := batch.Commit(); err != nil {
		return crypto.Hash{}, fmt.Errorf(ErrFailedBatchCommit, err)
	}

	return root, nil
}

// GetNode retrieves a node by its reference (see trie.Ref).
func (t *Trie) GetNode(ref crypto.Hash) (trie.Node, error) {
	data, err := t.Get(makeKey(prefixTrieNode, ref[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return trie.Node{}, fmt.Errorf("%w: %s", trie.ErrNodeNotFound, ref)
		}
		return trie.Node{}, fmt.Errorf("failed to get node %s: %w", ref, err)
	}
	if len(data) != trie.NodeSize {
		return trie.Node{}, fmt.Errorf("%w: stored node %s has %d bytes", trie.ErrInvalidNode, ref, len(data))
	}
	return trie.Node(data), nil
}

// GetValue retrieves the value of a regular leaf by its hash.
func (t *Trie) GetValue(hash crypto.Hash) ([]byte, error) {
	value, err := t.Get(makeKey(prefixTrieNodeValue, hash[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", trie.ErrValueNotFound, hash)
		}
		return nil, fmt.Errorf("failed to get value %s: %w", hash, err)
	}
	return value, nil
}

// TrieExists checks if a trie with the given root hash exists
func (t *Trie) TrieExists(root crypto.Hash) (bool, error) {
	ref := trie.Ref(root)
	return t.Has(makeKey(prefixTrieNode, ref[:]))
}

// Prove returns every encoded node and value read while looking up keys
// under root, in first-read order and without repetition. Keys absent from
// the trie are proven absent.
func (t *Trie) Prove(root crypto.Hash, keys []trie.StateKey) ([][]byte, error) {
	rec := newRecorder(t)
	for _, k := range keys {
		if _, _, err := trie.Lookup(rec, root, k); err != nil {
			return nil, fmt.Errorf("record key %x: %w", k[:trie.LeafKeySize], err)
		}
	}
	return rec.items, nil
}

// recorder is a trie.NodeReader that remembers what it served.
type recorder struct {
	t     *Trie
	seen  map[string]struct{}
	items [][]byte
}

func newRecorder(t *Trie) *recorder {
	return &recorder{t: t, seen: make(map[string]struct{})}
}

func (r *recorder) record(item []byte) {
	if _, ok := r.seen[string(item)]; ok {
		return
	}
	r.seen[string(item)] = struct{}{}
	r.items = append(r.items, item)
}

func (r *recorder) GetNode(ref crypto.Hash) (trie.Node, error) {
	node, err := r.t.GetNode(ref)
	if err != nil {
		return trie.Node{}, err
	}
	r.record(append([]byte(nil), node[:]...))
	return node, nil
}

func (r *recorder) GetValue(hash crypto.Hash) ([]byte, error) {
	value, err := r.t.GetValue(hash)
	if err != nil {
		return nil, err
	}
	r.record(value)
	return value, nil
}
