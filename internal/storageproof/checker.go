package storageproof

import (
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/merkle/trie"
)

// Checker reads storage values out of a proof the way the receiving chain
// does. It remembers which proof items were touched so callers can reject
// proofs that carry more than they need.
type Checker struct {
	root   crypto.Hash
	nodes  map[crypto.Hash]int
	values map[crypto.Hash]int
	items  [][]byte
	used   []bool
}

// NewChecker indexes proof and makes sure the root node is part of it.
func NewChecker(root crypto.Hash, proof RawStorageProof) (*Checker, error) {
	c := &Checker{
		root:   root,
		nodes:  make(map[crypto.Hash]int, len(proof)),
		values: make(map[crypto.Hash]int, len(proof)),
		items:  proof,
		used:   make([]bool, len(proof)),
	}

	for i, item := range proof {
		hash := crypto.HashData(item)
		if _, ok := c.values[hash]; ok {
			return nil, ErrDuplicateNodes
		}
		c.values[hash] = i
		if len(item) == trie.NodeSize {
			c.nodes[trie.Ref(hash)] = i
		}
	}

	if _, ok := c.nodes[trie.Ref(root)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrStorageRootMismatch, root)
	}
	return c, nil
}

// ReadValue returns the value under storageKey. found is false when the
// proof shows the key is absent.
func (c *Checker) ReadValue(storageKey []byte) (value []byte, found bool, err error) {
	value, found, err = trie.Lookup(checkerReader{c}, c.root, StateKey(storageKey))
	if err != nil {
		if errors.Is(err, trie.ErrNodeNotFound) || errors.Is(err, trie.ErrValueNotFound) {
			return nil, false, fmt.Errorf("%w: %v", ErrIncompleteProof, err)
		}
		return nil, false, err
	}
	return value, found, nil
}

// EnsureNoUnusedNodes fails if some proof item was never read.
func (c *Checker) EnsureNoUnusedNodes() error {
	unused := 0
	for _, u := range c.used {
		if !u {
			unused++
		}
	}
	if unused > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUnusedNodes, unused, len(c.items))
	}
	return nil
}

type checkerReader struct {
	c *Checker
}

func (r checkerReader) GetNode(ref crypto.Hash) (trie.Node, error) {
	i, ok := r.c.nodes[ref]
	if !ok {
		return trie.Node{}, fmt.Errorf("%w: %s", trie.ErrNodeNotFound, ref)
	}
	r.c.used[i] = true
	return trie.Node(r.c.items[i]), nil
}

func (r checkerReader) GetValue(hash crypto.Hash) ([]byte, error) {
	i, ok := r.c.values[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", trie.ErrValueNotFound, hash)
	}
	r.c.used[i] = true
	return r.c.items[i], nil
}
