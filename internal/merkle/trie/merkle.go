package trie

import (
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
)

// KeyValue is a single trie entry.
type KeyValue struct {
	Key   StateKey
	Value []byte
}

// NodeFunc receives every node produced while merklizing.
type NodeFunc func(hash crypto.Hash, node Node) error

// ValueFunc receives every value too large to be embedded in its leaf.
type ValueFunc func(value []byte) error

// Merklize computes the root of the trie holding pairs, starting at bit i.
// onNode and onValue may be nil.
func Merklize(pairs []KeyValue, i int, onNode NodeFunc, onValue ValueFunc) (crypto.Hash, error) {
	// An empty subtree hashes to zero
	if len(pairs) == 0 {
		return crypto.Hash{}, nil
	}

	if len(pairs) == 1 {
		leaf := EncodeLeafNode(pairs[0].Key, pairs[0].Value)
		hash := leaf.Hash()
		if onNode != nil {
			if err := onNode(hash, leaf); err != nil {
				return crypto.Hash{}, err
			}
		}
		if !leaf.IsEmbeddedLeaf() && onValue != nil {
			if err := onValue(pairs[0].Value); err != nil {
				return crypto.Hash{}, err
			}
		}
		return hash, nil
	}

	if i >= maxDepth {
		return crypto.Hash{}, fmt.Errorf("%w: %x", ErrKeyCollision, pairs[0].Key[:LeafKeySize])
	}

	var left, right []KeyValue
	for _, kv := range pairs {
		if bit(kv.Key[:], i) {
			right = append(right, kv)
		} else {
			left = append(left, kv)
		}
	}

	leftHash, err := Merklize(left, i+1, onNode, onValue)
	if err != nil {
		return crypto.Hash{}, err
	}
	rightHash, err := Merklize(right, i+1, onNode, onValue)
	if err != nil {
		return crypto.Hash{}, err
	}

	branch := EncodeBranchNode(leftHash, rightHash)
	hash := branch.Hash()
	if onNode != nil {
		if err := onNode(hash, branch); err != nil {
			return crypto.Hash{}, err
		}
	}
	return hash, nil
}

// NodeReader resolves node references and out-of-node values.
type NodeReader interface {
	GetNode(ref crypto.Hash) (Node, error)
	GetValue(hash crypto.Hash) ([]byte, error)
}

// Lookup walks from root towards key. found is false when the path ends in an
// empty subtree or in a leaf written for a different key.
func Lookup(r NodeReader, root crypto.Hash, key StateKey) (value []byte, found bool, err error) {
	ref := Ref(root)
	for i := 0; ; i++ {
		if ref.IsZero() {
			return nil, false, nil
		}
		node, err := r.GetNode(ref)
		if err != nil {
			return nil, false, err
		}

		if node.IsLeaf() {
			ok, err := node.LeafKeyMatches(key)
			if err != nil || !ok {
				return nil, false, err
			}
			if node.IsEmbeddedLeaf() {
				value, err := node.GetLeafValue()
				return value, err == nil, err
			}
			valueHash, err := node.GetLeafValueHash()
			if err != nil {
				return nil, false, err
			}
			value, err := r.GetValue(valueHash)
			if err != nil {
				return nil, false, err
			}
			return value, true, nil
		}

		if i >= maxDepth {
			return nil, false, ErrInvalidNode
		}
		left, right, err := node.GetBranchHashes()
		if err != nil {
			return nil, false, err
		}
		if bit(key[:], i) {
			ref = right
		} else {
			ref = left
		}
	}
}

// get a bit from the key
func bit(k []byte, i int) bool {
	return (k[i/8] & (1 << (7 - i%8))) != 0
}
