package trie

import "github.com/eigerco/bridgebench/internal/crypto"

const (
	// NodeSize is the size of a node in bytes.
	NodeSize = 64

	// LeafNodeFlag indicates a leaf node.
	LeafNodeFlag byte = 0b10000000

	// NotEmbeddedLeafFlag marks a leaf whose value lives outside the node.
	NotEmbeddedLeafFlag byte = 0b01000000

	// ValueSizeMask extracts the embedded value size.
	ValueSizeMask byte = 0b00111111

	EmbeddedValueMaxSize = 32

	// StateKeySize is the size of a state key in bytes. Only the first
	// LeafKeySize bytes take part in the trie path.
	StateKeySize = 32
	LeafKeySize  = 31

	maxDepth = LeafKeySize * 8
)

// StateKey is a fixed-size byte array representing a key in the state trie.
type StateKey [StateKeySize]byte

// Node represents a node in the binary Patricia-Merkle trie.
type Node [NodeSize]byte

// Ref is how nodes are addressed in node stores and proofs. A branch keeps
// only the last 255 bits of its left child hash, so the top bit is dropped
// from every reference.
func Ref(h crypto.Hash) crypto.Hash {
	h[0] &= 0b01111111
	return h
}

// Hash returns the blake2b-256 hash of the node.
func (n Node) Hash() crypto.Hash {
	return crypto.HashData(n[:])
}

// EncodeBranchNode encodes a branch node. The first bit is 0, the next 255
// bits hold the tail of the left hash and the last 32 bytes the right hash.
func EncodeBranchNode(left, right crypto.Hash) Node {
	var node Node
	node[0] = left[0] & 0b01111111
	copy(node[1:32], left[1:])
	copy(node[32:], right[:])
	return node
}

// EncodeLeafNode encodes a leaf node.
//
// Values up to EmbeddedValueMaxSize bytes are embedded: the low 6 bits of the
// first byte hold the length and the last 32 bytes the zero padded value.
// Longer values are referenced by their blake2b-256 hash. In both cases bytes
// 1..31 carry the first 31 bytes of the key.
func EncodeLeafNode(key StateKey, value []byte) Node {
	var node Node

	if len(value) <= EmbeddedValueMaxSize {
		node[0] = LeafNodeFlag | byte(len(value))
		copy(node[1:32], key[:LeafKeySize])
		copy(node[32:], value)
	} else {
		node[0] = LeafNodeFlag | NotEmbeddedLeafFlag
		copy(node[1:32], key[:LeafKeySize])
		hash := crypto.HashData(value)
		copy(node[32:], hash[:])
	}

	return node
}

// IsLeaf returns true if the first bit is 1.
func (n Node) IsLeaf() bool {
	return n[0]&LeafNodeFlag != 0
}

func (n Node) IsBranch() bool {
	return n[0]&LeafNodeFlag == 0
}

func (n Node) IsEmbeddedLeaf() bool {
	return n.IsLeaf() && n[0]&NotEmbeddedLeafFlag == 0
}

// GetBranchHashes returns the child references of a branch node. The left
// one has its top bit cleared, see Ref.
func (n Node) GetBranchHashes() (crypto.Hash, crypto.Hash, error) {
	if !n.IsBranch() {
		return crypto.Hash{}, crypto.Hash{}, ErrNotBranchNode
	}

	var left, right crypto.Hash
	copy(left[:], n[:32])
	copy(right[:], n[32:])
	return left, Ref(right), nil
}

// LeafKeyMatches reports whether the leaf was written for key.
func (n Node) LeafKeyMatches(key StateKey) (bool, error) {
	if !n.IsLeaf() {
		return false, ErrNotLeafNode
	}
	var k [LeafKeySize]byte
	copy(k[:], n[1:32])
	return k == [LeafKeySize]byte(key[:LeafKeySize]), nil
}

// GetLeafValue returns the value of an embedded-value leaf.
func (n Node) GetLeafValue() ([]byte, error) {
	if !n.IsEmbeddedLeaf() {
		return nil, ErrNotEmbeddedLeaf
	}
	size := int(n[0] & ValueSizeMask)
	if size > EmbeddedValueMaxSize {
		return nil, ErrInvalidNode
	}
	value := make([]byte, size)
	copy(value, n[32:32+size])
	return value, nil
}

// GetLeafValueHash returns the value hash of a regular leaf.
func (n Node) GetLeafValueHash() (crypto.Hash, error) {
	if !n.IsLeaf() {
		return crypto.Hash{}, ErrNotLeafNode
	}
	if n.IsEmbeddedLeaf() {
		return crypto.Hash{}, ErrEmbeddedLeafInsteadOfRegular
	}
	var hash crypto.Hash
	copy(hash[:], n[32:])
	return hash, nil
}
