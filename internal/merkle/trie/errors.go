package trie

import "errors"

var (
	ErrNotLeafNode                  = errors.New("node is not a leaf node")
	ErrNotBranchNode                = errors.New("node is not a branch node")
	ErrNotEmbeddedLeaf              = errors.New("node is not an embedded-value leaf node")
	ErrEmbeddedLeafInsteadOfRegular = errors.New("node is an embedded leaf, expected regular leaf")
	ErrInvalidNode                  = errors.New("invalid trie node")
	ErrKeyCollision                 = errors.New("two keys share the same trie path")
	ErrNodeNotFound                 = errors.New("trie node not found")
	ErrValueNotFound                = errors.New("trie value not found")
)
