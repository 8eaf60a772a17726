package store

import "errors"

const (
	ErrFailedBatchCommit = "failed to commit batch: %w"
)

var ErrStoreClosed = errors.New("store is closed")

// Prefix constants for all store types
const (
	prefixTrieNode byte = iota + 1
	prefixTrieNodeValue
	prefixImportedHeader
	prefixBestHeader
	prefixRingPointer
	prefixRingSlot
	prefixAccount
)

// PrefixToString converts a prefix byte to a string
func PrefixToString(p byte) string {
	switch p {
	case prefixTrieNode:
		return "trieNode"
	case prefixTrieNodeValue:
		return "trieNodeValue"
	case prefixImportedHeader:
		return "importedHeader"
	case prefixBestHeader:
		return "bestHeader"
	case prefixRingPointer:
		return "ringPointer"
	case prefixRingSlot:
		return "ringSlot"
	case prefixAccount:
		return "account"
	default:
		return "unknown"
	}
}

// makeKey creates a key from a prefix and the given parts
func makeKey(prefix byte, parts ...[]byte) []byte {
	size := 1
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, prefix)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}
