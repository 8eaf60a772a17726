package storageproof

import "errors"

var (
	ErrDuplicateNodes      = errors.New("storage proof contains duplicate nodes")
	ErrUnusedNodes         = errors.New("storage proof contains unused nodes")
	ErrStorageRootMismatch = errors.New("storage root is missing from the proof")
	ErrIncompleteProof     = errors.New("storage proof is missing a node")
)
