package storageproof

// Params shapes a synthetic storage proof.
type Params struct {
	// DBSize, when set, zero-pads the first stored value up to this many
	// bytes so the proof reaches a given size.
	DBSize *uint32
	// Malformed duplicates a trie node in the proof.
	Malformed bool
	// ExtraNodes records the nodes of a key nobody asked for.
	ExtraNodes bool
}

// TargetSize is DBSize or zero when unset.
func (p Params) TargetSize() uint32 {
	if p.DBSize == nil {
		return 0
	}
	return *p.DBSize
}

// WithDBSize returns a copy of p with DBSize set to n.
func (p Params) WithDBSize(n uint32) Params {
	p.DBSize = &n
	return p
}

// RawStorageProof is the list of encoded trie nodes and values a proof is
// made of.
type RawStorageProof [][]byte

// Size is the total number of bytes in the proof items.
func (p RawStorageProof) Size() int {
	size := 0
	for _, item := range p {
		size += len(item)
	}
	return size
}

// Entry is one storage key and its encoded value.
type Entry struct {
	Key   []byte
	Value []byte
}
