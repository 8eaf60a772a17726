package block

import (
	"bytes"
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// Number is a bridged chain block number.
type Number uint32

// Header is the generic header of a bridged chain. Both direct-finality
// chains and parachains share the layout; they differ in how it is hashed.
type Header struct {
	ParentHash     crypto.Hash
	Number         Number
	StateRoot      crypto.Hash
	ExtrinsicsRoot crypto.Hash
	Digest         Digest
}

// NewHeader mirrors the usual header constructor argument order.
func NewHeader(number Number, extrinsicsRoot, stateRoot, parentHash crypto.Hash, digest Digest) Header {
	return Header{
		ParentHash:     parentHash,
		Number:         number,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		Digest:         digest,
	}
}

// Bytes returns the SCALE encoding of the header. The block number is
// compact encoded.
func (h Header) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(h.ParentHash[:])
	buf.Write(codec.Compact(uint64(h.Number)))
	buf.Write(h.StateRoot[:])
	buf.Write(h.ExtrinsicsRoot[:])
	buf.Write(h.Digest.Bytes())
	return buf.Bytes()
}

// Hash hashes the encoded header with the chain's hasher.
func (h Header) Hash(hasher crypto.Hasher) crypto.Hash {
	return hasher.Hash(h.Bytes())
}

func (h Header) ID(hasher crypto.Hasher) HeaderID {
	return HeaderID{Number: h.Number, Hash: h.Hash(hasher)}
}

// DigestItemKind is the SCALE variant index of a digest item.
type DigestItemKind uint8

const (
	DigestOther                     DigestItemKind = 0
	DigestConsensus                 DigestItemKind = 4
	DigestSeal                      DigestItemKind = 5
	DigestPreRuntime                DigestItemKind = 6
	DigestRuntimeEnvironmentUpdated DigestItemKind = 8
)

// DigestItem is one header log entry. Engine is only meaningful for
// consensus, seal and pre-runtime items.
type DigestItem struct {
	Kind    DigestItemKind
	Engine  [4]byte
	Payload []byte
}

func (d DigestItem) Bytes() ([]byte, error) {
	out := []byte{byte(d.Kind)}
	switch d.Kind {
	case DigestOther:
		return append(out, codec.EncodeBytes(d.Payload)...), nil
	case DigestConsensus, DigestSeal, DigestPreRuntime:
		out = append(out, d.Engine[:]...)
		return append(out, codec.EncodeBytes(d.Payload)...), nil
	case DigestRuntimeEnvironmentUpdated:
		return out, nil
	default:
		return nil, fmt.Errorf("unknown digest item kind %d", d.Kind)
	}
}

type Digest []DigestItem

// Bytes encodes the digest as a vector. Items of unknown kind are skipped.
func (d Digest) Bytes() []byte {
	encoded := make([][]byte, 0, len(d))
	for _, item := range d {
		b, err := item.Bytes()
		if err != nil {
			continue
		}
		encoded = append(encoded, b)
	}
	out := codec.Compact(uint64(len(encoded)))
	for _, b := range encoded {
		out = append(out, b...)
	}
	return out
}

// HeaderID identifies a header by number and hash.
type HeaderID struct {
	Number Number
	Hash   crypto.Hash
}

// StoredHeaderData is what finality trackers keep for every imported
// header: enough to check storage proofs against it.
type StoredHeaderData struct {
	Number    uint32
	StateRoot [crypto.HashSize]byte
}

func (s StoredHeaderData) Bytes() []byte {
	return codec.MustMarshal(s)
}

func StoredHeaderDataFromBytes(b []byte) (StoredHeaderData, error) {
	var s StoredHeaderData
	if err := codec.SCALE.Unmarshal(b, &s); err != nil {
		return StoredHeaderData{}, fmt.Errorf("decode stored header data: %w", err)
	}
	return s, nil
}

// StoredData returns what a tracker keeps for h.
func (h Header) StoredData() StoredHeaderData {
	return StoredHeaderData{Number: uint32(h.Number), StateRoot: h.StateRoot}
}
