package codec

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// SCALECodec implements the Codec interface for SCALE encoding and decoding.
// Every on-chain layout in this module (lane data, stored messages, headers,
// proof envelopes) goes through it.
type SCALECodec struct{}

var SCALE Codec = &SCALECodec{}

func (s *SCALECodec) Marshal(v interface{}) ([]byte, error) {
	return scale.Marshal(v)
}

func (s *SCALECodec) Unmarshal(data []byte, v interface{}) error {
	return scale.Unmarshal(data, v)
}

// UnmarshalPrefix decodes v from the start of data and ignores whatever
// follows. Storage values grown to a target size carry trailing zeros.
func UnmarshalPrefix(data []byte, v interface{}) error {
	return scale.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// MustMarshal is Marshal for values whose encoding cannot fail (fixed
// structs of integers, byte arrays and byte slices).
func MustMarshal(v interface{}) []byte {
	b, err := scale.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("scale encode %T: %v", v, err))
	}
	return b
}

// Compact returns the SCALE compact encoding of n.
func Compact(n uint64) []byte {
	return MustMarshal(uint(n))
}

// EncodeBytes returns b prefixed with its compact length, the layout of a
// Vec<u8>.
func EncodeBytes(b []byte) []byte {
	return MustMarshal(b)
}

// CompactSize is the number of bytes Compact(n) occupies.
func CompactSize(n uint64) int {
	switch {
	case n < 1<<6:
		return 1
	case n < 1<<14:
		return 2
	case n < 1<<30:
		return 4
	}
	size := 1
	for n > 0 {
		size++
		n >>= 8
	}
	return size
}
