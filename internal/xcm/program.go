package xcm

import "github.com/eigerco/bridgebench/pkg/serialization/codec"

const instructionClearOrigin byte = 10

// ClearOriginProgram encodes a version 3 program of n ClearOrigin
// instructions. Each instruction is one byte, which makes it a convenient
// filler when a message has to reach a given size.
func ClearOriginProgram(n uint64) []byte {
	out := make([]byte, 0, 1+codec.CompactSize(n)+int(n))
	out = append(out, versionV3)
	out = append(out, codec.Compact(n)...)
	for i := uint64(0); i < n; i++ {
		out = append(out, instructionClearOrigin)
	}
	return out
}
