package messages

import (
	"github.com/eigerco/bridgebench/internal/xcm"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// PrepareInboundMessage builds the payload of every message in a generated
// proof.
//
// When dispatch is not expected to succeed the payload is a zero blob of the
// target size. Otherwise it is a versioned destination followed by a filler
// program of ClearOrigin instructions, so the payload is only approximately
// the target size. The pair is encoded and then encoded again as a byte
// vector: that is how the receiving side finds the blob inside the message.
func PrepareInboundMessage(params MessageProofParams, destination xcm.Junctions) []byte {
	expectedSize := uint64(params.ProofParams.TargetSize())

	if !params.IsSuccessfulDispatchExpected {
		return make([]byte, expectedSize)
	}

	location := xcm.VersionedInteriorLocation(destination)

	var fillerCount uint64
	if expectedSize > uint64(len(location)) {
		fillerCount = expectedSize - uint64(len(location))
	}
	program := xcm.ClearOriginProgram(fillerCount)

	blob := make([]byte, 0, len(location)+len(program))
	blob = append(blob, location...)
	blob = append(blob, program...)
	return codec.EncodeBytes(blob)
}

// EncodeMessage is the storage value of a message payload.
func EncodeMessage(_ MessageNonce, payload []byte) []byte {
	return codec.EncodeBytes(payload)
}

// DecodeMessage reverses EncodeMessage and ignores trailing bytes.
func DecodeMessage(value []byte) ([]byte, error) {
	var payload []byte
	if err := codec.UnmarshalPrefix(value, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
