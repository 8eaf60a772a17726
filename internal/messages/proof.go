package messages

import (
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/storageproof"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// MessageProofParams describes a messages proof to generate.
type MessageProofParams struct {
	Lane          LaneID
	MessageNonces NonceRange
	// OutboundLaneData is stored next to the messages when set.
	OutboundLaneData *OutboundLaneData
	// IsSuccessfulDispatchExpected selects a well formed message over a
	// zero filled blob.
	IsSuccessfulDispatchExpected bool
	ProofParams                  storageproof.Params
}

// MessageDeliveryProofParams describes a delivery proof to generate.
type MessageDeliveryProofParams struct {
	Lane            LaneID
	InboundLaneData InboundLaneData
	ProofParams     storageproof.Params
	// Relayer is the account submitting the proof on this chain.
	Relayer crypto.AccountID
}

// MessagesProof proves messages NoncesStart..=NoncesEnd of Lane are stored
// at the bridged header BridgedHeaderHash.
type MessagesProof struct {
	BridgedHeaderHash crypto.Hash
	Storage           storageproof.RawStorageProof
	Lane              LaneID
	NoncesStart       MessageNonce
	NoncesEnd         MessageNonce
}

func (p MessagesProof) Nonces() NonceRange {
	return NonceRange{Start: p.NoncesStart, End: p.NoncesEnd}
}

func (p MessagesProof) Encode() ([]byte, error) {
	b, err := codec.SCALE.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode messages proof: %w", err)
	}
	return b, nil
}

func DecodeMessagesProof(b []byte) (MessagesProof, error) {
	var p MessagesProof
	if err := codec.SCALE.Unmarshal(b, &p); err != nil {
		return MessagesProof{}, fmt.Errorf("decode messages proof: %w", err)
	}
	return p, nil
}

// MessagesDeliveryProof proves the inbound state of Lane at the bridged
// header BridgedHeaderHash.
type MessagesDeliveryProof struct {
	BridgedHeaderHash crypto.Hash
	StorageProof      storageproof.RawStorageProof
	Lane              LaneID
}

func (p MessagesDeliveryProof) Encode() ([]byte, error) {
	b, err := codec.SCALE.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode messages delivery proof: %w", err)
	}
	return b, nil
}

func DecodeMessagesDeliveryProof(b []byte) (MessagesDeliveryProof, error) {
	var p MessagesDeliveryProof
	if err := codec.SCALE.Unmarshal(b, &p); err != nil {
		return MessagesDeliveryProof{}, fmt.Errorf("decode messages delivery proof: %w", err)
	}
	return p, nil
}
