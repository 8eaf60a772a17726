// Package verifier checks generated proofs the way the receiving chain's
// messages pallet does.
package verifier

import (
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/finality"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/storageproof"
)

var (
	ErrMessagesCountMismatch  = errors.New("messages count does not match the proof nonces")
	ErrMissingRequiredMessage = errors.New("message is missing from the proof")
	ErrEmptyMessageProof      = errors.New("proof has neither messages nor lane state")
	ErrMissingLaneData        = errors.New("inbound lane data is missing from the proof")
	ErrUnknownHeader          = errors.New("proof is anchored at an unknown header")
)

// HeaderChain resolves finalized bridged headers to their state roots.
type HeaderChain interface {
	StateRoot(scheme finality.Scheme, hash crypto.Hash) (crypto.Hash, error)
}

type Verifier struct {
	headers HeaderChain
	scheme  finality.Scheme
	pallet  string
}

// New creates a verifier for proofs of a bridged chain finalized by scheme
// whose messages live in pallet.
func New(headers HeaderChain, scheme finality.Scheme, pallet string) *Verifier {
	return &Verifier{headers: headers, scheme: scheme, pallet: pallet}
}

type ProvedMessage struct {
	Nonce   messages.MessageNonce
	Payload []byte
}

// ProvedLaneMessages is what a messages proof carried for one lane.
type ProvedLaneMessages struct {
	LaneState *messages.OutboundLaneData
	Messages  []ProvedMessage
}

// VerifyMessagesProof checks proof and returns the messages and lane state
// it carries. messagesCount is what the relayer declared.
func (v *Verifier) VerifyMessagesProof(proof messages.MessagesProof, messagesCount uint32) (ProvedLaneMessages, error) {
	nonces := proof.Nonces()
	if err := nonces.Validate(); err != nil {
		return ProvedLaneMessages{}, err
	}
	if nonces.Len() != uint64(messagesCount) {
		return ProvedLaneMessages{}, fmt.Errorf("%w: proof has %d, declared %d",
			ErrMessagesCountMismatch, nonces.Len(), messagesCount)
	}

	checker, err := v.checker(proof.BridgedHeaderHash, proof.Storage)
	if err != nil {
		return ProvedLaneMessages{}, err
	}

	var proved ProvedLaneMessages
	for _, nonce := range nonces.Nonces() {
		value, found, err := checker.ReadValue(messages.MessageStorageKey(v.pallet, proof.Lane, nonce))
		if err != nil {
			return ProvedLaneMessages{}, fmt.Errorf("read message %d: %w", nonce, err)
		}
		if !found {
			return ProvedLaneMessages{}, fmt.Errorf("%w: nonce %d", ErrMissingRequiredMessage, nonce)
		}
		payload, err := messages.DecodeMessage(value)
		if err != nil {
			return ProvedLaneMessages{}, fmt.Errorf("decode message %d: %w", nonce, err)
		}
		proved.Messages = append(proved.Messages, ProvedMessage{Nonce: nonce, Payload: payload})
	}

	value, found, err := checker.ReadValue(messages.OutboundLaneDataKey(v.pallet, proof.Lane))
	if err != nil {
		return ProvedLaneMessages{}, fmt.Errorf("read outbound lane data: %w", err)
	}
	if found {
		state, err := messages.DecodeOutboundLaneData(value)
		if err != nil {
			return ProvedLaneMessages{}, err
		}
		proved.LaneState = &state
	}

	if len(proved.Messages) == 0 && proved.LaneState == nil {
		return ProvedLaneMessages{}, ErrEmptyMessageProof
	}
	if err := checker.EnsureNoUnusedNodes(); err != nil {
		return ProvedLaneMessages{}, err
	}
	return proved, nil
}

// VerifyMessagesDeliveryProof checks proof and returns the inbound state of
// its lane.
func (v *Verifier) VerifyMessagesDeliveryProof(proof messages.MessagesDeliveryProof) (messages.LaneID, messages.InboundLaneData, error) {
	checker, err := v.checker(proof.BridgedHeaderHash, proof.StorageProof)
	if err != nil {
		return messages.LaneID{}, messages.InboundLaneData{}, err
	}

	value, found, err := checker.ReadValue(messages.InboundLaneDataKey(v.pallet, proof.Lane))
	if err != nil {
		return messages.LaneID{}, messages.InboundLaneData{}, fmt.Errorf("read inbound lane data: %w", err)
	}
	if !found {
		return messages.LaneID{}, messages.InboundLaneData{}, fmt.Errorf("%w: lane %s", ErrMissingLaneData, proof.Lane)
	}
	data, err := messages.DecodeInboundLaneData(value)
	if err != nil {
		return messages.LaneID{}, messages.InboundLaneData{}, err
	}

	if err := checker.EnsureNoUnusedNodes(); err != nil {
		return messages.LaneID{}, messages.InboundLaneData{}, err
	}
	return proof.Lane, data, nil
}

func (v *Verifier) checker(anchor crypto.Hash, proof storageproof.RawStorageProof) (*storageproof.Checker, error) {
	root, err := v.headers.StateRoot(v.scheme, anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownHeader, anchor, err)
	}
	checker, err := storageproof.NewChecker(root, proof)
	if err != nil {
		return nil, fmt.Errorf("open storage proof: %w", err)
	}
	return checker, nil
}
