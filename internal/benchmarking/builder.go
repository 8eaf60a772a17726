// Package benchmarking generates messages and delivery proofs together with
// the finalized bridged header they are anchored at.
package benchmarking

import (
	"errors"
	"fmt"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/chain"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/finality"
	"github.com/eigerco/bridgebench/internal/finality/parachains"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/storageproof"
	"github.com/eigerco/bridgebench/internal/xcm"
	"github.com/eigerco/bridgebench/pkg/log"
)

// MaxMessagesPerProof bounds the nonce range of one messages proof.
const MaxMessagesPerProof = 4096

var (
	ErrInvalidNonceRange = errors.New("invalid nonce range")
	ErrNotParachain      = errors.New("bridged chain is not a parachain")
)

// FinalityStore accepts headers as finalized without any proof of finality.
type FinalityStore interface {
	RegisterFinalizedHeader(scheme finality.Scheme, header block.Header) error
}

// ProofKind is what a generated proof proves.
type ProofKind uint8

const (
	// KindMessages proves outbound messages of a lane.
	KindMessages ProofKind = iota
	// KindDelivery proves the inbound state of a lane.
	KindDelivery
)

func (k ProofKind) String() string {
	switch k {
	case KindMessages:
		return "messages"
	case KindDelivery:
		return "delivery"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Config names both sides of the bridge. Proofs are generated from the
// bridged chain's storage for this chain to verify.
type Config struct {
	ThisChain    chain.Chain
	BridgedChain chain.Chain
}

type Builder struct {
	cfg      Config
	finality FinalityStore
	proofs   *storageproof.Builder
	metrics  *Metrics
}

// NewBuilder creates a proof builder. metrics may be nil.
func NewBuilder(cfg Config, finality FinalityStore, proofs *storageproof.Builder, metrics *Metrics) *Builder {
	return &Builder{cfg: cfg, finality: finality, proofs: proofs, metrics: metrics}
}

// messagesPallet is the pallet of the bridged chain holding the lanes to
// this chain.
func (b *Builder) messagesPallet() string {
	return b.cfg.ThisChain.MessagesPalletName
}

func (b *Builder) headerHasher(scheme finality.Scheme) crypto.Hasher {
	if scheme.Kind == finality.KindParachain {
		return parachains.Hasher
	}
	return b.cfg.BridgedChain.HeaderHasher()
}

func (b *Builder) parachainScheme() (finality.Scheme, error) {
	if !b.cfg.BridgedChain.Parachain {
		return finality.Scheme{}, fmt.Errorf("%w: %s", ErrNotParachain, b.cfg.BridgedChain.Name)
	}
	return finality.Parachain(parachains.ParaID(b.cfg.BridgedChain.ParaID)), nil
}

// PrepareMessageProof builds a proof of params.MessageNonces and registers
// the header it is anchored at under scheme. The returned weight is a
// placeholder cap, not a measured cost.
func (b *Builder) PrepareMessageProof(params messages.MessageProofParams, destination xcm.Junctions, scheme finality.Scheme) (messages.MessagesProof, messages.Weight, error) {
	entries, keys, err := b.messagesSnapshot(params, destination)
	if err != nil {
		return messages.MessagesProof{}, messages.Weight{}, err
	}

	anchor, proof, err := b.prepare(KindMessages, scheme, entries, keys, params.ProofParams)
	if err != nil {
		return messages.MessagesProof{}, messages.Weight{}, err
	}

	return messages.MessagesProof{
		BridgedHeaderHash: anchor.Hash,
		Storage:           proof,
		Lane:              params.Lane,
		NoncesStart:       params.MessageNonces.Start,
		NoncesEnd:         params.MessageNonces.End,
	}, messages.SyntheticProofWeight, nil
}

// PrepareMessageDeliveryProof builds a proof of params.InboundLaneData and
// registers the header it is anchored at under scheme.
func (b *Builder) PrepareMessageDeliveryProof(params messages.MessageDeliveryProofParams, scheme finality.Scheme) (messages.MessagesDeliveryProof, error) {
	entries, keys := b.deliverySnapshot(params)

	anchor, proof, err := b.prepare(KindDelivery, scheme, entries, keys, params.ProofParams)
	if err != nil {
		return messages.MessagesDeliveryProof{}, err
	}

	log.Proof.Debug().
		Str("lane", params.Lane.String()).
		Hex("relayer", params.Relayer[:]).
		Msg("prepared delivery proof")

	return messages.MessagesDeliveryProof{
		BridgedHeaderHash: anchor.Hash,
		StorageProof:      proof,
		Lane:              params.Lane,
	}, nil
}

func (b *Builder) PrepareMessageProofFromGrandpaChain(params messages.MessageProofParams, destination xcm.Junctions) (messages.MessagesProof, messages.Weight, error) {
	return b.PrepareMessageProof(params, destination, finality.Direct())
}

func (b *Builder) PrepareMessageProofFromParachain(params messages.MessageProofParams, destination xcm.Junctions) (messages.MessagesProof, messages.Weight, error) {
	scheme, err := b.parachainScheme()
	if err != nil {
		return messages.MessagesProof{}, messages.Weight{}, err
	}
	return b.PrepareMessageProof(params, destination, scheme)
}

func (b *Builder) PrepareMessageDeliveryProofFromGrandpaChain(params messages.MessageDeliveryProofParams) (messages.MessagesDeliveryProof, error) {
	return b.PrepareMessageDeliveryProof(params, finality.Direct())
}

func (b *Builder) PrepareMessageDeliveryProofFromParachain(params messages.MessageDeliveryProofParams) (messages.MessagesDeliveryProof, error) {
	scheme, err := b.parachainScheme()
	if err != nil {
		return messages.MessagesDeliveryProof{}, err
	}
	return b.PrepareMessageDeliveryProof(params, scheme)
}

// prepare proves entries and anchors the proof. The proof and the anchor
// come from the same root.
func (b *Builder) prepare(kind ProofKind, scheme finality.Scheme, entries []storageproof.Entry, keys [][]byte, params storageproof.Params) (finality.Anchor, storageproof.RawStorageProof, error) {
	root, proof, err := b.proofs.Build(entries, keys, params)
	if err != nil {
		return finality.Anchor{}, nil, fmt.Errorf("build %s proof: %w", kind, err)
	}

	anchor, err := b.InjectAnchor(scheme, root)
	if err != nil {
		return finality.Anchor{}, nil, err
	}

	b.metrics.observe(kind, scheme.Label(), len(proof), proof.Size())
	log.Proof.Debug().
		Stringer("kind", kind).
		Stringer("scheme", scheme).
		Str("anchor", anchor.Hash.String()).
		Str("root", root.String()).
		Int("items", len(proof)).
		Msg("prepared proof")

	return anchor, proof, nil
}

// InjectAnchor registers a header at number zero carrying root as finalized
// under scheme. Every other header field is left empty, so the anchor hash
// only depends on root and the scheme's hasher.
func (b *Builder) InjectAnchor(scheme finality.Scheme, root crypto.Hash) (finality.Anchor, error) {
	header := block.NewHeader(0, crypto.Hash{}, root, crypto.Hash{}, nil)
	hash := header.Hash(b.headerHasher(scheme))

	if err := b.finality.RegisterFinalizedHeader(scheme, header); err != nil {
		return finality.Anchor{}, fmt.Errorf("register %s anchor %s: %w", scheme, hash, err)
	}

	return finality.Anchor{Number: header.Number, Hash: hash, StateRoot: root}, nil
}

func (b *Builder) messagesSnapshot(params messages.MessageProofParams, destination xcm.Junctions) ([]storageproof.Entry, [][]byte, error) {
	nonces := params.MessageNonces
	if err := nonces.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidNonceRange, err)
	}
	if nonces.Len() > MaxMessagesPerProof {
		return nil, nil, fmt.Errorf("%w: %d messages, at most %d", ErrInvalidNonceRange, nonces.Len(), MaxMessagesPerProof)
	}
	if err := destination.Validate(); err != nil {
		return nil, nil, err
	}

	payload := messages.PrepareInboundMessage(params, destination)
	pallet := b.messagesPallet()

	entries := make([]storageproof.Entry, 0, nonces.Len()+1)
	keys := make([][]byte, 0, nonces.Len()+1)
	for _, nonce := range nonces.Nonces() {
		key := messages.MessageStorageKey(pallet, params.Lane, nonce)
		entries = append(entries, storageproof.Entry{Key: key, Value: messages.EncodeMessage(nonce, payload)})
		keys = append(keys, key)
	}

	// the lane state key is proven even when absent
	laneKey := messages.OutboundLaneDataKey(pallet, params.Lane)
	if params.OutboundLaneData != nil {
		entries = append(entries, storageproof.Entry{Key: laneKey, Value: params.OutboundLaneData.Encode()})
	}
	keys = append(keys, laneKey)

	return entries, keys, nil
}

func (b *Builder) deliverySnapshot(params messages.MessageDeliveryProofParams) ([]storageproof.Entry, [][]byte) {
	key := messages.InboundLaneDataKey(b.messagesPallet(), params.Lane)
	return []storageproof.Entry{{Key: key, Value: params.InboundLaneData.Encode()}}, [][]byte{key}
}
