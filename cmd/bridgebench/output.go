package main

import (
	"encoding/hex"
	"io"

	"github.com/eigerco/bridgebench/internal/finality"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/storageproof"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

type anchorOutput struct {
	Scheme    string `json:"scheme"`
	Number    uint32 `json:"number"`
	Hash      string `json:"hash"`
	StateRoot string `json:"state_root"`
}

type weightOutput struct {
	RefTime   uint64 `json:"ref_time"`
	ProofSize uint64 `json:"proof_size"`
}

type messagesOutput struct {
	Anchor      anchorOutput  `json:"anchor"`
	Lane        string        `json:"lane"`
	NoncesStart uint64        `json:"nonces_start"`
	NoncesEnd   uint64        `json:"nonces_end"`
	Storage     []string      `json:"storage"`
	ProofSize   int           `json:"proof_size"`
	Weight      weightOutput  `json:"weight"`
	Encoded     string        `json:"encoded"`
	Verified    *verification `json:"verified,omitempty"`
}

type deliveryOutput struct {
	Anchor    anchorOutput  `json:"anchor"`
	Lane      string        `json:"lane"`
	Storage   []string      `json:"storage"`
	ProofSize int           `json:"proof_size"`
	Encoded   string        `json:"encoded"`
	Verified  *verification `json:"verified,omitempty"`
}

type verification struct {
	Messages           int     `json:"messages,omitempty"`
	LastDeliveredNonce *uint64 `json:"last_delivered_nonce,omitempty"`
	Error              string  `json:"error,omitempty"`
}

type rewardsAccountOutput struct {
	Lane         string `json:"lane"`
	BridgedChain string `json:"bridged_chain"`
	Owner        string `json:"owner"`
	Account      string `json:"account"`
}

func toHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func anchorOf(scheme finality.Scheme, hash, root [32]byte, number uint32) anchorOutput {
	return anchorOutput{
		Scheme:    scheme.String(),
		Number:    number,
		Hash:      toHex(hash[:]),
		StateRoot: toHex(root[:]),
	}
}

func storageOf(proof storageproof.RawStorageProof) []string {
	out := make([]string, len(proof))
	for i, item := range proof {
		out[i] = toHex(item)
	}
	return out
}

func weightOf(w messages.Weight) weightOutput {
	return weightOutput{RefTime: w.RefTime, ProofSize: w.ProofSize}
}

func writeJSON(w io.Writer, v interface{}) error {
	c := &codec.JSONCodec{Indent: "  "}
	b, err := c.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
