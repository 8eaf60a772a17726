package messages

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// LaneID identifies a lane between two bridged chains.
type LaneID [4]byte

func (l LaneID) String() string {
	return "0x" + hex.EncodeToString(l[:])
}

// ParseLaneID accepts four hex encoded bytes ("0x00000001") or up to four
// raw characters ("L1").
func ParseLaneID(s string) (LaneID, error) {
	var lane LaneID
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil || len(b) != len(lane) {
			return LaneID{}, fmt.Errorf("lane id %q: want 4 hex bytes", s)
		}
		copy(lane[:], b)
		return lane, nil
	}
	if len(s) == 0 || len(s) > len(lane) {
		return LaneID{}, fmt.Errorf("lane id %q: want 1 to 4 characters", s)
	}
	copy(lane[:], s)
	return lane, nil
}

// MessageNonce numbers messages within a lane.
type MessageNonce uint64

// NonceRange is an inclusive range of message nonces.
type NonceRange struct {
	Start MessageNonce
	End   MessageNonce
}

var ErrEmptyNonceRange = errors.New("empty nonce range")

func (r NonceRange) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("%w: %d..=%d", ErrEmptyNonceRange, r.Start, r.End)
	}
	return nil
}

// Len is the number of nonces in the range, zero when Start > End.
func (r NonceRange) Len() uint64 {
	if r.Start > r.End {
		return 0
	}
	return uint64(r.End-r.Start) + 1
}

// Nonces lists the range in increasing order.
func (r NonceRange) Nonces() []MessageNonce {
	if r.Start > r.End {
		return nil
	}
	out := make([]MessageNonce, 0, r.Len())
	for n := r.Start; ; n++ {
		out = append(out, n)
		if n == r.End {
			return out
		}
	}
}

func (r NonceRange) String() string {
	return fmt.Sprintf("%d..=%d", r.Start, r.End)
}

// OutboundLaneData is the state of a lane on the sending chain.
type OutboundLaneData struct {
	OldestUnprunedNonce  MessageNonce
	LatestReceivedNonce  MessageNonce
	LatestGeneratedNonce MessageNonce
}

// DefaultOutboundLaneData is the state of a lane nothing was sent over.
func DefaultOutboundLaneData() OutboundLaneData {
	return OutboundLaneData{OldestUnprunedNonce: 1}
}

func (d OutboundLaneData) Encode() []byte {
	return codec.MustMarshal(d)
}

func DecodeOutboundLaneData(b []byte) (OutboundLaneData, error) {
	var d OutboundLaneData
	if err := codec.UnmarshalPrefix(b, &d); err != nil {
		return OutboundLaneData{}, fmt.Errorf("decode outbound lane data: %w", err)
	}
	return d, nil
}

// DeliveredMessages is an inclusive range of delivered nonces.
type DeliveredMessages struct {
	Begin MessageNonce
	End   MessageNonce
}

// UnrewardedRelayer is a relayer that delivered messages and has not been
// paid for them yet.
type UnrewardedRelayer struct {
	Relayer  crypto.AccountID
	Messages DeliveredMessages
}

// InboundLaneData is the state of a lane on the receiving chain.
type InboundLaneData struct {
	Relayers           []UnrewardedRelayer
	LastConfirmedNonce MessageNonce
}

// LastDeliveredNonce is the end of the newest relayer entry, or the last
// confirmed nonce when there are no unrewarded relayers.
func (d InboundLaneData) LastDeliveredNonce() MessageNonce {
	if len(d.Relayers) == 0 {
		return d.LastConfirmedNonce
	}
	return d.Relayers[len(d.Relayers)-1].Messages.End
}

func (d InboundLaneData) Encode() []byte {
	if d.Relayers == nil {
		d.Relayers = []UnrewardedRelayer{}
	}
	return codec.MustMarshal(d)
}

func DecodeInboundLaneData(b []byte) (InboundLaneData, error) {
	var d InboundLaneData
	if err := codec.UnmarshalPrefix(b, &d); err != nil {
		return InboundLaneData{}, fmt.Errorf("decode inbound lane data: %w", err)
	}
	return d, nil
}
