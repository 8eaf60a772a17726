package messages

import (
	"encoding/binary"

	"github.com/eigerco/bridgebench/internal/crypto"
)

// Storage item names of the messages pallet.
const (
	OutboundMessagesItem = "OutboundMessages"
	OutboundLanesItem    = "OutboundLanes"
	InboundLanesItem     = "InboundLanes"
)

// MessageKey is the map key of an outbound message.
type MessageKey struct {
	LaneID LaneID
	Nonce  MessageNonce
}

func (k MessageKey) Encode() []byte {
	out := make([]byte, 0, len(k.LaneID)+8)
	out = append(out, k.LaneID[:]...)
	return binary.LittleEndian.AppendUint64(out, uint64(k.Nonce))
}

// StorageMapKey is the final key of a map entry hashed with Blake2_128Concat:
// twox128(pallet) ++ twox128(item) ++ blake2_128(key) ++ key.
func StorageMapKey(pallet, item string, key []byte) []byte {
	p := crypto.Twox128([]byte(pallet))
	i := crypto.Twox128([]byte(item))

	out := make([]byte, 0, len(p)+len(i)+16+len(key))
	out = append(out, p[:]...)
	out = append(out, i[:]...)
	return append(out, crypto.Blake2_128Concat(key)...)
}

// MessageStorageKey is where the message with nonce is stored in lane.
func MessageStorageKey(pallet string, lane LaneID, nonce MessageNonce) []byte {
	return StorageMapKey(pallet, OutboundMessagesItem, MessageKey{LaneID: lane, Nonce: nonce}.Encode())
}

// OutboundLaneDataKey is where the outbound state of lane is stored.
func OutboundLaneDataKey(pallet string, lane LaneID) []byte {
	return StorageMapKey(pallet, OutboundLanesItem, lane[:])
}

// InboundLaneDataKey is where the inbound state of lane is stored.
func InboundLaneDataKey(pallet string, lane LaneID) []byte {
	return StorageMapKey(pallet, InboundLanesItem, lane[:])
}
