package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/finality"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/storageproof"
	"github.com/eigerco/bridgebench/internal/store"
	"github.com/eigerco/bridgebench/internal/testutils"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

const pallet = "BridgeMillauMessages"

var lane = messages.LaneID{'L', '1'}

// roots maps anchor hashes straight to state roots.
type roots map[crypto.Hash]crypto.Hash

func (r roots) StateRoot(_ finality.Scheme, hash crypto.Hash) (crypto.Hash, error) {
	root, ok := r[hash]
	if !ok {
		return crypto.Hash{}, assert.AnError
	}
	return root, nil
}

type fixture struct {
	builder *storageproof.Builder
	roots   roots
}

func newFixture(t *testing.T) fixture {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, kv.Close()) })
	return fixture{builder: storageproof.NewBuilder(store.NewTrie(kv)), roots: roots{}}
}

// anchor proves keys over entries and returns the anchor hash to use.
func (f fixture) anchor(t *testing.T, entries []storageproof.Entry, keys [][]byte) (crypto.Hash, storageproof.RawStorageProof) {
	root, proof, err := f.builder.Build(entries, keys, storageproof.Params{})
	require.NoError(t, err)
	hash := testutils.RandomHash(t)
	f.roots[hash] = root
	return hash, proof
}

func messageEntry(nonce messages.MessageNonce, payload []byte) storageproof.Entry {
	return storageproof.Entry{
		Key:   messages.MessageStorageKey(pallet, lane, nonce),
		Value: messages.EncodeMessage(nonce, payload),
	}
}

func TestVerifyMessagesProof(t *testing.T) {
	f := newFixture(t)
	state := messages.OutboundLaneData{OldestUnprunedNonce: 1, LatestGeneratedNonce: 2}
	laneKey := messages.OutboundLaneDataKey(pallet, lane)
	entries := []storageproof.Entry{
		messageEntry(1, []byte("one")),
		messageEntry(2, []byte("two")),
		{Key: laneKey, Value: state.Encode()},
	}
	hash, proof := f.anchor(t, entries, [][]byte{entries[0].Key, entries[1].Key, laneKey})

	v := New(f.roots, finality.Direct(), pallet)
	p := messages.MessagesProof{BridgedHeaderHash: hash, Storage: proof, Lane: lane, NoncesStart: 1, NoncesEnd: 2}

	proved, err := v.VerifyMessagesProof(p, 2)
	require.NoError(t, err)
	assert.Equal(t, []ProvedMessage{{Nonce: 1, Payload: []byte("one")}, {Nonce: 2, Payload: []byte("two")}}, proved.Messages)
	require.NotNil(t, proved.LaneState)
	assert.Equal(t, state, *proved.LaneState)

	t.Run("count mismatch", func(t *testing.T) {
		_, err := v.VerifyMessagesProof(p, 3)
		assert.ErrorIs(t, err, ErrMessagesCountMismatch)
	})

	t.Run("empty nonce range", func(t *testing.T) {
		bad := p
		bad.NoncesStart, bad.NoncesEnd = 3, 2
		_, err := v.VerifyMessagesProof(bad, 0)
		assert.ErrorIs(t, err, messages.ErrEmptyNonceRange)
	})

	t.Run("missing message", func(t *testing.T) {
		bad := p
		bad.NoncesEnd = 3
		_, err := v.VerifyMessagesProof(bad, 3)
		assert.Error(t, err)
	})

	t.Run("unknown header", func(t *testing.T) {
		bad := p
		bad.BridgedHeaderHash = testutils.RandomHash(t)
		_, err := v.VerifyMessagesProof(bad, 2)
		assert.ErrorIs(t, err, ErrUnknownHeader)
	})

	t.Run("wrong pallet", func(t *testing.T) {
		other := New(f.roots, finality.Direct(), "BridgeRialtoMessages")
		_, err := other.VerifyMessagesProof(p, 2)
		assert.Error(t, err)
	})
}

func TestVerifyMessagesProofMissingMessage(t *testing.T) {
	f := newFixture(t)
	present := messageEntry(1, []byte("one"))
	absentKey := messages.MessageStorageKey(pallet, lane, 2)
	laneKey := messages.OutboundLaneDataKey(pallet, lane)

	// nonce 2 is proven absent
	hash, proof := f.anchor(t, []storageproof.Entry{present}, [][]byte{present.Key, absentKey, laneKey})

	v := New(f.roots, finality.Direct(), pallet)
	_, err := v.VerifyMessagesProof(messages.MessagesProof{
		BridgedHeaderHash: hash, Storage: proof, Lane: lane, NoncesStart: 1, NoncesEnd: 2,
	}, 2)
	assert.ErrorIs(t, err, ErrMissingRequiredMessage)
}

func TestVerifyMessagesDeliveryProof(t *testing.T) {
	f := newFixture(t)
	data := messages.InboundLaneData{
		Relayers: []messages.UnrewardedRelayer{
			{Relayer: testutils.RandomAccountID(t), Messages: messages.DeliveredMessages{Begin: 1, End: 2}},
		},
		LastConfirmedNonce: 0,
	}
	key := messages.InboundLaneDataKey(pallet, lane)
	hash, proof := f.anchor(t, []storageproof.Entry{{Key: key, Value: data.Encode()}}, [][]byte{key})

	v := New(f.roots, finality.Parachain(2000), pallet)
	gotLane, got, err := v.VerifyMessagesDeliveryProof(messages.MessagesDeliveryProof{
		BridgedHeaderHash: hash, StorageProof: proof, Lane: lane,
	})
	require.NoError(t, err)
	assert.Equal(t, lane, gotLane)
	assert.Equal(t, data, got)

	t.Run("other lane", func(t *testing.T) {
		otherLane := messages.LaneID{'L', '2'}
		otherKey := messages.InboundLaneDataKey(pallet, otherLane)
		hash, proof := f.anchor(t, []storageproof.Entry{{Key: key, Value: data.Encode()}}, [][]byte{key, otherKey})

		_, _, err := v.VerifyMessagesDeliveryProof(messages.MessagesDeliveryProof{
			BridgedHeaderHash: hash, StorageProof: proof, Lane: otherLane,
		})
		assert.ErrorIs(t, err, ErrMissingLaneData)
	})
}
