package finality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/finality/grandpa"
	"github.com/eigerco/bridgebench/internal/finality/parachains"
	"github.com/eigerco/bridgebench/internal/testutils"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

func newTestStore(t *testing.T, hasher crypto.Hasher) *Store {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, kv.Close()) })
	return NewStore(kv, hasher, 0)
}

func TestSchemeString(t *testing.T) {
	assert.Equal(t, "direct", Direct().String())
	assert.Equal(t, "parachain(2000)", Parachain(2000).String())
	assert.Equal(t, "parachain", Parachain(2000).Label())
	assert.Equal(t, "direct", Direct().Label())
}

func TestRegisterDirect(t *testing.T) {
	s := newTestStore(t, crypto.Keccak256)
	header := block.Header{StateRoot: testutils.RandomHash(t)}

	_, err := s.BestFinalized(Direct())
	assert.ErrorIs(t, err, grandpa.ErrNotInitialized)

	require.NoError(t, s.RegisterFinalizedHeader(Direct(), header))

	best, err := s.BestFinalized(Direct())
	require.NoError(t, err)
	assert.Equal(t, header.Hash(crypto.Keccak256), best.Hash)
	assert.Equal(t, block.Number(0), best.Number)

	root, err := s.StateRoot(Direct(), best.Hash)
	require.NoError(t, err)
	assert.Equal(t, header.StateRoot, root)

	_, err = s.StateRoot(Direct(), testutils.RandomHash(t))
	assert.ErrorIs(t, err, grandpa.ErrUnknownHeader)
}

func TestRegisterOverwritesBest(t *testing.T) {
	s := newTestStore(t, crypto.Blake2_256)
	first := block.Header{StateRoot: testutils.RandomHash(t)}
	second := block.Header{StateRoot: testutils.RandomHash(t)}

	require.NoError(t, s.RegisterFinalizedHeader(Direct(), first))
	require.NoError(t, s.RegisterFinalizedHeader(Direct(), second))

	best, err := s.BestFinalized(Direct())
	require.NoError(t, err)
	assert.Equal(t, second.Hash(crypto.Blake2_256), best.Hash)

	// older anchors stay resolvable until pruned
	_, err = s.StateRoot(Direct(), first.Hash(crypto.Blake2_256))
	assert.NoError(t, err)
}

func TestRegisterParachain(t *testing.T) {
	s := newTestStore(t, crypto.Keccak256)
	header := block.Header{StateRoot: testutils.RandomHash(t)}

	require.NoError(t, s.RegisterFinalizedHeader(Parachain(2000), header))

	best, err := s.BestFinalized(Parachain(2000))
	require.NoError(t, err)
	assert.Equal(t, header.Hash(crypto.Blake2_256), best.Hash, "parachain heads are blake2 hashed")
	assert.Equal(t, crypto.Blake2_256, s.HeaderHasher(Parachain(2000)))
	assert.Equal(t, crypto.Keccak256, s.HeaderHasher(Direct()))

	root, err := s.StateRoot(Parachain(2000), best.Hash)
	require.NoError(t, err)
	assert.Equal(t, header.StateRoot, root)

	_, err = s.BestFinalized(Parachain(2001))
	assert.ErrorIs(t, err, parachains.ErrUnknownParachain)
	_, err = s.StateRoot(Parachain(2001), best.Hash)
	assert.ErrorIs(t, err, parachains.ErrUnknownParaHead)
	_, err = s.BestFinalized(Direct())
	assert.ErrorIs(t, err, grandpa.ErrNotInitialized)
}

func TestUnknownScheme(t *testing.T) {
	s := newTestStore(t, crypto.Blake2_256)
	bad := Scheme{Kind: 9}

	assert.Error(t, s.RegisterFinalizedHeader(bad, block.Header{}))
	_, err := s.BestFinalized(bad)
	assert.Error(t, err)
	_, err = s.StateRoot(bad, crypto.Hash{})
	assert.Error(t, err)
}
