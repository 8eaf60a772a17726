package parachains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/testutils"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

func TestParachainsAreIsolated(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, kv.Close())
	}()

	tracker := NewTracker(kv, 0)
	header := block.Header{StateRoot: testutils.RandomHash(t)}

	head, err := tracker.InitializeForBenchmarks(1000, header)
	require.NoError(t, err)
	assert.Equal(t, header.Hash(Hasher), head.Hash)

	best, err := tracker.BestParaHead(1000)
	require.NoError(t, err)
	assert.Equal(t, head, best)

	data, err := tracker.ParaHead(1000, head.Hash)
	require.NoError(t, err)
	assert.Equal(t, header.StoredData(), data)

	_, err = tracker.BestParaHead(1001)
	assert.ErrorIs(t, err, ErrUnknownParachain)
	_, err = tracker.ParaHead(1001, head.Hash)
	assert.ErrorIs(t, err, ErrUnknownParaHead)
}
