package xcm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bridgebench/internal/crypto"
)

func TestJunctionsBytes(t *testing.T) {
	network := Rococo
	testCases := []struct {
		name      string
		junctions Junctions
		expected  []byte
	}{
		{"here", Junctions{}, []byte{0x00}},
		{"parachain", Junctions{Parachain(1000)}, []byte{0x01, 0x00, 0xa1, 0x0f}},
		{"pallet and index", Junctions{PalletInstance(50), GeneralIndex(1)}, []byte{0x02, 0x04, 50, 0x05, 0x04}},
		{"child", Junctions{OnlyChild{}}, []byte{0x01, 0x07}},
		{"global", Junctions{GlobalConsensus(Kusama)}, []byte{0x01, 0x09, 0x03}},
		{
			"account with network",
			Junctions{AccountID32{Network: &network, ID: crypto.AccountID{1}}},
			append([]byte{0x01, 0x01, 0x01, 0x05, 0x01}, make([]byte, 31)...),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.junctions.Bytes())
			assert.Equal(t, append([]byte{3}, tc.expected...), VersionedInteriorLocation(tc.junctions))
		})
	}
}

func TestParseJunctions(t *testing.T) {
	j, err := ParseJunctions("global:rococo/parachain:1000/pallet:50/index:3/child")
	require.NoError(t, err)
	assert.Equal(t, Junctions{
		GlobalConsensus(Rococo), Parachain(1000), PalletInstance(50), GeneralIndex(3), OnlyChild{},
	}, j)
	assert.Equal(t, "global:rococo/parachain:1000/pallet:50/index:3/child", j.String())

	here, err := ParseJunctions("here")
	require.NoError(t, err)
	assert.Empty(t, here)

	account := "account:0x" + string(bytes.Repeat([]byte("ab"), 32))
	j, err = ParseJunctions(account)
	require.NoError(t, err)
	assert.Equal(t, account, j.String())

	for _, bad := range []string{"parachain:x", "pallet:300", "unknown:1", "account:0x01", "global:mars"} {
		_, err := ParseJunctions(bad)
		assert.ErrorIs(t, err, ErrInvalidJunction, bad)
	}

	_, err = ParseJunctions("child/child/child/child/child/child/child/child/child")
	assert.ErrorIs(t, err, ErrTooManyJunctions)
}

func TestClearOriginProgram(t *testing.T) {
	assert.Equal(t, []byte{0x03, 0x00}, ClearOriginProgram(0))
	assert.Equal(t, []byte{0x03, 0x0c, 0x0a, 0x0a, 0x0a}, ClearOriginProgram(3))

	p := ClearOriginProgram(100)
	assert.Len(t, p, 1+2+100)
}
