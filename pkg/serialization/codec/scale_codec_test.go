package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact(t *testing.T) {
	testCases := []struct {
		n        uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{63, []byte{0xfc}},
		{64, []byte{0x01, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{1 << 30, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
	}

	for _, tc := range testCases {
		got := Compact(tc.n)
		assert.Equal(t, tc.expected, got, "compact(%d)", tc.n)
		assert.Equal(t, len(got), CompactSize(tc.n), "compact size of %d", tc.n)
	}
}

func TestEncodeBytes(t *testing.T) {
	assert.Equal(t, []byte{0x0c, 1, 2, 3}, EncodeBytes([]byte{1, 2, 3}))
	assert.Equal(t, []byte{0x00}, EncodeBytes(nil))
}

func TestSCALEStructRoundTrip(t *testing.T) {
	type laneLike struct {
		Oldest uint64
		Latest uint64
		Owner  [4]byte
		Blob   []byte
	}
	in := laneLike{Oldest: 1, Latest: 7, Owner: [4]byte{1, 2, 3, 4}, Blob: []byte("x")}

	b, err := SCALE.Marshal(in)
	require.NoError(t, err)
	assert.Len(t, b, 8+8+4+2)

	var out laneLike
	require.NoError(t, SCALE.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestJSONCodecIndent(t *testing.T) {
	j := &JSONCodec{Indent: "  "}
	b, err := j.Marshal(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))
}

func TestUnmarshalPrefixIgnoresTrailingBytes(t *testing.T) {
	type pair struct {
		A uint32
		B uint64
	}
	encoded := MustMarshal(pair{A: 1, B: 2})
	grown := append(encoded, make([]byte, 20)...)

	var got pair
	require.NoError(t, UnmarshalPrefix(grown, &got))
	assert.Equal(t, pair{A: 1, B: 2}, got)
}
