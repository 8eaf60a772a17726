package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

type Hash [HashSize]byte

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// HashData hashes the input data using blake2b-256
func HashData(data []byte) Hash {
	return blake2b.Sum256(data)
}

// KeccakData hashes the input data using Keccak-256
func KeccakData(data []byte) Hash {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	hashed := hash.Sum(nil)

	var result Hash
	copy(result[:], hashed)
	return result
}

// Blake2_128 is the 16 byte blake2b digest used by storage map hashers.
func Blake2_128(data []byte) [16]byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// only fails for sizes outside 1..64 or oversized keys
		panic(err)
	}
	h.Write(data)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2_128Concat returns blake2_128(data) ++ data.
func Blake2_128Concat(data []byte) []byte {
	h := Blake2_128(data)
	out := make([]byte, 0, len(h)+len(data))
	out = append(out, h[:]...)
	return append(out, data...)
}

// Twox128 is xxhash64 with seeds 0 and 1, little endian, concatenated. It is
// how pallet and storage item names are turned into key prefixes.
func Twox128(data []byte) [16]byte {
	var out [16]byte
	for seed := uint64(0); seed < 2; seed++ {
		d := xxhash.NewWithSeed(seed)
		_, _ = d.Write(data)
		binary.LittleEndian.PutUint64(out[seed*8:], d.Sum64())
	}
	return out
}

// Hasher is the header hashing algorithm of a bridged chain.
type Hasher uint8

const (
	Blake2_256 Hasher = iota
	Keccak256
)

func (h Hasher) Hash(data []byte) Hash {
	if h == Keccak256 {
		return KeccakData(data)
	}
	return HashData(data)
}

func (h Hasher) String() string {
	switch h {
	case Blake2_256:
		return "blake2-256"
	case Keccak256:
		return "keccak-256"
	default:
		return fmt.Sprintf("hasher(%d)", uint8(h))
	}
}

// ParseHasher accepts the names printed by Hasher.String.
func ParseHasher(s string) (Hasher, error) {
	switch strings.ToLower(s) {
	case "blake2-256", "blake2", "":
		return Blake2_256, nil
	case "keccak-256", "keccak":
		return Keccak256, nil
	default:
		return 0, fmt.Errorf("unknown hasher %q", s)
	}
}

// HashFromHex parses an optionally 0x-prefixed 32 byte hex string.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Hash{}, fmt.Errorf("decode hash: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	return Hash(b), nil
}
