package xcm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// MaxJunctions is the most junctions an interior location can hold (X8).
const MaxJunctions = 8

var (
	ErrTooManyJunctions = errors.New("too many junctions")
	ErrInvalidJunction  = errors.New("invalid junction")
)

// Version 3 variant indices.
const (
	versionV3 byte = 3

	junctionParachain       byte = 0
	junctionAccountID32     byte = 1
	junctionPalletInstance  byte = 4
	junctionGeneralIndex    byte = 5
	junctionOnlyChild       byte = 7
	junctionGlobalConsensus byte = 9
)

// NetworkID names a consensus system. Only the variants without payload are
// supported.
type NetworkID byte

const (
	Polkadot NetworkID = 2
	Kusama   NetworkID = 3
	Westend  NetworkID = 4
	Rococo   NetworkID = 5
	Wococo   NetworkID = 6
)

func (n NetworkID) String() string {
	switch n {
	case Polkadot:
		return "polkadot"
	case Kusama:
		return "kusama"
	case Westend:
		return "westend"
	case Rococo:
		return "rococo"
	case Wococo:
		return "wococo"
	default:
		return fmt.Sprintf("network(%d)", byte(n))
	}
}

func parseNetworkID(s string) (NetworkID, error) {
	for _, n := range []NetworkID{Polkadot, Kusama, Westend, Rococo, Wococo} {
		if n.String() == strings.ToLower(s) {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown network %q", ErrInvalidJunction, s)
}

// Junction is one step of an interior location.
type Junction interface {
	Bytes() []byte
	String() string
}

type Parachain uint32

func (p Parachain) Bytes() []byte {
	return append([]byte{junctionParachain}, codec.Compact(uint64(p))...)
}

func (p Parachain) String() string { return "parachain:" + strconv.FormatUint(uint64(p), 10) }

type AccountID32 struct {
	Network *NetworkID
	ID      crypto.AccountID
}

func (a AccountID32) Bytes() []byte {
	out := []byte{junctionAccountID32}
	out = append(out, optionalNetwork(a.Network)...)
	return append(out, a.ID[:]...)
}

func (a AccountID32) String() string { return "account:0x" + hex.EncodeToString(a.ID[:]) }

type PalletInstance uint8

func (p PalletInstance) Bytes() []byte { return []byte{junctionPalletInstance, byte(p)} }

func (p PalletInstance) String() string { return "pallet:" + strconv.FormatUint(uint64(p), 10) }

// GeneralIndex is compact encoded; indices above 2^64 are not supported.
type GeneralIndex uint64

func (g GeneralIndex) Bytes() []byte {
	return append([]byte{junctionGeneralIndex}, codec.Compact(uint64(g))...)
}

func (g GeneralIndex) String() string { return "index:" + strconv.FormatUint(uint64(g), 10) }

type OnlyChild struct{}

func (OnlyChild) Bytes() []byte  { return []byte{junctionOnlyChild} }
func (OnlyChild) String() string { return "child" }

type GlobalConsensus NetworkID

func (g GlobalConsensus) Bytes() []byte { return []byte{junctionGlobalConsensus, byte(g)} }

func (g GlobalConsensus) String() string { return "global:" + NetworkID(g).String() }

func optionalNetwork(n *NetworkID) []byte {
	if n == nil {
		return []byte{0}
	}
	return []byte{1, byte(*n)}
}

// Junctions is an interior location: a path from some context down into a
// consensus system. The empty path is Here.
type Junctions []Junction

func (j Junctions) Validate() error {
	if len(j) > MaxJunctions {
		return fmt.Errorf("%w: %d", ErrTooManyJunctions, len(j))
	}
	return nil
}

// Bytes encodes j as the X0..X8 variant holding its junctions.
func (j Junctions) Bytes() []byte {
	out := []byte{byte(len(j))}
	for _, junction := range j {
		out = append(out, junction.Bytes()...)
	}
	return out
}

func (j Junctions) String() string {
	if len(j) == 0 {
		return "here"
	}
	parts := make([]string, len(j))
	for i, junction := range j {
		parts[i] = junction.String()
	}
	return strings.Join(parts, "/")
}

// VersionedInteriorLocation wraps j in the version 3 envelope.
func VersionedInteriorLocation(j Junctions) []byte {
	return append([]byte{versionV3}, j.Bytes()...)
}

// ParseJunctions reads the form printed by Junctions.String, for example
// "global:rococo/parachain:1000/pallet:50/index:3".
func ParseJunctions(s string) (Junctions, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "here" {
		return Junctions{}, nil
	}

	var out Junctions
	for _, part := range strings.Split(s, "/") {
		kind, arg, _ := strings.Cut(part, ":")
		switch kind {
		case "parachain":
			n, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidJunction, part, err)
			}
			out = append(out, Parachain(n))
		case "pallet":
			n, err := strconv.ParseUint(arg, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidJunction, part, err)
			}
			out = append(out, PalletInstance(n))
		case "index":
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidJunction, part, err)
			}
			out = append(out, GeneralIndex(n))
		case "account":
			b, err := hex.DecodeString(strings.TrimPrefix(arg, "0x"))
			if err != nil || len(b) != crypto.AccountIDSize {
				return nil, fmt.Errorf("%w: %q: want 32 hex bytes", ErrInvalidJunction, part)
			}
			out = append(out, AccountID32{ID: crypto.AccountID(b)})
		case "global":
			n, err := parseNetworkID(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, GlobalConsensus(n))
		case "child":
			out = append(out, OnlyChild{})
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidJunction, part)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
