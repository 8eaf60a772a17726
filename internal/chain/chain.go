package chain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eigerco/bridgebench/internal/crypto"
)

var ErrUnknownChain = errors.New("unknown chain")

// ID is the 4 byte chain identifier used in bridge accounts.
type ID [4]byte

func (id ID) String() string {
	return string(id[:])
}

// Chain describes one side of a bridge.
type Chain struct {
	Name string
	ID   ID
	// Hasher is the header hasher. Parachain headers are always hashed with
	// blake2-256 regardless of this value.
	Hasher crypto.Hasher
	// MessagesPalletName is the name of the messages pallet this chain's
	// runtime uses to store outbound and inbound lanes for the bridge.
	MessagesPalletName string
	// ParaID is set for parachains, which are finalized through a relay chain.
	ParaID    uint32
	Parachain bool
}

// HeaderHasher returns the hasher headers of c are hashed with.
func (c Chain) HeaderHasher() crypto.Hasher {
	if c.Parachain {
		return crypto.Blake2_256
	}
	return c.Hasher
}

func (c Chain) Validate() error {
	if c.Name == "" {
		return errors.New("chain name is empty")
	}
	if c.MessagesPalletName == "" {
		return fmt.Errorf("chain %s: messages pallet name is empty", c.Name)
	}
	if c.Parachain && c.ParaID == 0 {
		return fmt.Errorf("chain %s: parachain without para id", c.Name)
	}
	return nil
}

var known = map[string]Chain{
	"millau": {
		Name:               "millau",
		ID:                 ID{'m', 'l', 'a', 'u'},
		Hasher:             crypto.Blake2_256,
		MessagesPalletName: "BridgeMillauMessages",
	},
	"rialto": {
		Name:               "rialto",
		ID:                 ID{'r', 'l', 't', 'o'},
		Hasher:             crypto.Blake2_256,
		MessagesPalletName: "BridgeRialtoMessages",
	},
	"rialto-parachain": {
		Name:               "rialto-parachain",
		ID:                 ID{'r', 'l', 'p', 'a'},
		Hasher:             crypto.Blake2_256,
		MessagesPalletName: "BridgeRialtoParachainMessages",
		ParaID:             2000,
		Parachain:          true,
	},
	"evochain": {
		Name:               "evochain",
		ID:                 ID{'e', 'v', 'o', 'c'},
		Hasher:             crypto.Keccak256,
		MessagesPalletName: "BridgeEvochainMessages",
	},
}

// Known returns a preset chain by name.
func Known(name string) (Chain, error) {
	c, ok := known[strings.ToLower(name)]
	if !ok {
		return Chain{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
	}
	return c, nil
}

// KnownNames lists preset chain names in order.
func KnownNames() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
