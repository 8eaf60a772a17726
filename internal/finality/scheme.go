// Package finality describes how a bridged chain is finalized and keeps the
// headers the receiving side trusts.
package finality

import (
	"fmt"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/finality/parachains"
)

// Kind is the finality mechanism of a bridged chain.
type Kind uint8

const (
	// KindDirect chains are finalized by their own voting gadget.
	KindDirect Kind = iota
	// KindParachain chains are finalized through a relay chain.
	KindParachain
)

// Scheme selects the tracker a header is registered with. ParaID is only
// meaningful for parachains.
type Scheme struct {
	Kind   Kind
	ParaID parachains.ParaID
}

func Direct() Scheme {
	return Scheme{Kind: KindDirect}
}

func Parachain(id parachains.ParaID) Scheme {
	return Scheme{Kind: KindParachain, ParaID: id}
}

func (s Scheme) String() string {
	switch s.Kind {
	case KindDirect:
		return "direct"
	case KindParachain:
		return fmt.Sprintf("parachain(%d)", s.ParaID)
	default:
		return fmt.Sprintf("scheme(%d)", s.Kind)
	}
}

// Label is a metrics friendly form of the scheme kind.
func (s Scheme) Label() string {
	if s.Kind == KindParachain {
		return "parachain"
	}
	return "direct"
}

// Anchor is a header the receiving side trusts as finalized.
type Anchor struct {
	Number    block.Number
	Hash      crypto.Hash
	StateRoot crypto.Hash
}
