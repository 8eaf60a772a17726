package relayers

import (
	"github.com/eigerco/bridgebench/internal/chain"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// PalletID is the id of the relayers pallet; reward accounts are derived
// from it.
var PalletID = [8]byte{'b', 'r', 'd', 'g', 'r', 'l', 'r', 's'}

var modulePrefix = []byte("modl")

// RewardsAccountOwner is the side of the lane a rewards account pays for.
type RewardsAccountOwner uint8

const (
	ThisChain RewardsAccountOwner = iota
	BridgedChain
)

// RewardsAccountParams names the account relayer rewards for a lane are
// paid from.
type RewardsAccountParams struct {
	LaneID         messages.LaneID
	BridgedChainID chain.ID
	Owner          RewardsAccountOwner
}

// RewardsAccount derives the account for params. It is a pure function:
// "modl" ++ pallet id ++ encoded params, zero padded to 32 bytes.
func RewardsAccount(params RewardsAccountParams) crypto.AccountID {
	seed := make([]byte, 0, crypto.AccountIDSize)
	seed = append(seed, modulePrefix...)
	seed = append(seed, PalletID[:]...)
	seed = append(seed, codec.MustMarshal(params)...)

	var account crypto.AccountID
	copy(account[:], seed)
	return account
}
