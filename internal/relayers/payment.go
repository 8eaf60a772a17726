package relayers

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/eigerco/bridgebench/internal/crypto"
)

// Transferer moves free balance between accounts.
type Transferer interface {
	Transfer(from, to crypto.AccountID, amount *uint256.Int) error
}

// PayRewardFromAccount pays relayer rewards out of the lane rewards
// accounts that slashed stakes are sent to.
type PayRewardFromAccount struct {
	Currency Transferer
}

func (p PayRewardFromAccount) PayReward(relayer crypto.AccountID, params RewardsAccountParams, reward *uint256.Int) error {
	if err := p.Currency.Transfer(RewardsAccount(params), relayer, reward); err != nil {
		return fmt.Errorf("pay reward from %x: %w", RewardsAccount(params), err)
	}
	return nil
}
