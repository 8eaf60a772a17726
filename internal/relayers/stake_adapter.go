// Package relayers lets relayers stake through named reserves and be
// slashed into lane rewards accounts.
package relayers

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/eigerco/bridgebench/internal/balances"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/pkg/log"
)

// NamedReservableCurrency is a balances primitive with named reserves.
// Unreserve and repatriate return the amount that could NOT be moved.
type NamedReservableCurrency interface {
	ReserveNamed(id balances.ReserveID, who crypto.AccountID, amount *uint256.Int) error
	UnreserveNamed(id balances.ReserveID, who crypto.AccountID, amount *uint256.Int) (*uint256.Int, error)
	RepatriateReservedNamed(id balances.ReserveID, slashed, beneficiary crypto.AccountID, amount *uint256.Int, status balances.BalanceStatus) (*uint256.Int, error)
}

// StakeAndSlashNamed keeps relayer stakes in the reserve tagged ReserveID.
type StakeAndSlashNamed struct {
	Currency  NamedReservableCurrency
	ReserveID balances.ReserveID
	// RequiredStake is what a relayer reserves to register.
	RequiredStake *uint256.Int
	// RequiredRegistrationLease is the minimal registration length in blocks.
	RequiredRegistrationLease uint32
}

// Reserve stakes amount of relayer's free balance.
func (s StakeAndSlashNamed) Reserve(relayer crypto.AccountID, amount *uint256.Int) error {
	if err := s.Currency.ReserveNamed(s.ReserveID, relayer, amount); err != nil {
		return fmt.Errorf("reserve stake: %w", err)
	}
	return nil
}

// Unreserve releases up to amount of relayer's stake and returns what was
// released. It never exceeds what was staked.
func (s StakeAndSlashNamed) Unreserve(relayer crypto.AccountID, amount *uint256.Int) (*uint256.Int, error) {
	remaining, err := s.Currency.UnreserveNamed(s.ReserveID, relayer, amount)
	if err != nil {
		return nil, fmt.Errorf("unreserve stake: %w", err)
	}
	return movedAmount(amount, remaining), nil
}

// RepatriateReserved slashes up to amount of relayer's stake into the free
// balance of the rewards account for beneficiary and returns what was moved.
func (s StakeAndSlashNamed) RepatriateReserved(relayer crypto.AccountID, beneficiary RewardsAccountParams, amount *uint256.Int) (*uint256.Int, error) {
	account := RewardsAccount(beneficiary)
	remaining, err := s.Currency.RepatriateReservedNamed(s.ReserveID, relayer, account, amount, balances.Free)
	if err != nil {
		return nil, fmt.Errorf("repatriate stake: %w", err)
	}
	moved := movedAmount(amount, remaining)

	log.Relayers.Debug().
		Hex("relayer", relayer[:]).
		Hex("beneficiary", account[:]).
		Str("lane", beneficiary.LaneID.String()).
		Str("amount", moved.Dec()).
		Msg("slashed relayer stake")

	return moved, nil
}

func movedAmount(requested, remaining *uint256.Int) *uint256.Int {
	if remaining.Gt(requested) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(requested, remaining)
}
