package relayers

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bridgebench/internal/balances"
	"github.com/eigerco/bridgebench/internal/chain"
	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/messages"
	"github.com/eigerco/bridgebench/internal/testutils"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

var (
	reserveID = balances.ReserveID(PalletID)
	lanePot   = RewardsAccountParams{
		LaneID:         messages.LaneID{0, 0, 0, 1},
		BridgedChainID: chain.ID{'r', 'l', 't', 'o'},
		Owner:          BridgedChain,
	}
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func newTestAdapter(t *testing.T) (StakeAndSlashNamed, *balances.Ledger) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, kv.Close()) })

	ledger := balances.NewLedger(kv, u(1), 0)
	return StakeAndSlashNamed{
		Currency:                  ledger,
		ReserveID:                 reserveID,
		RequiredStake:             u(100),
		RequiredRegistrationLease: 30,
	}, ledger
}

func TestRewardsAccount(t *testing.T) {
	account := RewardsAccount(lanePot)

	expected := crypto.AccountID{}
	copy(expected[:], "modlbrdgrlrs")
	copy(expected[12:], []byte{0, 0, 0, 1, 'r', 'l', 't', 'o', 1})
	assert.Equal(t, expected, account)

	assert.Equal(t, account, RewardsAccount(lanePot), "derivation is pure")

	thisSide := lanePot
	thisSide.Owner = ThisChain
	assert.NotEqual(t, account, RewardsAccount(thisSide))
}

func TestReserveAndRepatriate(t *testing.T) {
	adapter, ledger := newTestAdapter(t)
	relayer := testutils.RandomAccountID(t)
	require.NoError(t, ledger.Deposit(relayer, u(150)))

	require.NoError(t, adapter.Reserve(relayer, u(100)))

	beneficiary := RewardsAccount(lanePot)
	require.NoError(t, ledger.Deposit(beneficiary, u(10)))

	moved, err := adapter.RepatriateReserved(relayer, lanePot, u(60))
	require.NoError(t, err)
	assert.Equal(t, u(60), moved)

	free, err := ledger.FreeBalance(beneficiary)
	require.NoError(t, err)
	assert.Equal(t, u(70), free, "beneficiary free balance grows by 60")

	reserved, err := ledger.ReservedBalance(relayer)
	require.NoError(t, err)
	assert.Equal(t, u(40), reserved, "relayer reserve shrinks by 60")

	moved, err = adapter.RepatriateReserved(relayer, lanePot, u(60))
	require.NoError(t, err)
	assert.Equal(t, u(40), moved, "only what is left is slashed")
}

func TestReserveInsufficientBalance(t *testing.T) {
	adapter, ledger := newTestAdapter(t)
	relayer := testutils.RandomAccountID(t)
	require.NoError(t, ledger.Deposit(relayer, u(50)))

	err := adapter.Reserve(relayer, adapter.RequiredStake)
	assert.ErrorIs(t, err, balances.ErrInsufficientBalance)
}

func TestUnreserveNeverExceedsReserved(t *testing.T) {
	adapter, ledger := newTestAdapter(t)
	relayer := testutils.RandomAccountID(t)
	require.NoError(t, ledger.Deposit(relayer, u(150)))
	require.NoError(t, adapter.Reserve(relayer, u(100)))

	released, err := adapter.Unreserve(relayer, u(30))
	require.NoError(t, err)
	assert.Equal(t, u(30), released)

	released, err = adapter.Unreserve(relayer, u(1000))
	require.NoError(t, err)
	assert.Equal(t, u(70), released)

	released, err = adapter.Unreserve(relayer, u(1))
	require.NoError(t, err)
	assert.True(t, released.IsZero())

	free, err := ledger.FreeBalance(relayer)
	require.NoError(t, err)
	assert.Equal(t, u(150), free)
}

type mockCurrency struct {
	mock.Mock
}

func (m *mockCurrency) ReserveNamed(id balances.ReserveID, who crypto.AccountID, amount *uint256.Int) error {
	args := m.Called(id, who, amount)
	return args.Error(0)
}

func (m *mockCurrency) UnreserveNamed(id balances.ReserveID, who crypto.AccountID, amount *uint256.Int) (*uint256.Int, error) {
	args := m.Called(id, who, amount)
	remaining, _ := args.Get(0).(*uint256.Int)
	return remaining, args.Error(1)
}

func (m *mockCurrency) RepatriateReservedNamed(id balances.ReserveID, slashed, beneficiary crypto.AccountID, amount *uint256.Int, status balances.BalanceStatus) (*uint256.Int, error) {
	args := m.Called(id, slashed, beneficiary, amount, status)
	remaining, _ := args.Get(0).(*uint256.Int)
	return remaining, args.Error(1)
}

func TestCollaboratorErrorsArePropagated(t *testing.T) {
	failure := errors.New("storage failure")
	currency := &mockCurrency{}
	adapter := StakeAndSlashNamed{Currency: currency, ReserveID: reserveID}
	relayer := testutils.RandomAccountID(t)

	currency.On("ReserveNamed", reserveID, relayer, u(1)).Return(failure)
	currency.On("UnreserveNamed", reserveID, relayer, u(1)).Return(nil, failure)
	currency.On("RepatriateReservedNamed", reserveID, relayer, RewardsAccount(lanePot), u(1), balances.Free).Return(nil, failure)

	assert.ErrorIs(t, adapter.Reserve(relayer, u(1)), failure)
	_, err := adapter.Unreserve(relayer, u(1))
	assert.ErrorIs(t, err, failure)
	_, err = adapter.RepatriateReserved(relayer, lanePot, u(1))
	assert.ErrorIs(t, err, failure)

	currency.AssertExpectations(t)
}

func TestPayRewardFromAccount(t *testing.T) {
	_, ledger := newTestAdapter(t)
	relayer := testutils.RandomAccountID(t)
	pot := RewardsAccount(lanePot)
	require.NoError(t, ledger.Deposit(pot, u(100)))

	payer := PayRewardFromAccount{Currency: ledger}
	require.NoError(t, payer.PayReward(relayer, lanePot, u(25)))

	free, err := ledger.FreeBalance(relayer)
	require.NoError(t, err)
	assert.Equal(t, u(25), free)

	err = payer.PayReward(relayer, lanePot, u(1000))
	assert.ErrorIs(t, err, balances.ErrInsufficientBalance)
}
