package balances

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/testutils"
	"github.com/eigerco/bridgebench/pkg/db/pebble"
)

var (
	stakeID = ReserveID{'b', 'r', 'd', 'g', 'r', 'l', 'r', 's'}
	otherID = ReserveID{'o', 't', 'h', 'e', 'r', 0, 0, 0}
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func newTestLedger(t *testing.T, ed uint64, maxReserves int) *Ledger {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, kv.Close()) })
	return NewLedger(kv, u(ed), maxReserves)
}

func fund(t *testing.T, l *Ledger, amount uint64) crypto.AccountID {
	who := testutils.RandomAccountID(t)
	require.NoError(t, l.Deposit(who, u(amount)))
	return who
}

func requireBalances(t *testing.T, l *Ledger, who crypto.AccountID, free, reserved uint64) {
	t.Helper()
	a, err := l.Account(who)
	require.NoError(t, err)
	assert.Equal(t, u(free), a.Free, "free")
	assert.Equal(t, u(reserved), a.Reserved, "reserved")
}

func TestDeposit(t *testing.T) {
	l := newTestLedger(t, 10, 0)
	who := testutils.RandomAccountID(t)

	assert.ErrorIs(t, l.Deposit(who, u(5)), ErrExistentialDeposit)
	require.NoError(t, l.Deposit(who, u(10)))
	require.NoError(t, l.Deposit(who, u(1)), "existing accounts take any amount")
	requireBalances(t, l, who, 11, 0)
	assert.Equal(t, u(10), l.ExistentialDeposit())
}

func TestReserveNamed(t *testing.T) {
	l := newTestLedger(t, 1, 0)
	who := fund(t, l, 100)

	require.NoError(t, l.ReserveNamed(stakeID, who, u(30)))
	require.NoError(t, l.ReserveNamed(stakeID, who, u(20)))
	require.NoError(t, l.ReserveNamed(otherID, who, u(5)))
	requireBalances(t, l, who, 45, 55)

	named, err := l.ReservedBalanceNamed(stakeID, who)
	require.NoError(t, err)
	assert.Equal(t, u(50), named)

	err = l.ReserveNamed(stakeID, who, u(46))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	requireBalances(t, l, who, 45, 55)

	require.NoError(t, l.ReserveNamed(stakeID, who, u(0)))
}

func TestTooManyReserves(t *testing.T) {
	l := newTestLedger(t, 1, 1)
	who := fund(t, l, 100)

	require.NoError(t, l.ReserveNamed(stakeID, who, u(1)))
	assert.ErrorIs(t, l.ReserveNamed(otherID, who, u(1)), ErrTooManyReserves)
	require.NoError(t, l.ReserveNamed(stakeID, who, u(1)), "topping up an existing reserve is fine")
}

func TestUnreserveNamed(t *testing.T) {
	l := newTestLedger(t, 1, 0)
	who := fund(t, l, 100)
	require.NoError(t, l.ReserveNamed(stakeID, who, u(40)))
	require.NoError(t, l.ReserveNamed(otherID, who, u(10)))

	remaining, err := l.UnreserveNamed(stakeID, who, u(15))
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())
	requireBalances(t, l, who, 65, 35)

	// asking for more than is reserved under the name only releases that name
	remaining, err = l.UnreserveNamed(stakeID, who, u(100))
	require.NoError(t, err)
	assert.Equal(t, u(75), remaining)
	requireBalances(t, l, who, 90, 10)

	named, err := l.ReservedBalanceNamed(stakeID, who)
	require.NoError(t, err)
	assert.True(t, named.IsZero())

	remaining, err = l.UnreserveNamed(stakeID, who, u(7))
	require.NoError(t, err)
	assert.Equal(t, u(7), remaining, "nothing reserved under the name")
}

func TestRepatriateReservedNamed(t *testing.T) {
	t.Run("to free balance", func(t *testing.T) {
		l := newTestLedger(t, 1, 0)
		relayer := fund(t, l, 100)
		beneficiary := fund(t, l, 5)
		require.NoError(t, l.ReserveNamed(stakeID, relayer, u(100)))

		remaining, err := l.RepatriateReservedNamed(stakeID, relayer, beneficiary, u(60), Free)
		require.NoError(t, err)
		assert.True(t, remaining.IsZero())
		requireBalances(t, l, relayer, 0, 40)
		requireBalances(t, l, beneficiary, 65, 0)
	})

	t.Run("to reserved balance", func(t *testing.T) {
		l := newTestLedger(t, 1, 0)
		relayer := fund(t, l, 100)
		beneficiary := fund(t, l, 5)
		require.NoError(t, l.ReserveNamed(stakeID, relayer, u(50)))

		remaining, err := l.RepatriateReservedNamed(stakeID, relayer, beneficiary, u(80), Reserved)
		require.NoError(t, err)
		assert.Equal(t, u(30), remaining)
		requireBalances(t, l, relayer, 50, 0)
		requireBalances(t, l, beneficiary, 5, 50)
	})

	t.Run("to self", func(t *testing.T) {
		l := newTestLedger(t, 1, 0)
		relayer := fund(t, l, 100)
		require.NoError(t, l.ReserveNamed(stakeID, relayer, u(50)))

		remaining, err := l.RepatriateReservedNamed(stakeID, relayer, relayer, u(20), Free)
		require.NoError(t, err)
		assert.True(t, remaining.IsZero())
		requireBalances(t, l, relayer, 70, 30)
	})

	t.Run("new beneficiary below existential deposit", func(t *testing.T) {
		l := newTestLedger(t, 10, 0)
		relayer := fund(t, l, 100)
		require.NoError(t, l.ReserveNamed(stakeID, relayer, u(50)))

		_, err := l.RepatriateReservedNamed(stakeID, relayer, testutils.RandomAccountID(t), u(5), Free)
		assert.ErrorIs(t, err, ErrExistentialDeposit)
		requireBalances(t, l, relayer, 50, 50)
	})
}

func TestTransfer(t *testing.T) {
	l := newTestLedger(t, 10, 0)
	from := fund(t, l, 100)
	to := testutils.RandomAccountID(t)

	assert.ErrorIs(t, l.Transfer(from, to, u(5)), ErrExistentialDeposit)
	assert.ErrorIs(t, l.Transfer(from, to, u(95)), ErrExistentialDeposit, "sender would be left with dust")
	assert.ErrorIs(t, l.Transfer(from, to, u(101)), ErrInsufficientBalance)

	require.NoError(t, l.Transfer(from, to, u(50)))
	requireBalances(t, l, from, 50, 0)
	requireBalances(t, l, to, 50, 0)

	require.NoError(t, l.Transfer(from, to, u(50)), "emptying the sender is fine")
	requireBalances(t, l, from, 0, 0)
	requireBalances(t, l, to, 100, 0)
}

func TestAccountPersistence(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, kv.Close())
	}()

	who := testutils.RandomAccountID(t)
	big := new(uint256.Int).Lsh(u(1), 200)

	l := NewLedger(kv, u(1), 0)
	require.NoError(t, l.Deposit(who, big))
	require.NoError(t, l.ReserveNamed(otherID, who, u(3)))
	require.NoError(t, l.ReserveNamed(stakeID, who, u(7)))

	reopened := NewLedger(kv, u(1), 0)
	a, err := reopened.Account(who)
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Sub(big, u(10)), a.Free)
	require.Len(t, a.Reserves, 2)
	assert.Equal(t, stakeID, a.Reserves[0].ID, "reserves are sorted by id")
	assert.Equal(t, u(7), a.Reserves[0].Amount)
}

func TestTotalIssuance(t *testing.T) {
	l := newTestLedger(t, 1, 0)

	total, err := l.TotalIssuance()
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	relayer := fund(t, l, 150)
	pot := fund(t, l, 10)
	require.NoError(t, l.ReserveNamed(stakeID, relayer, u(100)))

	remaining, err := l.RepatriateReservedNamed(stakeID, relayer, pot, u(60), Free)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	total, err = l.TotalIssuance()
	require.NoError(t, err)
	assert.Equal(t, u(160), total, "moving reserves between accounts keeps the issuance")
}
