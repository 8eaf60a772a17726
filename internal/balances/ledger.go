// Package balances is a small balances ledger with named reserves, enough
// to back the relayers stake adapter.
package balances

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/eigerco/bridgebench/internal/crypto"
	"github.com/eigerco/bridgebench/internal/store"
	"github.com/eigerco/bridgebench/pkg/db"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTooManyReserves     = errors.New("too many named reserves")
	ErrExistentialDeposit  = errors.New("value is below the existential deposit")
)

// DefaultMaxReserves bounds the named reserves of one account.
const DefaultMaxReserves = 50

// BalanceStatus is where repatriated funds land on the beneficiary.
type BalanceStatus uint8

const (
	Free BalanceStatus = iota
	Reserved
)

// Ledger keeps free and reserved balances in a KVStore.
//
// An account exists while its total balance is non zero. Creating an account
// needs at least the existential deposit.
type Ledger struct {
	accounts           *store.Accounts
	existentialDeposit *uint256.Int
	maxReserves        int

	mu sync.Mutex
}

// NewLedger creates a ledger. A zero maxReserves means DefaultMaxReserves.
func NewLedger(kv db.KVStore, existentialDeposit *uint256.Int, maxReserves int) *Ledger {
	if maxReserves == 0 {
		maxReserves = DefaultMaxReserves
	}
	ed := new(uint256.Int)
	if existentialDeposit != nil {
		ed.Set(existentialDeposit)
	}
	return &Ledger{
		accounts:           store.NewAccounts(kv),
		existentialDeposit: ed,
		maxReserves:        maxReserves,
	}
}

func (l *Ledger) ExistentialDeposit() *uint256.Int {
	return new(uint256.Int).Set(l.existentialDeposit)
}

// Account returns a copy of the state of who. Unknown accounts are empty.
func (l *Ledger) Account(who crypto.AccountID) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(who)
}

func (l *Ledger) FreeBalance(who crypto.AccountID) (*uint256.Int, error) {
	a, err := l.Account(who)
	if err != nil {
		return nil, err
	}
	return a.Free, nil
}

func (l *Ledger) ReservedBalance(who crypto.AccountID) (*uint256.Int, error) {
	a, err := l.Account(who)
	if err != nil {
		return nil, err
	}
	return a.Reserved, nil
}

func (l *Ledger) ReservedBalanceNamed(id ReserveID, who crypto.AccountID) (*uint256.Int, error) {
	a, err := l.Account(who)
	if err != nil {
		return nil, err
	}
	return a.NamedReserved(id), nil
}

// TotalIssuance sums the free and reserved balance of every account.
func (l *Ledger) TotalIssuance() (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := new(uint256.Int)
	err := l.accounts.ForEach(func(_ crypto.AccountID, record []byte) error {
		a, err := decodeAccount(record)
		if err != nil {
			return err
		}
		total.Add(total, a.Total())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

// Deposit mints amount into the free balance of who.
func (l *Ledger) Deposit(who crypto.AccountID, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.load(who)
	if err != nil {
		return err
	}
	if err := l.credit(a, amount); err != nil {
		return err
	}
	return l.save(map[crypto.AccountID]*Account{who: a})
}

// Transfer moves amount between free balances. The sender may not drop
// below the existential deposit unless it is emptied.
func (l *Ledger) Transfer(from, to crypto.AccountID, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if from == to || amount.IsZero() {
		return nil
	}
	src, err := l.load(from)
	if err != nil {
		return err
	}
	if src.Free.Lt(amount) {
		return fmt.Errorf("%w: free %s, transfer %s", ErrInsufficientBalance, src.Free.Dec(), amount.Dec())
	}
	src.Free.Sub(src.Free, amount)
	if total := src.Total(); !total.IsZero() && total.Lt(l.existentialDeposit) {
		return fmt.Errorf("%w: sender would keep %s", ErrExistentialDeposit, total.Dec())
	}

	dst, err := l.load(to)
	if err != nil {
		return err
	}
	if err := l.credit(dst, amount); err != nil {
		return err
	}
	return l.save(map[crypto.AccountID]*Account{from: src, to: dst})
}

// ReserveNamed moves amount from the free balance of who into the reserve
// tagged id.
func (l *Ledger) ReserveNamed(id ReserveID, who crypto.AccountID, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.IsZero() {
		return nil
	}
	a, err := l.load(who)
	if err != nil {
		return err
	}
	if a.Free.Lt(amount) {
		return fmt.Errorf("%w: free %s, reserve %s", ErrInsufficientBalance, a.Free.Dec(), amount.Dec())
	}

	i, ok := a.reserveIndex(id)
	if !ok {
		if len(a.Reserves) >= l.maxReserves {
			return ErrTooManyReserves
		}
		a.Reserves = append(a.Reserves, NamedReserve{})
		copy(a.Reserves[i+1:], a.Reserves[i:])
		a.Reserves[i] = NamedReserve{ID: id, Amount: new(uint256.Int)}
	}

	a.Free.Sub(a.Free, amount)
	a.Reserved.Add(a.Reserved, amount)
	a.Reserves[i].Amount.Add(a.Reserves[i].Amount, amount)

	return l.save(map[crypto.AccountID]*Account{who: a})
}

// UnreserveNamed moves up to amount from the reserve tagged id back to the
// free balance of who. It returns the part of amount that was NOT moved.
func (l *Ledger) UnreserveNamed(id ReserveID, who crypto.AccountID, amount *uint256.Int) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := new(uint256.Int).Set(amount)
	if amount.IsZero() {
		return remaining, nil
	}
	a, err := l.load(who)
	if err != nil {
		return nil, err
	}
	i, ok := a.reserveIndex(id)
	if !ok {
		return remaining, nil
	}

	moved := minInt(amount, a.Reserves[i].Amount)
	a.Reserved.Sub(a.Reserved, moved)
	a.Free.Add(a.Free, moved)
	a.releaseNamed(i, moved)

	if err := l.save(map[crypto.AccountID]*Account{who: a}); err != nil {
		return nil, err
	}
	return remaining.Sub(remaining, moved), nil
}

// RepatriateReservedNamed moves up to amount from the reserve tagged id of
// slashed to beneficiary, landing in the beneficiary balance named by
// status. It returns the part of amount that was NOT moved.
func (l *Ledger) RepatriateReservedNamed(id ReserveID, slashed, beneficiary crypto.AccountID, amount *uint256.Int, status BalanceStatus) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := new(uint256.Int).Set(amount)
	if amount.IsZero() {
		return remaining, nil
	}
	src, err := l.load(slashed)
	if err != nil {
		return nil, err
	}
	i, ok := src.reserveIndex(id)
	if !ok {
		return remaining, nil
	}
	moved := minInt(amount, src.Reserves[i].Amount)

	if slashed == beneficiary {
		if status == Free {
			src.Reserved.Sub(src.Reserved, moved)
			src.Free.Add(src.Free, moved)
			src.releaseNamed(i, moved)
			if err := l.save(map[crypto.AccountID]*Account{slashed: src}); err != nil {
				return nil, err
			}
		}
		return remaining.Sub(remaining, moved), nil
	}

	dst, err := l.load(beneficiary)
	if err != nil {
		return nil, err
	}
	if dst.Total().IsZero() && moved.Lt(l.existentialDeposit) {
		return nil, fmt.Errorf("%w: beneficiary %x would receive %s", ErrExistentialDeposit, beneficiary, moved.Dec())
	}

	src.Reserved.Sub(src.Reserved, moved)
	src.releaseNamed(i, moved)
	switch status {
	case Free:
		dst.Free.Add(dst.Free, moved)
	case Reserved:
		dst.Reserved.Add(dst.Reserved, moved)
	default:
		return nil, fmt.Errorf("unknown balance status %d", status)
	}

	if err := l.save(map[crypto.AccountID]*Account{slashed: src, beneficiary: dst}); err != nil {
		return nil, err
	}
	return remaining.Sub(remaining, moved), nil
}

func (a *Account) releaseNamed(i int, amount *uint256.Int) {
	a.Reserves[i].Amount.Sub(a.Reserves[i].Amount, amount)
	if a.Reserves[i].Amount.IsZero() {
		a.Reserves = append(a.Reserves[:i], a.Reserves[i+1:]...)
	}
}

// credit adds amount to the free balance, refusing to create an account
// below the existential deposit.
func (l *Ledger) credit(a *Account, amount *uint256.Int) error {
	if a.Total().IsZero() && amount.Lt(l.existentialDeposit) {
		return fmt.Errorf("%w: %s", ErrExistentialDeposit, amount.Dec())
	}
	sum, overflow := new(uint256.Int).AddOverflow(a.Free, amount)
	if overflow {
		return errors.New("balance overflow")
	}
	a.Free = sum
	return nil
}

func (l *Ledger) load(who crypto.AccountID) (*Account, error) {
	b, found, err := l.accounts.Get(who)
	if err != nil {
		return nil, err
	}
	if !found {
		return newAccount(), nil
	}
	return decodeAccount(b)
}

func (l *Ledger) save(accounts map[crypto.AccountID]*Account) error {
	records := make(map[crypto.AccountID][]byte, len(accounts))
	for who, a := range accounts {
		if a.Total().IsZero() {
			records[who] = nil
			continue
		}
		b, err := a.encode()
		if err != nil {
			return err
		}
		records[who] = b
	}
	return l.accounts.PutAll(records)
}

func minInt(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}
