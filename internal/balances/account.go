package balances

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/eigerco/bridgebench/pkg/serialization/codec"
)

// ReserveID tags a named reserve.
type ReserveID [8]byte

// NamedReserve is the part of an account's reserved balance held under ID.
type NamedReserve struct {
	ID     ReserveID
	Amount *uint256.Int
}

// Account is the balance state of one account.
type Account struct {
	Free     *uint256.Int
	Reserved *uint256.Int
	// Reserves is kept sorted by ID.
	Reserves []NamedReserve
}

func newAccount() *Account {
	return &Account{Free: new(uint256.Int), Reserved: new(uint256.Int)}
}

// Total is free plus reserved.
func (a *Account) Total() *uint256.Int {
	return new(uint256.Int).Add(a.Free, a.Reserved)
}

func (a *Account) reserveIndex(id ReserveID) (int, bool) {
	i := sort.Search(len(a.Reserves), func(i int) bool {
		return string(a.Reserves[i].ID[:]) >= string(id[:])
	})
	return i, i < len(a.Reserves) && a.Reserves[i].ID == id
}

// NamedReserved is the amount held under id.
func (a *Account) NamedReserved(id ReserveID) *uint256.Int {
	if i, ok := a.reserveIndex(id); ok {
		return new(uint256.Int).Set(a.Reserves[i].Amount)
	}
	return new(uint256.Int)
}

// accountRecord is the stored form of Account. Amounts are 32 byte big
// endian integers.
type accountRecord struct {
	Free     [32]byte
	Reserved [32]byte
	Reserves []reserveRecord
}

type reserveRecord struct {
	ID     [8]byte
	Amount [32]byte
}

func (a *Account) encode() ([]byte, error) {
	r := accountRecord{
		Free:     a.Free.Bytes32(),
		Reserved: a.Reserved.Bytes32(),
		Reserves: make([]reserveRecord, len(a.Reserves)),
	}
	for i, res := range a.Reserves {
		r.Reserves[i] = reserveRecord{ID: res.ID, Amount: res.Amount.Bytes32()}
	}
	b, err := codec.SCALE.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	return b, nil
}

func decodeAccount(b []byte) (*Account, error) {
	var r accountRecord
	if err := codec.SCALE.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	a := &Account{
		Free:     new(uint256.Int).SetBytes32(r.Free[:]),
		Reserved: new(uint256.Int).SetBytes32(r.Reserved[:]),
	}
	for _, res := range r.Reserves {
		a.Reserves = append(a.Reserves, NamedReserve{ID: res.ID, Amount: new(uint256.Int).SetBytes32(res.Amount[:])})
	}
	return a, nil
}
