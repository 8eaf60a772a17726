package crypto

const (
	HashSize      = 32
	AccountIDSize = 32
)

// AccountID is a 32 byte account identifier on either side of the bridge.
type AccountID [AccountIDSize]byte
