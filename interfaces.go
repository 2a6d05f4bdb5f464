package custody

import "math/big"

// Amounts are signed integers bounded to the 128 bit two's complement range.
// See the coin package for range checks and arithmetic helpers.

// BountyEscrow is the custody protocol of a single deposit escrow, keyed by a
// caller supplied bounty identifier.
//
// Mutating operations are transactional: when an error is returned, no state
// change survives. Queries never fail and return zero values for unknown
// identifiers.
type BountyEscrow interface {
	// Init is a one time setup of the contract admin and the settlement
	// token. A second call fails with ErrAlreadyInitialized.
	Init(ctx Context, db KVStore, admin, token Address) error

	// LockFunds moves amount of the settlement token from depositor into
	// custody and creates a record in the Locked state. A zero deadline
	// means the escrow has no deadline.
	LockFunds(ctx Context, db KVStore, bountyID uint64, amount *big.Int, depositor Address, deadline UnixTime) error

	// ReleaseFunds transfers custodied funds to contributor.
	ReleaseFunds(ctx Context, db KVStore, bountyID uint64, contributor Address) error

	// Refund returns custodied funds to the original depositor.
	Refund(ctx Context, db KVStore, bountyID uint64) error

	// GetBalance returns the amount held in custody, zero for unknown ids.
	GetBalance(db ReadOnlyKVStore, bountyID uint64) *big.Int

	// GetStatus returns the status of the escrow. The second value is false
	// for unknown ids.
	GetStatus(db ReadOnlyKVStore, bountyID uint64) (EscrowStatus, bool)
}

// ProgramEscrow is the custody protocol of a pooled balance serving many
// payouts. Operations other than InitProgram and ProgramExists act on the
// program selected by the calling context.
type ProgramEscrow interface {
	// InitProgram registers a program. Registering the same id twice fails
	// with ErrAlreadyInitialized.
	InitProgram(ctx Context, db KVStore, programID string, admin, token Address) error

	// LockProgramFunds increases the pooled balance of the calling
	// program.
	LockProgramFunds(ctx Context, db KVStore, amount *big.Int) error

	// BatchPayout pays amounts[i] to recipients[i]. All payouts are applied
	// or none.
	BatchPayout(ctx Context, db KVStore, recipients []Address, amounts []*big.Int) error

	// SinglePayout pays amount to recipient.
	SinglePayout(ctx Context, db KVStore, recipient Address, amount *big.Int) error

	// GetRemainingBalance returns the pooled balance of the calling program
	// or zero.
	GetRemainingBalance(ctx Context, db ReadOnlyKVStore) *big.Int

	// ProgramExists returns true if a program with given id was
	// initialized.
	ProgramExists(db ReadOnlyKVStore, programID string) bool
}

// Pausable is implemented by contracts that can halt each class of custody
// mutating operations independently.
type Pausable interface {
	IsLockPaused(db ReadOnlyKVStore) bool
	IsReleasePaused(db ReadOnlyKVStore) bool
	IsRefundPaused(db ReadOnlyKVStore) bool

	// SetPaused applies a partial update of the pause flags. Only the
	// admin may call it.
	SetPaused(ctx Context, db KVStore, update PauseUpdate) error
}

// AdminManaged is implemented by contracts with a single admin identity.
type AdminManaged interface {
	// GetAdmin returns the current admin or nil before initialization.
	GetAdmin(db ReadOnlyKVStore) Address

	// TransferAdmin immediately hands the admin authority over to
	// newAdmin. Only the current admin may call it.
	TransferAdmin(ctx Context, db KVStore, newAdmin Address) error
}

// Versioned is implemented by every contract. Callers that need to decide
// whether they can talk to a contract must branch on GetInterfaceVersion.
// GetVersion reports the version of the concrete implementation and carries
// no compatibility meaning.
type Versioned interface {
	GetVersion() uint32
	GetInterfaceVersion() Version
}
