package custodytest

import (
	"math/big"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

// BountyContract is the full capability set of a bounty escrow contract.
type BountyContract interface {
	custody.BountyEscrow
	custody.Pausable
	custody.AdminManaged
	custody.Versioned
}

// BountyEnv is a freshly initialized bounty escrow prepared for the
// conformance suite.
type BountyEnv struct {
	Contract BountyContract
	DB       custody.KVStore

	// AsAdmin is authorized as the contract admin.
	AsAdmin custody.Context
	// AsDepositor is authorized as Depositor.
	AsDepositor custody.Context
	// AsStranger is authorized as nobody relevant.
	AsStranger custody.Context

	// Depositor must hold at least 1000 tokens.
	Depositor   custody.Address
	Contributor custody.Address

	// Balance returns the amount of the settlement token held by addr
	// outside of the contract.
	Balance func(db custody.ReadOnlyKVStore, addr custody.Address) *big.Int
}

// RunBountyConformance checks that a bounty escrow implementation honors
// the behavior every caller of the custody interface relies on. setup is
// called for every case and must return an independent environment. All
// contexts must carry a block time.
func RunBountyConformance(t *testing.T, setup func(t testing.TB) *BountyEnv) {
	t.Run("unknown bounty", func(t *testing.T) {
		env := setup(t)
		assert.Amount(t, 0, env.Contract.GetBalance(env.DB, 404))
		_, ok := env.Contract.GetStatus(env.DB, 404)
		assert.Equal(t, false, ok)
	})

	t.Run("non positive amount", func(t *testing.T) {
		env := setup(t)
		for _, amount := range []int64{0, -1} {
			err := env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(amount), env.Depositor, 0)
			assert.IsErr(t, errors.ErrInvalidAmount, err)
			_, ok := env.Contract.GetStatus(env.DB, 1)
			assert.Equal(t, false, ok)
			assert.Amount(t, 0, env.Contract.GetBalance(env.DB, 1))
		}
	})

	t.Run("lock", func(t *testing.T) {
		env := setup(t)
		before := env.Balance(env.DB, env.Depositor)
		assert.Nil(t, env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(100), env.Depositor, 0))
		status, ok := env.Contract.GetStatus(env.DB, 1)
		assert.Equal(t, true, ok)
		assert.Equal(t, custody.StatusLocked, status)
		assert.Amount(t, 100, env.Contract.GetBalance(env.DB, 1))
		assert.Amount(t, before.Int64()-100, env.Balance(env.DB, env.Depositor))

		err := env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(5), env.Depositor, 0)
		assert.IsErr(t, errors.ErrAlreadyInitialized, err)
		assert.Amount(t, 100, env.Contract.GetBalance(env.DB, 1))
	})

	t.Run("released escrow cannot be refunded", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(100), env.Depositor, 0))
		assert.Nil(t, env.Contract.ReleaseFunds(env.AsAdmin, env.DB, 1, env.Contributor))
		assert.Amount(t, 100, env.Balance(env.DB, env.Contributor))

		status, _ := env.Contract.GetStatus(env.DB, 1)
		balance := env.Contract.GetBalance(env.DB, 1)

		assert.IsErr(t, errors.ErrInvalidState, env.Contract.Refund(env.AsAdmin, env.DB, 1))
		assert.IsErr(t, errors.ErrInvalidState, env.Contract.ReleaseFunds(env.AsAdmin, env.DB, 1, env.Contributor))

		after, _ := env.Contract.GetStatus(env.DB, 1)
		assert.Equal(t, status, after)
		assert.Equal(t, custody.StatusReleased, after)
		assert.Equal(t, 0, balance.Cmp(env.Contract.GetBalance(env.DB, 1)))
		assert.Amount(t, 100, env.Balance(env.DB, env.Contributor))
	})

	t.Run("refunded escrow cannot be released", func(t *testing.T) {
		env := setup(t)
		before := env.Balance(env.DB, env.Depositor)
		assert.Nil(t, env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(100), env.Depositor, 0))
		assert.Nil(t, env.Contract.Refund(env.AsAdmin, env.DB, 1))
		assert.Equal(t, 0, before.Cmp(env.Balance(env.DB, env.Depositor)))

		assert.IsErr(t, errors.ErrInvalidState, env.Contract.ReleaseFunds(env.AsAdmin, env.DB, 1, env.Contributor))
		status, _ := env.Contract.GetStatus(env.DB, 1)
		assert.Equal(t, custody.StatusRefunded, status)
		assert.Amount(t, 0, env.Contract.GetBalance(env.DB, 1))
	})

	t.Run("release requires admin", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(100), env.Depositor, 0))
		err := env.Contract.ReleaseFunds(env.AsStranger, env.DB, 1, env.Contributor)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		status, _ := env.Contract.GetStatus(env.DB, 1)
		assert.Equal(t, custody.StatusLocked, status)
		assert.Amount(t, 100, env.Contract.GetBalance(env.DB, 1))
	})

	t.Run("unknown bounty cannot be released", func(t *testing.T) {
		env := setup(t)
		err := env.Contract.ReleaseFunds(env.AsAdmin, env.DB, 7, env.Contributor)
		assert.IsErr(t, errors.ErrNotFound, err)
	})

	t.Run("pause lock", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.SetPaused(env.AsAdmin, env.DB, custody.PauseUpdate{Lock: custody.Set(true)}))
		assert.Equal(t, true, env.Contract.IsLockPaused(env.DB))
		assert.Equal(t, false, env.Contract.IsReleasePaused(env.DB))
		assert.Equal(t, false, env.Contract.IsRefundPaused(env.DB))

		for id := uint64(1); id < 4; id++ {
			err := env.Contract.LockFunds(env.AsDepositor, env.DB, id, big.NewInt(10), env.Depositor, 0)
			assert.IsErr(t, errors.ErrPaused, err)
			_, ok := env.Contract.GetStatus(env.DB, id)
			assert.Equal(t, false, ok)
		}

		assert.Nil(t, env.Contract.SetPaused(env.AsAdmin, env.DB, custody.PauseUpdate{Lock: custody.Set(false)}))
		assert.Nil(t, env.Contract.LockFunds(env.AsDepositor, env.DB, 1, big.NewInt(10), env.Depositor, 0))
	})

	t.Run("pause requires admin", func(t *testing.T) {
		env := setup(t)
		err := env.Contract.SetPaused(env.AsStranger, env.DB, custody.PauseUpdate{Refund: custody.Set(true)})
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assert.Equal(t, false, env.Contract.IsRefundPaused(env.DB))
	})

	t.Run("transfer admin", func(t *testing.T) {
		env := setup(t)
		admin := env.Contract.GetAdmin(env.DB)
		assert.Equal(t, false, admin == nil)

		err := env.Contract.TransferAdmin(env.AsStranger, env.DB, env.Contributor)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assert.Equal(t, admin, env.Contract.GetAdmin(env.DB))

		assert.Nil(t, env.Contract.TransferAdmin(env.AsAdmin, env.DB, env.Contributor))
		assert.Equal(t, env.Contributor, env.Contract.GetAdmin(env.DB))
	})

	t.Run("interface version", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.GetInterfaceVersion().Supports(custody.InterfaceVersion))
	})
}

// ProgramContract is the full capability set of a program escrow contract.
type ProgramContract interface {
	custody.ProgramEscrow
	custody.Pausable
	custody.AdminManaged
	custody.Versioned
}

// ProgramEnv is a program escrow with a single registered program prepared
// for the conformance suite.
type ProgramEnv struct {
	Contract ProgramContract
	DB       custody.KVStore

	ProgramID    string
	ProgramAdmin custody.Address
	Token        custody.Address

	// AsAdmin selects the program and is authorized as its admin, the
	// contract admin and a funder holding at least 1000 tokens.
	AsAdmin custody.Context
	// AsStranger selects the program and is authorized as nobody
	// relevant.
	AsStranger custody.Context

	// Balance returns the amount of the program token held by addr
	// outside of the contract.
	Balance func(db custody.ReadOnlyKVStore, addr custody.Address) *big.Int
}

// RunProgramConformance checks that a program escrow implementation honors
// the behavior every caller of the custody interface relies on. setup is
// called for every case and must return an independent environment.
func RunProgramConformance(t *testing.T, setup func(t testing.TB) *ProgramEnv) {
	recipients := func(t testing.TB, n int) []custody.Address {
		addrs := make([]custody.Address, n)
		for i := range addrs {
			addrs[i] = RandomAddr(t)
		}
		return addrs
	}

	t.Run("program exists", func(t *testing.T) {
		env := setup(t)
		assert.Equal(t, true, env.Contract.ProgramExists(env.DB, env.ProgramID))
		assert.Equal(t, false, env.Contract.ProgramExists(env.DB, env.ProgramID+"-unknown"))
		assert.Amount(t, 0, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))

		err := env.Contract.InitProgram(env.AsAdmin, env.DB, env.ProgramID, env.ProgramAdmin, env.Token)
		assert.IsErr(t, errors.ErrAlreadyInitialized, err)
	})

	t.Run("lock program funds", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(300)))
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(200)))
		assert.Amount(t, 500, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))

		assert.IsErr(t, errors.ErrInvalidAmount, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(0)))
		assert.Amount(t, 500, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
	})

	t.Run("batch payout", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(500)))
		to := recipients(t, 3)
		amounts := []*big.Int{big.NewInt(100), big.NewInt(150), big.NewInt(50)}
		assert.Nil(t, env.Contract.BatchPayout(env.AsAdmin, env.DB, to, amounts))
		for i, r := range to {
			assert.Amount(t, amounts[i].Int64(), env.Balance(env.DB, r))
		}
		assert.Amount(t, 200, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
	})

	t.Run("batch payout with mismatched lengths", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(500)))
		to := recipients(t, 2)
		err := env.Contract.BatchPayout(env.AsAdmin, env.DB, to, []*big.Int{big.NewInt(1)})
		assert.IsErr(t, errors.ErrInvalidAmount, err)
		assert.Amount(t, 500, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
		assert.Amount(t, 0, env.Balance(env.DB, to[0]))

		err = env.Contract.BatchPayout(env.AsAdmin, env.DB, nil, nil)
		assert.IsErr(t, errors.ErrInvalidAmount, err)
	})

	t.Run("batch payout over balance", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(500)))
		to := recipients(t, 3)
		amounts := []*big.Int{big.NewInt(200), big.NewInt(200), big.NewInt(200)}
		err := env.Contract.BatchPayout(env.AsAdmin, env.DB, to, amounts)
		assert.IsErr(t, errors.ErrInsufficientBalance, err)
		for _, r := range to {
			assert.Amount(t, 0, env.Balance(env.DB, r))
		}
		assert.Amount(t, 500, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
	})

	t.Run("single payout", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(100)))
		to := RandomAddr(t)
		assert.Nil(t, env.Contract.SinglePayout(env.AsAdmin, env.DB, to, big.NewInt(40)))
		assert.Amount(t, 40, env.Balance(env.DB, to))
		assert.Amount(t, 60, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))

		err := env.Contract.SinglePayout(env.AsAdmin, env.DB, to, big.NewInt(61))
		assert.IsErr(t, errors.ErrInsufficientBalance, err)
		err = env.Contract.SinglePayout(env.AsAdmin, env.DB, to, big.NewInt(-1))
		assert.IsErr(t, errors.ErrInvalidAmount, err)
		assert.Amount(t, 60, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
	})

	t.Run("payout requires program admin", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(100)))
		to := RandomAddr(t)
		err := env.Contract.SinglePayout(env.AsStranger, env.DB, to, big.NewInt(10))
		assert.IsErr(t, errors.ErrUnauthorized, err)
		err = env.Contract.BatchPayout(env.AsStranger, env.DB, []custody.Address{to}, []*big.Int{big.NewInt(10)})
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assert.Amount(t, 100, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
	})

	t.Run("pause release", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(100)))
		assert.Nil(t, env.Contract.SetPaused(env.AsAdmin, env.DB, custody.PauseUpdate{Release: custody.Set(true)}))
		assert.Equal(t, false, env.Contract.IsLockPaused(env.DB))

		to := RandomAddr(t)
		err := env.Contract.SinglePayout(env.AsAdmin, env.DB, to, big.NewInt(10))
		assert.IsErr(t, errors.ErrPaused, err)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(1)))
		assert.Amount(t, 101, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))

		assert.Nil(t, env.Contract.SetPaused(env.AsAdmin, env.DB, custody.PauseUpdate{Release: custody.Set(false)}))
		assert.Nil(t, env.Contract.SinglePayout(env.AsAdmin, env.DB, to, big.NewInt(10)))
	})

	t.Run("pause lock", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(100)))
		funds := env.Balance(env.DB, env.ProgramAdmin)
		assert.Nil(t, env.Contract.SetPaused(env.AsAdmin, env.DB, custody.PauseUpdate{Lock: custody.Set(true)}))
		assert.Equal(t, true, env.Contract.IsLockPaused(env.DB))
		assert.Equal(t, false, env.Contract.IsReleasePaused(env.DB))

		err := env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(50))
		assert.IsErr(t, errors.ErrPaused, err)
		assert.Amount(t, 100, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
		assert.Equal(t, 0, funds.Cmp(env.Balance(env.DB, env.ProgramAdmin)))

		assert.Nil(t, env.Contract.SetPaused(env.AsAdmin, env.DB, custody.PauseUpdate{Lock: custody.Set(false)}))
		assert.Nil(t, env.Contract.LockProgramFunds(env.AsAdmin, env.DB, big.NewInt(50)))
		assert.Amount(t, 150, env.Contract.GetRemainingBalance(env.AsAdmin, env.DB))
	})

	t.Run("transfer admin", func(t *testing.T) {
		env := setup(t)
		admin := env.Contract.GetAdmin(env.DB)
		newAdmin := RandomAddr(t)
		err := env.Contract.TransferAdmin(env.AsStranger, env.DB, newAdmin)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		assert.Equal(t, admin, env.Contract.GetAdmin(env.DB))
		assert.Nil(t, env.Contract.TransferAdmin(env.AsAdmin, env.DB, newAdmin))
		assert.Equal(t, newAdmin, env.Contract.GetAdmin(env.DB))
	})

	t.Run("interface version", func(t *testing.T) {
		env := setup(t)
		assert.Nil(t, env.Contract.GetInterfaceVersion().Supports(custody.InterfaceVersion))
	})
}
