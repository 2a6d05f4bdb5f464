package program

import (
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/admin"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/pause"
)

// The contract is built against the major version 1 of the custody
// interface. Compilation fails if the declared interface major differs or
// if the interface minor is older than the one required here.
const _ = uint(custody.InterfaceMajor-1) + uint(1-custody.InterfaceMajor) + uint(custody.InterfaceMinor-0)

// Version is the release of this contract implementation.
var Version = custody.Version{Major: 1, Minor: 0, Patch: 2}

// Contract is the reference program escrow.
type Contract struct {
	custody.InterfaceVersioned

	auth     x.Authenticator
	bank     cash.Controller
	admin    admin.Authority
	pause    pause.Controller
	programs orm.ModelBucket
}

var (
	_ custody.ProgramEscrow = (*Contract)(nil)
	_ custody.Pausable      = (*Contract)(nil)
	_ custody.AdminManaged  = (*Contract)(nil)
	_ custody.Versioned     = (*Contract)(nil)
)

// NewContract returns a program escrow authorizing callers with auth and
// moving funds through bank.
func NewContract(auth x.Authenticator, bank cash.Controller) *Contract {
	authority := admin.NewAuthority(pkg, auth)
	return &Contract{
		auth:     auth,
		bank:     bank,
		admin:    authority,
		pause:    pause.NewController(pkg, authority),
		programs: NewBucket(),
	}
}

// GetVersion returns the release of this implementation.
func (c *Contract) GetVersion() uint32 {
	return Version.Uint32()
}

// InitProgram registers a program. The registration must be signed by the
// program admin.
func (c *Contract) InitProgram(ctx custody.Context, db custody.KVStore, programID string, programAdmin, token custody.Address) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		if err := validateProgramID(programID); err != nil {
			return err
		}
		if c.programs.Has(db, []byte(programID)) {
			return errors.Wrapf(errors.ErrAlreadyInitialized, "program %q", programID)
		}
		if err := programAdmin.Validate(); err != nil {
			return errors.Wrap(err, "admin")
		}
		if err := x.RequireAddress(ctx, c.auth, programAdmin); err != nil {
			return errors.Wrap(err, "program admin signature required")
		}
		return c.register(ctx, db, programID, programAdmin, token)
	})
}

func (c *Contract) register(ctx custody.Context, db custody.KVStore, programID string, programAdmin, token custody.Address) error {
	if err := validateProgramID(programID); err != nil {
		return err
	}
	if c.programs.Has(db, []byte(programID)) {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "program %q", programID)
	}
	p := Program{
		Admin:   programAdmin.Clone(),
		Token:   token.Clone(),
		Balance: "0",
		Locked:  "0",
		Paid:    "0",
	}
	if err := c.programs.Put(db, []byte(programID), &p); err != nil {
		return err
	}
	if !c.admin.IsInitialized(db) {
		if err := c.admin.Init(db, programAdmin); err != nil {
			return err
		}
	}
	custody.GetLogger(ctx).Info("program initialized",
		"program", programID,
		"admin", programAdmin.String(),
		"token", token.String())
	return nil
}

// LockProgramFunds moves amount from the main signer into custody of the
// program selected by the context.
func (c *Contract) LockProgramFunds(ctx custody.Context, db custody.KVStore, amount *big.Int) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		id, p, err := c.current(ctx, db)
		if err != nil {
			return err
		}
		if err := coin.ValidatePositive(amount); err != nil {
			return err
		}
		if err := c.pause.Guard(db, pause.OpLock); err != nil {
			return err
		}
		signer := x.MainSigner(ctx, c.auth)
		if signer == nil {
			return errors.Wrap(errors.ErrUnauthorized, "no funder")
		}
		funder := signer.Address()
		if funder.Equals(Condition(id).Address()) {
			return errors.Wrap(errors.ErrInvalidInput, "funder is the custody address")
		}
		if err := p.credit(amount); err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, err.Error())
		}
		if err := c.programs.Put(db, []byte(id), p); err != nil {
			return err
		}
		if err := c.bank.MoveCoins(db, p.Token, funder, Condition(id).Address(), amount); err != nil {
			return errors.Wrap(cash.AsInvalidAmount(err), "cannot move funds into custody")
		}
		custody.GetLogger(ctx).Info("program funds locked",
			"program", id,
			"amount", amount.String(),
			"funder", funder.String(),
			"balance", p.Balance)
		return nil
	})
}

// SinglePayout pays amount to recipient from the program selected by the
// context. Only the program admin may authorize payouts.
func (c *Contract) SinglePayout(ctx custody.Context, db custody.KVStore, recipient custody.Address, amount *big.Int) error {
	return c.payout(ctx, db, []custody.Address{recipient}, []*big.Int{amount})
}

// BatchPayout pays amounts[i] to recipients[i] from the program selected by
// the context. Either all payouts succeed or none is applied.
func (c *Contract) BatchPayout(ctx custody.Context, db custody.KVStore, recipients []custody.Address, amounts []*big.Int) error {
	if len(recipients) != len(amounts) {
		return errors.Wrapf(errors.ErrInvalidAmount,
			"%d recipients and %d amounts", len(recipients), len(amounts))
	}
	if len(recipients) == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "empty batch")
	}
	return c.payout(ctx, db, recipients, amounts)
}

func (c *Contract) payout(ctx custody.Context, db custody.KVStore, recipients []custody.Address, amounts []*big.Int) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		id, p, err := c.current(ctx, db)
		if err != nil {
			return err
		}
		if err := x.RequireAddress(ctx, c.auth, p.Admin); err != nil {
			return errors.Wrap(err, "program admin signature required")
		}
		if err := c.pause.Guard(db, pause.OpRelease); err != nil {
			return err
		}
		src := Condition(id).Address()
		for i, r := range recipients {
			if err := r.Validate(); err != nil {
				return errors.Wrapf(err, "recipient %d", i)
			}
			if r.Equals(src) {
				return errors.Wrapf(errors.ErrInvalidInput, "recipient %d is the custody address", i)
			}
			if err := coin.ValidatePositive(amounts[i]); err != nil {
				return errors.Wrapf(err, "amount %d", i)
			}
		}
		total, err := coin.Sum(amounts)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, err.Error())
		}
		if err := p.debit(total); err != nil {
			return err
		}
		if err := c.programs.Put(db, []byte(id), p); err != nil {
			return err
		}
		for i, r := range recipients {
			if err := c.bank.MoveCoins(db, p.Token, src, r, amounts[i]); err != nil {
				return errors.Wrapf(cash.AsInvalidAmount(err), "payout %d", i)
			}
		}
		custody.GetLogger(ctx).Info("program payout",
			"program", id,
			"recipients", len(recipients),
			"total", total.String(),
			"balance", p.Balance)
		return nil
	})
}

// current returns the program selected by the context.
func (c *Contract) current(ctx custody.Context, db custody.ReadOnlyKVStore) (string, *Program, error) {
	id, ok := ProgramID(ctx)
	if !ok {
		return "", nil, errors.Wrap(errors.ErrNotInitialized, "no program in context")
	}
	p, err := c.GetProgram(db, id)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return "", nil, errors.Wrapf(errors.ErrNotInitialized, "program %q", id)
		}
		return "", nil, err
	}
	return id, p, nil
}

// GetRemainingBalance returns the pooled balance of the program selected by
// the context, zero if there is none.
func (c *Contract) GetRemainingBalance(ctx custody.Context, db custody.ReadOnlyKVStore) *big.Int {
	_, p, err := c.current(ctx, db)
	if err != nil {
		return coin.Zero()
	}
	return p.GetBalance()
}

// ProgramExists returns true if the program was registered.
func (c *Contract) ProgramExists(db custody.ReadOnlyKVStore, programID string) bool {
	return c.programs.Has(db, []byte(programID))
}

// GetProgram returns the full record of given program.
func (c *Contract) GetProgram(db custody.ReadOnlyKVStore, programID string) (*Program, error) {
	if err := validateProgramID(programID); err != nil {
		return nil, err
	}
	var p Program
	if err := c.programs.One(db, []byte(programID), &p); err != nil {
		return nil, errors.Wrapf(err, "program %q", programID)
	}
	return &p, nil
}

// GetAdmin returns the contract admin.
func (c *Contract) GetAdmin(db custody.ReadOnlyKVStore) custody.Address {
	return c.admin.GetAdmin(db)
}

// TransferAdmin hands over the contract admin authority. Program admins are
// not affected.
func (c *Contract) TransferAdmin(ctx custody.Context, db custody.KVStore, newAdmin custody.Address) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		return c.admin.TransferAdmin(ctx, db, newAdmin)
	})
}

func (c *Contract) IsLockPaused(db custody.ReadOnlyKVStore) bool {
	return c.pause.IsLockPaused(db)
}

func (c *Contract) IsReleasePaused(db custody.ReadOnlyKVStore) bool {
	return c.pause.IsReleasePaused(db)
}

func (c *Contract) IsRefundPaused(db custody.ReadOnlyKVStore) bool {
	return c.pause.IsRefundPaused(db)
}

// SetPaused updates the pause flags. Only the contract admin may call it.
func (c *Contract) SetPaused(ctx custody.Context, db custody.KVStore, update custody.PauseUpdate) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		return c.pause.SetPaused(ctx, db, update)
	})
}
