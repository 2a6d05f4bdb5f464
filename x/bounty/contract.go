package bounty

import (
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
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
var Version = custody.Version{Major: 1, Minor: 1, Patch: 0}

// Contract is the reference bounty escrow.
type Contract struct {
	custody.InterfaceVersioned

	auth    x.Authenticator
	bank    cash.Controller
	admin   admin.Authority
	pause   pause.Controller
	escrows orm.ModelBucket
}

var (
	_ custody.BountyEscrow = (*Contract)(nil)
	_ custody.Pausable     = (*Contract)(nil)
	_ custody.AdminManaged = (*Contract)(nil)
	_ custody.Versioned    = (*Contract)(nil)
)

// NewContract returns a bounty escrow authorizing callers with auth and
// moving funds through bank.
func NewContract(auth x.Authenticator, bank cash.Controller) *Contract {
	authority := admin.NewAuthority(pkg, auth)
	return &Contract{
		auth:    auth,
		bank:    bank,
		admin:   authority,
		pause:   pause.NewController(pkg, authority),
		escrows: NewBucket(),
	}
}

// GetVersion returns the release of this implementation.
func (c *Contract) GetVersion() uint32 {
	return Version.Uint32()
}

// Init sets the admin and the settlement token. It can be called only once.
func (c *Contract) Init(ctx custody.Context, db custody.KVStore, adminAddr, token custody.Address) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		if gconf.Exists(db, pkg) {
			return errors.Wrap(errors.ErrAlreadyInitialized, "bounty contract")
		}
		if err := gconf.Save(db, pkg, &Configuration{Token: token}); err != nil {
			return err
		}
		if err := c.admin.Init(db, adminAddr); err != nil {
			return err
		}
		custody.GetLogger(ctx).Info("bounty contract initialized",
			"admin", adminAddr.String(), "token", token.String())
		return nil
	})
}

// Token returns the settlement token or nil before initialization.
func (c *Contract) Token(db custody.ReadOnlyKVStore) custody.Address {
	var conf Configuration
	if err := gconf.Load(db, pkg, &conf); err != nil {
		return nil
	}
	return conf.Token
}

func (c *Contract) token(db custody.ReadOnlyKVStore) (custody.Address, error) {
	token := c.Token(db)
	if token == nil {
		return nil, errors.Wrap(errors.ErrNotInitialized, "bounty contract")
	}
	return token, nil
}

// LockFunds moves amount from depositor into custody of a new escrow.
func (c *Contract) LockFunds(
	ctx custody.Context,
	db custody.KVStore,
	bountyID uint64,
	amount *big.Int,
	depositor custody.Address,
	deadline custody.UnixTime,
) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		token, err := c.token(db)
		if err != nil {
			return err
		}
		if err := coin.ValidatePositive(amount); err != nil {
			return err
		}
		if err := c.pause.Guard(db, pause.OpLock); err != nil {
			return err
		}
		key := escrowKey(bountyID)
		if c.escrows.Has(db, key) {
			return errors.Wrapf(errors.ErrAlreadyInitialized, "bounty %d", bountyID)
		}
		if err := depositor.Validate(); err != nil {
			return errors.Wrap(err, "depositor")
		}
		if depositor.Equals(Condition(bountyID).Address()) {
			return errors.Wrap(errors.ErrInvalidInput, "depositor is the custody address")
		}
		if err := x.RequireAddress(ctx, c.auth, depositor); err != nil {
			return errors.Wrap(err, "depositor signature required")
		}
		if err := deadline.Validate(); err != nil {
			return errors.Wrap(err, "deadline")
		}
		if !deadline.IsZero() && custody.IsExpired(ctx, deadline) {
			return errors.Wrap(errors.ErrInvalidInput, "deadline in the past")
		}

		escrow := NewEscrow(depositor, amount, deadline)
		if err := c.escrows.Put(db, key, escrow); err != nil {
			return err
		}
		if err := c.bank.MoveCoins(db, token, depositor, Condition(bountyID).Address(), amount); err != nil {
			return errors.Wrap(cash.AsInvalidAmount(err), "cannot move funds into custody")
		}
		custody.GetLogger(ctx).Info("funds locked",
			"bounty", bountyID,
			"amount", amount.String(),
			"depositor", depositor.String(),
			"deadline", deadline.String())
		return nil
	})
}

// ReleaseFunds pays everything held in custody to contributor. Only the
// admin may release funds.
func (c *Contract) ReleaseFunds(ctx custody.Context, db custody.KVStore, bountyID uint64, contributor custody.Address) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		escrow, err := c.loadForRelease(ctx, db, bountyID, contributor)
		if err != nil {
			return err
		}
		amount := escrow.Balance()
		if err := escrow.transition(custody.StatusReleased, coin.Zero()); err != nil {
			return err
		}
		if err := c.payout(db, bountyID, escrow, contributor, amount); err != nil {
			return err
		}
		custody.GetLogger(ctx).Info("funds released",
			"bounty", bountyID,
			"amount", amount.String(),
			"contributor", contributor.String())
		return nil
	})
}

// PartialRelease pays a part of the custodied funds to contributor. When
// amount equals the remaining balance the escrow is released.
func (c *Contract) PartialRelease(
	ctx custody.Context,
	db custody.KVStore,
	bountyID uint64,
	contributor custody.Address,
	amount *big.Int,
) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		if err := coin.ValidatePositive(amount); err != nil {
			return err
		}
		escrow, err := c.loadForRelease(ctx, db, bountyID, contributor)
		if err != nil {
			return err
		}
		remaining, err := coin.Sub(escrow.Balance(), amount)
		if err != nil {
			return err
		}
		if remaining.Sign() < 0 {
			return errors.Wrapf(errors.ErrInsufficientBalance, "bounty %d holds %s", bountyID, escrow.Balance())
		}
		next := custody.StatusPartiallyReleased
		if remaining.Sign() == 0 {
			next = custody.StatusReleased
		}
		if err := escrow.transition(next, remaining); err != nil {
			return err
		}
		if err := c.payout(db, bountyID, escrow, contributor, amount); err != nil {
			return err
		}
		custody.GetLogger(ctx).Info("funds partially released",
			"bounty", bountyID,
			"amount", amount.String(),
			"remaining", remaining.String(),
			"contributor", contributor.String())
		return nil
	})
}

func (c *Contract) loadForRelease(ctx custody.Context, db custody.KVStore, bountyID uint64, contributor custody.Address) (*Escrow, error) {
	if err := c.admin.RequireAdmin(ctx, db); err != nil {
		return nil, err
	}
	if err := c.pause.Guard(db, pause.OpRelease); err != nil {
		return nil, err
	}
	if err := contributor.Validate(); err != nil {
		return nil, errors.Wrap(err, "contributor")
	}
	if contributor.Equals(Condition(bountyID).Address()) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "contributor is the custody address")
	}
	return c.load(db, bountyID)
}

// Refund returns the custodied funds to the depositor. The admin can refund
// at any time, anyone else only after the deadline.
func (c *Contract) Refund(ctx custody.Context, db custody.KVStore, bountyID uint64) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		if err := c.pause.Guard(db, pause.OpRefund); err != nil {
			return err
		}
		escrow, err := c.load(db, bountyID)
		if err != nil {
			return err
		}
		if !escrow.IsExpired(ctx) {
			if err := c.admin.RequireAdmin(ctx, db); err != nil {
				return errors.Wrap(err, "only the admin can refund before the deadline")
			}
		}
		amount := escrow.Balance()
		if err := escrow.transition(custody.StatusRefunded, coin.Zero()); err != nil {
			return err
		}
		if err := c.payout(db, bountyID, escrow, escrow.Depositor, amount); err != nil {
			return err
		}
		custody.GetLogger(ctx).Info("funds refunded",
			"bounty", bountyID,
			"amount", amount.String(),
			"depositor", escrow.Depositor.String())
		return nil
	})
}

func (c *Contract) load(db custody.ReadOnlyKVStore, bountyID uint64) (*Escrow, error) {
	var escrow Escrow
	if err := c.escrows.One(db, escrowKey(bountyID), &escrow); err != nil {
		return nil, errors.Wrapf(err, "bounty %d", bountyID)
	}
	return &escrow, nil
}

// payout saves the already transitioned escrow and moves amount out of
// custody.
func (c *Contract) payout(db custody.KVStore, bountyID uint64, escrow *Escrow, dest custody.Address, amount *big.Int) error {
	token, err := c.token(db)
	if err != nil {
		return err
	}
	if err := c.escrows.Put(db, escrowKey(bountyID), escrow); err != nil {
		return err
	}
	if err := c.bank.MoveCoins(db, token, Condition(bountyID).Address(), dest, amount); err != nil {
		return errors.Wrap(cash.AsInvalidAmount(err), "cannot move funds out of custody")
	}
	return nil
}

// GetBalance returns the amount held in custody for given bounty.
func (c *Contract) GetBalance(db custody.ReadOnlyKVStore, bountyID uint64) *big.Int {
	escrow, err := c.load(db, bountyID)
	if err != nil {
		return coin.Zero()
	}
	return escrow.Balance()
}

// GetStatus returns the status of given bounty.
func (c *Contract) GetStatus(db custody.ReadOnlyKVStore, bountyID uint64) (custody.EscrowStatus, bool) {
	escrow, err := c.load(db, bountyID)
	if err != nil {
		return 0, false
	}
	return escrow.GetStatus(), true
}

// GetEscrow returns the full record of given bounty.
func (c *Contract) GetEscrow(db custody.ReadOnlyKVStore, bountyID uint64) (*Escrow, error) {
	return c.load(db, bountyID)
}

// GetAdmin returns the contract admin.
func (c *Contract) GetAdmin(db custody.ReadOnlyKVStore) custody.Address {
	return c.admin.GetAdmin(db)
}

// TransferAdmin hands over the admin authority.
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

// SetPaused updates the pause flags. Only the admin may call it.
func (c *Contract) SetPaused(ctx custody.Context, db custody.KVStore, update custody.PauseUpdate) error {
	return custody.Atomic(db, func(db custody.KVStore) error {
		return c.pause.SetPaused(ctx, db, update)
	})
}
