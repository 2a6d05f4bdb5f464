package cash

import (
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller is the transfer capability custody contracts depend on.
type Controller interface {
	// Balance returns the amount of token held by owner, zero if none.
	Balance(db custody.ReadOnlyKVStore, token, owner custody.Address) *big.Int

	// MoveCoins moves amount of token from src to dest. It fails with
	// ErrInsufficientBalance if src does not hold enough funds.
	MoveCoins(db custody.KVStore, token, src, dest custody.Address, amount *big.Int) error

	// IssueCoins credits dest with amount of token.
	IssueCoins(db custody.KVStore, token, dest custody.Address, amount *big.Int) error
}

// BaseController is a simple implementation of the controller backed by the
// wallet bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller storing wallets in the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount of token held by owner, zero if none.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, token, owner custody.Address) *big.Int {
	var w Wallet
	if err := c.bucket.One(db, walletKey(token, owner), &w); err != nil {
		return coin.Zero()
	}
	return w.Balance()
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, token, src, dest custody.Address, amount *big.Int) error {
	if err := coin.ValidatePositive(amount); err != nil {
		return err
	}
	if err := validateAddresses(token, src, dest); err != nil {
		return err
	}

	have := c.Balance(db, token, src)
	if !coin.IsGTE(have, amount) {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s has %s, needs %s", src, have, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	left, err := coin.Sub(have, amount)
	if err != nil {
		return err
	}
	got, err := coin.Add(c.Balance(db, token, dest), amount)
	if err != nil {
		return err
	}
	if err := c.save(db, token, src, left); err != nil {
		return err
	}
	return c.save(db, token, dest, got)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db custody.KVStore, token, dest custody.Address, amount *big.Int) error {
	if err := coin.ValidatePositive(amount); err != nil {
		return err
	}
	if err := validateAddresses(token, dest); err != nil {
		return err
	}
	got, err := coin.Add(c.Balance(db, token, dest), amount)
	if err != nil {
		return err
	}
	return c.save(db, token, dest, got)
}

func (c BaseController) save(db custody.KVStore, token, owner custody.Address, amount *big.Int) error {
	key := walletKey(token, owner)
	if amount.Sign() == 0 {
		if c.bucket.Has(db, key) {
			return c.bucket.Delete(db, key)
		}
		return nil
	}
	return c.bucket.Put(db, key, NewWallet(amount))
}

// AsInvalidAmount reports an overflowing wallet as ErrInvalidAmount. Any other
// error is returned unchanged.
func AsInvalidAmount(err error) error {
	if errors.ErrOverflow.Is(err) {
		return errors.Wrap(errors.ErrInvalidAmount, err.Error())
	}
	return err
}

func validateAddresses(addrs ...custody.Address) error {
	for _, a := range addrs {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}
