package program

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// GenesisProgram declares a program registered at genesis.
type GenesisProgram struct {
	ID    string          `json:"id"`
	Admin custody.Address `json:"admin"`
	Token custody.Address `json:"token"`
}

// Initializer registers programs declared in the genesis file. Genesis
// registration does not require signatures.
type Initializer struct {
	Contract *Contract
}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse the program list from genesis and register every
// program in declaration order.
func (i *Initializer) FromGenesis(ctx custody.Context, opts custody.Options, db custody.KVStore) error {
	var programs []GenesisProgram
	if err := opts.ReadOptions(pkg, &programs); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for n, p := range programs {
		if err := p.Admin.Validate(); err != nil {
			return errors.Wrapf(err, "program %d admin", n)
		}
		err := custody.Atomic(db, func(db custody.KVStore) error {
			return i.Contract.register(ctx, db, p.ID, p.Admin, p.Token)
		})
		if err != nil {
			return errors.Wrapf(err, "program %d", n)
		}
	}
	return nil
}
