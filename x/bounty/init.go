package bounty

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Genesis is the genesis configuration of the bounty contract.
type Genesis struct {
	Admin custody.Address `json:"admin"`
	Token custody.Address `json:"token"`
}

// Initializer initializes the contract from the genesis file. It is a no-op
// when the genesis does not declare the contract.
type Initializer struct {
	Contract *Contract
}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse the contract setup from genesis and initialize the
// contract.
func (i *Initializer) FromGenesis(ctx custody.Context, opts custody.Options, db custody.KVStore) error {
	var g *Genesis
	if err := opts.ReadOptions(pkg, &g); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if g == nil {
		return nil
	}
	return i.Contract.Init(ctx, db, g.Admin, g.Token)
}
