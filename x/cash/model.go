package cash

import (
	"math/big"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the balance of a single owner in a single token.
type Wallet struct {
	// Amount is the decimal representation of the balance.
	Amount string `protobuf:"bytes,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ custody.Model = (*Wallet)(nil)

// NewWallet returns a wallet holding given amount.
func NewWallet(amount *big.Int) *Wallet {
	return &Wallet{Amount: coin.Encode(amount)}
}

// Validate makes sure the balance is a non negative amount.
func (w *Wallet) Validate() error {
	a, err := coin.Decode(w.Amount)
	if err != nil {
		return err
	}
	if a.Sign() < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "negative balance")
	}
	return nil
}

// Balance returns the wallet balance. A malformed balance is reported as
// zero, Validate rejects it before it is ever stored.
func (w *Wallet) Balance() *big.Int {
	a, err := coin.Decode(w.Amount)
	if err != nil {
		return coin.Zero()
	}
	return a
}

// Marshal serializes the wallet.
func (w *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal((*walletMsg)(w))
}

// Unmarshal loads the wallet from its serialized form.
func (w *Wallet) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*walletMsg)(w))
}

type walletMsg Wallet

func (m *walletMsg) Reset()         { *m = walletMsg{} }
func (m *walletMsg) String() string { return proto.CompactTextString(m) }
func (*walletMsg) ProtoMessage()    {}

// walletKey returns the primary key of a wallet. Both parts are fixed size
// addresses so a plain concatenation is unambiguous.
func walletKey(token, owner custody.Address) []byte {
	key := make([]byte, 0, len(token)+len(owner))
	key = append(key, token...)
	return append(key, owner...)
}

// NewBucket returns a bucket for storing wallets.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}
