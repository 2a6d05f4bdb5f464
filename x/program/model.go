package program

import (
	"math/big"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// BucketName is where program records are stored.
	BucketName = "program"

	pkg = "program"
)

var isProgramID = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{1,64}$`).MatchString

// Program is the pooled custody record of a single program.
type Program struct {
	// Admin authorizes payouts.
	Admin custody.Address `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin,omitempty"`
	// Token is the only token this program settles in.
	Token custody.Address `protobuf:"bytes,2,opt,name=token,proto3" json:"token,omitempty"`
	// Balance is the decimal representation of the amount held in custody.
	Balance string `protobuf:"bytes,3,opt,name=balance,proto3" json:"balance,omitempty"`
	// Locked is the decimal representation of all funds ever locked.
	Locked string `protobuf:"bytes,4,opt,name=locked,proto3" json:"locked,omitempty"`
	// Paid is the decimal representation of all funds ever paid out.
	Paid string `protobuf:"bytes,5,opt,name=paid,proto3" json:"paid,omitempty"`
}

var _ custody.Model = (*Program)(nil)

// Validate ensures the program is consistent. Funds held must always equal
// what was locked minus what was paid out.
func (p *Program) Validate() error {
	if err := p.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := p.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	balance, err := coin.Decode(p.Balance)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	locked, err := coin.Decode(p.Locked)
	if err != nil {
		return errors.Wrap(err, "locked")
	}
	paid, err := coin.Decode(p.Paid)
	if err != nil {
		return errors.Wrap(err, "paid")
	}
	if balance.Sign() < 0 || paid.Sign() < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "negative amount")
	}
	if want := new(big.Int).Sub(locked, paid); want.Cmp(balance) != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "balance %s, locked %s, paid %s", balance, locked, paid)
	}
	return nil
}

// GetBalance returns the amount held in custody.
func (p *Program) GetBalance() *big.Int {
	return decodeOrZero(p.Balance)
}

// TotalLocked returns the amount of all funds ever locked.
func (p *Program) TotalLocked() *big.Int {
	return decodeOrZero(p.Locked)
}

// TotalPaid returns the amount of all funds ever paid out.
func (p *Program) TotalPaid() *big.Int {
	return decodeOrZero(p.Paid)
}

func decodeOrZero(s string) *big.Int {
	v, err := coin.Decode(s)
	if err != nil {
		return coin.Zero()
	}
	return v
}

func (p *Program) credit(amount *big.Int) error {
	balance, err := coin.Add(p.GetBalance(), amount)
	if err != nil {
		return err
	}
	locked, err := coin.Add(p.TotalLocked(), amount)
	if err != nil {
		return err
	}
	p.Balance = coin.Encode(balance)
	p.Locked = coin.Encode(locked)
	return nil
}

func (p *Program) debit(amount *big.Int) error {
	if !coin.IsGTE(p.GetBalance(), amount) {
		return errors.Wrapf(errors.ErrInsufficientBalance, "program holds %s, needs %s", p.GetBalance(), amount)
	}
	balance, err := coin.Sub(p.GetBalance(), amount)
	if err != nil {
		return err
	}
	paid, err := coin.Add(p.TotalPaid(), amount)
	if err != nil {
		return err
	}
	p.Balance = coin.Encode(balance)
	p.Paid = coin.Encode(paid)
	return nil
}

// Marshal serializes the program.
func (p *Program) Marshal() ([]byte, error) {
	return proto.Marshal((*programMsg)(p))
}

// Unmarshal loads the program from its serialized form.
func (p *Program) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*programMsg)(p))
}

type programMsg Program

func (m *programMsg) Reset()         { *m = programMsg{} }
func (m *programMsg) String() string { return proto.CompactTextString(m) }
func (*programMsg) ProtoMessage()    {}

// NewBucket returns a bucket for program records keyed by the program
// identifier.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// Condition returns the condition of the address holding funds of given
// program in custody.
func Condition(programID string) custody.Condition {
	return custody.NewCondition(pkg, "id", []byte(programID))
}

func validateProgramID(programID string) error {
	if !isProgramID(programID) {
		return errors.Wrapf(errors.ErrInvalidInput, "program id %q", programID)
	}
	return nil
}
