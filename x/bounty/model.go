package bounty

import (
	"math/big"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// BucketName is where escrow records are stored.
	BucketName = "bounty"

	// pkg is the name this contract uses for its configuration and
	// genesis options.
	pkg = "bounty"
)

// Escrow is the custody record of a single bounty.
type Escrow struct {
	// Depositor is the owner of the funds and the refund destination.
	Depositor custody.Address `protobuf:"bytes,1,opt,name=depositor,proto3" json:"depositor,omitempty"`
	// Amount is the decimal representation of the locked amount.
	Amount string `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
	// Remaining is the decimal representation of the amount still held in
	// custody.
	Remaining string `protobuf:"bytes,3,opt,name=remaining,proto3" json:"remaining,omitempty"`
	// Deadline as unix timestamp. Zero means no deadline.
	Deadline int64 `protobuf:"varint,4,opt,name=deadline,proto3" json:"deadline,omitempty"`
	// Status is the custody.EscrowStatus value.
	Status uint32 `protobuf:"varint,5,opt,name=status,proto3" json:"status,omitempty"`
}

var _ custody.Model = (*Escrow)(nil)

// NewEscrow returns a freshly locked escrow.
func NewEscrow(depositor custody.Address, amount *big.Int, deadline custody.UnixTime) *Escrow {
	return &Escrow{
		Depositor: depositor,
		Amount:    coin.Encode(amount),
		Remaining: coin.Encode(amount),
		Deadline:  int64(deadline),
		Status:    uint32(custody.StatusLocked),
	}
}

// Validate ensures the escrow is consistent.
func (e *Escrow) Validate() error {
	if err := e.Depositor.Validate(); err != nil {
		return errors.Wrap(err, "depositor")
	}
	amount, err := coin.Decode(e.Amount)
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := coin.ValidatePositive(amount); err != nil {
		return errors.Wrap(err, "amount")
	}
	remaining, err := coin.Decode(e.Remaining)
	if err != nil {
		return errors.Wrap(err, "remaining")
	}
	if remaining.Sign() < 0 || !coin.IsGTE(amount, remaining) {
		return errors.Wrap(errors.ErrInvalidAmount, "remaining must be within the locked amount")
	}
	if e.Deadline < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative deadline")
	}
	st := e.GetStatus()
	if !st.Valid() {
		return errors.Wrapf(errors.ErrInvalidState, "unknown status %d", e.Status)
	}
	if st.IsTerminal() && remaining.Sign() != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "%s escrow holds funds", st)
	}
	return nil
}

// GetStatus returns the escrow status.
func (e *Escrow) GetStatus() custody.EscrowStatus {
	return custody.EscrowStatus(e.Status)
}

// Balance returns the amount held in custody.
func (e *Escrow) Balance() *big.Int {
	v, err := coin.Decode(e.Remaining)
	if err != nil {
		return coin.Zero()
	}
	return v
}

// Locked returns the amount originally locked.
func (e *Escrow) Locked() *big.Int {
	v, err := coin.Decode(e.Amount)
	if err != nil {
		return coin.Zero()
	}
	return v
}

// HasDeadline returns true if the escrow can expire.
func (e *Escrow) HasDeadline() bool {
	return e.Deadline != 0
}

// IsExpired returns true if the escrow has a deadline that has passed.
func (e *Escrow) IsExpired(ctx custody.Context) bool {
	return e.HasDeadline() && custody.IsExpired(ctx, custody.UnixTime(e.Deadline))
}

// transition moves the escrow to status to, leaving remaining in custody.
func (e *Escrow) transition(to custody.EscrowStatus, remaining *big.Int) error {
	if err := e.GetStatus().CanTransition(to); err != nil {
		return err
	}
	e.Status = uint32(to)
	e.Remaining = coin.Encode(remaining)
	return nil
}

// Marshal serializes the escrow.
func (e *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowMsg)(e))
}

// Unmarshal loads the escrow from its serialized form.
func (e *Escrow) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*escrowMsg)(e))
}

type escrowMsg Escrow

func (m *escrowMsg) Reset()         { *m = escrowMsg{} }
func (m *escrowMsg) String() string { return proto.CompactTextString(m) }
func (*escrowMsg) ProtoMessage()    {}

// Configuration is the contract setup saved by Init.
type Configuration struct {
	// Token is the only token this contract settles in.
	Token custody.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
}

// Validate ensures the configuration is complete.
func (c *Configuration) Validate() error {
	return errors.Wrap(c.Token.Validate(), "token")
}

// Marshal serializes the configuration.
func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationMsg)(c))
}

// Unmarshal loads the configuration from its serialized form.
func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationMsg)(c))
}

type configurationMsg Configuration

func (m *configurationMsg) Reset()         { *m = configurationMsg{} }
func (m *configurationMsg) String() string { return proto.CompactTextString(m) }
func (*configurationMsg) ProtoMessage()    {}

// NewBucket returns a bucket for escrow records keyed by the big endian
// encoded bounty identifier.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

func escrowKey(bountyID uint64) []byte {
	return orm.EncodeSequence(bountyID)
}

// Condition returns the condition of the address holding funds of given
// bounty in custody.
func Condition(bountyID uint64) custody.Condition {
	return custody.NewCondition(pkg, "seq", escrowKey(bountyID))
}
