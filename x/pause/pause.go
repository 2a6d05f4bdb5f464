package pause

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x/admin"
)

// BucketName is where pause flags of all contracts are stored.
const BucketName = "pause"

// Op is a class of custody mutating operations that can be paused.
type Op uint8

const (
	// OpLock covers all operations moving funds into custody.
	OpLock Op = iota + 1
	// OpRelease covers all operations paying funds out to recipients.
	OpRelease
	// OpRefund covers all operations returning funds to depositors.
	OpRefund
)

func (op Op) String() string {
	switch op {
	case OpLock:
		return "lock"
	case OpRelease:
		return "release"
	case OpRefund:
		return "refund"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// Flags is the persisted pause state of a contract.
type Flags struct {
	Lock    bool `protobuf:"varint,1,opt,name=lock,proto3" json:"lock,omitempty"`
	Release bool `protobuf:"varint,2,opt,name=release,proto3" json:"release,omitempty"`
	Refund  bool `protobuf:"varint,3,opt,name=refund,proto3" json:"refund,omitempty"`
}

var _ custody.Model = (*Flags)(nil)

// Validate is always successful, any combination of flags is valid.
func (f *Flags) Validate() error {
	return nil
}

// IsPaused returns the flag of given operation class.
func (f *Flags) IsPaused(op Op) bool {
	switch op {
	case OpLock:
		return f.Lock
	case OpRelease:
		return f.Release
	case OpRefund:
		return f.Refund
	default:
		panic(fmt.Sprintf("unknown operation %d", op))
	}
}

// Apply returns the flags after given update.
func (f Flags) Apply(u custody.PauseUpdate) Flags {
	return Flags{
		Lock:    u.Lock.Apply(f.Lock),
		Release: u.Release.Apply(f.Release),
		Refund:  u.Refund.Apply(f.Refund),
	}
}

// Marshal serializes the flags.
func (f *Flags) Marshal() ([]byte, error) {
	return proto.Marshal((*flagsMsg)(f))
}

// Unmarshal loads the flags from its serialized form.
func (f *Flags) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*flagsMsg)(f))
}

type flagsMsg Flags

func (m *flagsMsg) Reset()         { *m = flagsMsg{} }
func (m *flagsMsg) String() string { return proto.CompactTextString(m) }
func (*flagsMsg) ProtoMessage()    {}

// Controller reads and updates the pause flags of a contract.
type Controller struct {
	key       []byte
	bucket    orm.ModelBucket
	authority admin.Authority
}

// NewController returns the pause controller of the contract registered
// under given namespace. Changes are authorized by authority.
func NewController(namespace string, authority admin.Authority) Controller {
	return Controller{
		key:       []byte(namespace),
		bucket:    orm.NewModelBucket(BucketName),
		authority: authority,
	}
}

// Flags returns the current flags. A contract that never changed its flags
// has all of them clear.
func (c Controller) Flags(db custody.ReadOnlyKVStore) Flags {
	var f Flags
	if err := c.bucket.One(db, c.key, &f); err != nil {
		return Flags{}
	}
	return f
}

// IsLockPaused returns true if locking funds is halted.
func (c Controller) IsLockPaused(db custody.ReadOnlyKVStore) bool {
	return c.Flags(db).Lock
}

// IsReleasePaused returns true if releasing funds is halted.
func (c Controller) IsReleasePaused(db custody.ReadOnlyKVStore) bool {
	return c.Flags(db).Release
}

// IsRefundPaused returns true if refunding funds is halted.
func (c Controller) IsRefundPaused(db custody.ReadOnlyKVStore) bool {
	return c.Flags(db).Refund
}

// Guard returns ErrPaused if given class of operations is halted.
func (c Controller) Guard(db custody.ReadOnlyKVStore, op Op) error {
	f := c.Flags(db)
	if f.IsPaused(op) {
		return errors.Wrapf(errors.ErrPaused, "%s", op)
	}
	return nil
}

// SetPaused applies the update. Flags declared with custody.Keep retain
// their value. Only the admin may call it.
func (c Controller) SetPaused(ctx custody.Context, db custody.KVStore, update custody.PauseUpdate) error {
	if err := c.authority.RequireAdmin(ctx, db); err != nil {
		return err
	}
	if update.IsEmpty() {
		return nil
	}
	prev := c.Flags(db)
	next := prev.Apply(update)
	switch {
	case next == (Flags{}):
		// Clear flags are the default and need no record.
		if c.bucket.Has(db, c.key) {
			if err := c.bucket.Delete(db, c.key); err != nil {
				return err
			}
		}
	default:
		if err := c.bucket.Put(db, c.key, &next); err != nil {
			return err
		}
	}
	custody.GetLogger(ctx).Info("pause flags changed",
		"namespace", string(c.key),
		"lock", next.Lock,
		"release", next.Release,
		"refund", next.Refund)
	return nil
}
