package admin

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
)

// BucketName is where admin records of all contracts are stored.
const BucketName = "admin"

// Record holds the admin of a single contract.
type Record struct {
	Admin custody.Address `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin,omitempty"`
}

var _ custody.Model = (*Record)(nil)

// Validate ensures the admin address is well formed.
func (r *Record) Validate() error {
	return errors.Wrap(r.Admin.Validate(), "admin")
}

// Marshal serializes the record.
func (r *Record) Marshal() ([]byte, error) {
	return proto.Marshal((*recordMsg)(r))
}

// Unmarshal loads the record from its serialized form.
func (r *Record) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*recordMsg)(r))
}

type recordMsg Record

func (m *recordMsg) Reset()         { *m = recordMsg{} }
func (m *recordMsg) String() string { return proto.CompactTextString(m) }
func (*recordMsg) ProtoMessage()    {}

// Authority controls the admin of a contract.
type Authority struct {
	key    []byte
	bucket orm.ModelBucket
	auth   x.Authenticator
}

// NewAuthority returns the admin authority of the contract registered under
// given namespace. auth decides whether the caller is the admin.
func NewAuthority(namespace string, auth x.Authenticator) Authority {
	return Authority{
		key:    []byte(namespace),
		bucket: orm.NewModelBucket(BucketName),
		auth:   auth,
	}
}

// Init sets the first admin. It fails with ErrAlreadyInitialized if an
// admin is already set.
func (a Authority) Init(db custody.KVStore, admin custody.Address) error {
	if a.IsInitialized(db) {
		return errors.Wrap(errors.ErrAlreadyInitialized, "admin")
	}
	if err := admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return a.bucket.Put(db, a.key, &Record{Admin: admin.Clone()})
}

// IsInitialized returns true once an admin is set.
func (a Authority) IsInitialized(db custody.ReadOnlyKVStore) bool {
	return a.bucket.Has(db, a.key)
}

// GetAdmin returns the current admin or nil before initialization.
func (a Authority) GetAdmin(db custody.ReadOnlyKVStore) custody.Address {
	var r Record
	if err := a.bucket.One(db, a.key, &r); err != nil {
		return nil
	}
	return r.Admin
}

// RequireAdmin returns nil if the context is authorized by the current
// admin.
func (a Authority) RequireAdmin(ctx custody.Context, db custody.ReadOnlyKVStore) error {
	admin := a.GetAdmin(db)
	if admin == nil {
		return errors.Wrap(errors.ErrNotInitialized, "no admin")
	}
	if !a.auth.HasAddress(ctx, admin) {
		return errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	return nil
}

// TransferAdmin replaces the admin. Only the current admin may call it. The
// change takes effect immediately.
func (a Authority) TransferAdmin(ctx custody.Context, db custody.KVStore, newAdmin custody.Address) error {
	if err := a.RequireAdmin(ctx, db); err != nil {
		return err
	}
	if err := newAdmin.Validate(); err != nil {
		return errors.Wrap(err, "new admin")
	}
	prev := a.GetAdmin(db)
	if err := a.bucket.Put(db, a.key, &Record{Admin: newAdmin.Clone()}); err != nil {
		return err
	}
	custody.GetLogger(ctx).Info("admin transferred",
		"namespace", string(a.key), "from", prev.String(), "to", newAdmin.String())
	return nil
}
