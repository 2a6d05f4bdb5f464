package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() custody.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Address returns the address of the condition this key fulfils. Nil for an
// empty key.
func (p *PublicKey) Address() custody.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Validate returns an error if the key is not a well formed ed25519 key.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519PublicKeySize {
		return errors.Wrap(errors.ErrInvalidInput, "ed25519 public key")
	}
	return nil
}

// Marshal serializes the key.
func (p *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyMsg)(p))
}

// Unmarshal loads the key from its serialized form.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*publicKeyMsg)(p))
}

type publicKeyMsg PublicKey

func (m *publicKeyMsg) Reset()         { *m = publicKeyMsg{} }
func (m *publicKeyMsg) String() string { return proto.CompactTextString(m) }
func (*publicKeyMsg) ProtoMessage()    {}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// GetEd25519 returns the raw key bytes.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Marshal serializes the signature.
func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signatureMsg)(s))
}

// Unmarshal loads the signature from its serialized form.
func (s *Signature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*signatureMsg)(s))
}

type signatureMsg Signature

func (m *signatureMsg) Reset()         { *m = signatureMsg{} }
func (m *signatureMsg) String() string { return proto.CompactTextString(m) }
func (*signatureMsg) ProtoMessage()    {}
