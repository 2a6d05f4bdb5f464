package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Deployment is the persisted record of an activated contract.
type Deployment struct {
	// InterfaceVersion is the packed interface version the contract
	// declared when it was deployed.
	InterfaceVersion uint32 `protobuf:"varint,1,opt,name=interface_version,json=interfaceVersion,proto3" json:"interface_version,omitempty"`
	// Version is the packed implementation version.
	Version uint32 `protobuf:"varint,2,opt,name=version,proto3" json:"version,omitempty"`
	// Required is the packed interface version the deployer required.
	Required uint32 `protobuf:"varint,3,opt,name=required,proto3" json:"required,omitempty"`
}

var _ custody.Model = (*Deployment)(nil)

// Validate ensures the deployed contract satisfied the requirement.
func (d *Deployment) Validate() error {
	provided := custody.UnpackVersion(d.InterfaceVersion)
	return provided.Supports(custody.UnpackVersion(d.Required))
}

// Marshal serializes the deployment.
func (d *Deployment) Marshal() ([]byte, error) {
	return proto.Marshal((*deploymentMsg)(d))
}

// Unmarshal loads the deployment from its serialized form.
func (d *Deployment) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*deploymentMsg)(d))
}

type deploymentMsg Deployment

func (m *deploymentMsg) Reset()         { *m = deploymentMsg{} }
func (m *deploymentMsg) String() string { return proto.CompactTextString(m) }
func (*deploymentMsg) ProtoMessage()    {}

func newDeploymentBucket() orm.ModelBucket {
	return orm.NewModelBucket("deploy")
}

// checkCompatible is the deploy time version gate.
func checkCompatible(contract custody.Versioned, required custody.Version) error {
	if err := contract.GetInterfaceVersion().Supports(required); err != nil {
		return errors.Wrapf(err, "contract implementation %s",
			custody.UnpackVersion(contract.GetVersion()))
	}
	return nil
}
