package custody

import (
	"fmt"

	"github.com/iov-one/custody/errors"
)

// Interface version of the custody protocol. These are untyped constants so
// that callers can assert compatibility at build time (see below).
//
// Any change of InterfaceMajor is breaking: removing an operation, changing a
// parameter or a return type, or changing the numeric value of an error code.
// InterfaceMinor is increased when capabilities are added: a new operation, a
// new error code or an optional parameter. InterfacePatch carries no
// compatibility weight.
const (
	InterfaceMajor = 1
	InterfaceMinor = 0
	InterfacePatch = 0
)

// A caller contract that was written against interface version M.N asserts
// compatibility with a constant declaration. The expression cannot be
// represented as uint and the build fails when the major version differs or
// when the caller requires a minor version that does not exist yet:
//
//   const _ = uint(custody.InterfaceMajor-M) + uint(M-custody.InterfaceMajor) + uint(custody.InterfaceMinor-N)
//
// Callers that resolve contracts dynamically must use AssertInterfaceVersion
// or Version.Supports before activating a contract.

// InterfaceVersion is the version triple of the interface declared by this
// package.
var InterfaceVersion = Version{
	Major: InterfaceMajor,
	Minor: InterfaceMinor,
	Patch: InterfacePatch,
}

// Version is a (major, minor, patch) descriptor.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// Supports returns nil if a caller that requires version required can use an
// implementation of version v. The major version must be equal and the
// required minor version must not be newer than v.
func (v Version) Supports(required Version) error {
	if required.Major != v.Major {
		return errors.Wrapf(errors.ErrIncompatibleVersion,
			"major version mismatch: required %d, provided %d", required.Major, v.Major)
	}
	if required.Minor > v.Minor {
		return errors.Wrapf(errors.ErrIncompatibleVersion,
			"minor version too new: required %d, provided %d", required.Minor, v.Minor)
	}
	return nil
}

// Uint32 packs the version into a single number, major*1_000_000 +
// minor*1_000 + patch. Minor and patch must be below 1000.
func (v Version) Uint32() uint32 {
	return v.Major*1_000_000 + v.Minor*1_000 + v.Patch
}

// UnpackVersion is the reverse of Version.Uint32.
func UnpackVersion(n uint32) Version {
	return Version{
		Major: n / 1_000_000,
		Minor: n / 1_000 % 1_000,
		Patch: n % 1_000,
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AssertInterfaceVersion returns an ErrIncompatibleVersion error if a caller
// expecting given version cannot use the interface declared by this package.
func AssertInterfaceVersion(major, minor, patch uint32) error {
	return InterfaceVersion.Supports(Version{Major: major, Minor: minor, Patch: patch})
}

// InterfaceVersioned provides the GetInterfaceVersion method of the
// Versioned interface. Embed it in a contract implementation.
type InterfaceVersioned struct{}

// GetInterfaceVersion returns the interface version this package declares.
func (InterfaceVersioned) GetInterfaceVersion() Version {
	return InterfaceVersion
}

// Maj is the major version number of this module release.
const Maj = 1

// Min is the minor version number of this module release.
const Min = 0

// Fix is the patch number of this module release.
const Fix = 0

// Suffix used when not a tagged release (eg. -dev, -alpha, -beta, etc)
const Suffix = ""

// version is private to avoid modifications
var version = fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)

// GitCommit set by build flags
var GitCommit = ""

// BuildVersion is the string to be displayed
func BuildVersion() string {
	v := version
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
