package sigs

import "github.com/iov-one/custody/errors"

// ErrInvalidSequence is returned when a signature sequence does not match the
// expected value.
var ErrInvalidSequence = errors.Register(20, "invalid sequence number")
