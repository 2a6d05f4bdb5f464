package custody

import (
	"fmt"

	"github.com/iov-one/custody/errors"
)

// EscrowStatus is the custody state of a single escrow record. Exactly one
// status is associated with an escrow identifier at any time. The set of
// values is closed; use Valid to reject anything decoded from untrusted
// input.
type EscrowStatus uint8

const (
	// StatusLocked is the state of freshly deposited funds.
	StatusLocked EscrowStatus = iota + 1
	// StatusReleased is terminal: all funds were paid to the recipient.
	StatusReleased
	// StatusRefunded is terminal: remaining funds went back to the
	// depositor.
	StatusRefunded
	// StatusPartiallyReleased means part of the funds was paid out and the
	// remainder is still held.
	StatusPartiallyReleased
)

// Valid reports whether the status value is within the supported range.
func (s EscrowStatus) Valid() bool {
	switch s {
	case StatusLocked, StatusReleased, StatusRefunded, StatusPartiallyReleased:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states that no operation may leave.
func (s EscrowStatus) IsTerminal() bool {
	switch s {
	case StatusReleased, StatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransition returns nil if moving from s to next is a legal transition
// of the custody state machine. Otherwise an ErrInvalidState is returned.
//
//   Locked            -> Released, Refunded, PartiallyReleased
//   PartiallyReleased -> PartiallyReleased, Released, Refunded
//   Released, Refunded are terminal
func (s EscrowStatus) CanTransition(next EscrowStatus) error {
	if !s.Valid() {
		return errors.Wrapf(errors.ErrInvalidState, "unknown status %d", s)
	}
	if !next.Valid() {
		return errors.Wrapf(errors.ErrInvalidState, "unknown status %d", next)
	}
	switch s {
	case StatusLocked:
		if next != StatusLocked {
			return nil
		}
	case StatusPartiallyReleased:
		if next != StatusLocked {
			return nil
		}
	case StatusReleased, StatusRefunded:
		return errors.Wrapf(errors.ErrInvalidState, "%s is terminal", s)
	}
	return errors.Wrapf(errors.ErrInvalidState, "%s to %s", s, next)
}

func (s EscrowStatus) String() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusReleased:
		return "Released"
	case StatusRefunded:
		return "Refunded"
	case StatusPartiallyReleased:
		return "PartiallyReleased"
	default:
		return fmt.Sprintf("EscrowStatus(%d)", uint8(s))
	}
}
