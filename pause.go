package custody

// Toggle is a single field of a partial update. It either leaves the current
// value unchanged or sets it to an explicit value. The zero value keeps the
// current value.
type Toggle struct {
	set   bool
	value bool
}

// Keep returns a toggle that leaves the current value unchanged.
func Keep() Toggle {
	return Toggle{}
}

// Set returns a toggle that sets the value to v.
func Set(v bool) Toggle {
	return Toggle{set: true, value: v}
}

// Apply returns the value after this toggle is applied to current.
func (t Toggle) Apply(current bool) bool {
	if !t.set {
		return current
	}
	return t.value
}

// IsSet returns true if this toggle changes the value.
func (t Toggle) IsSet() bool {
	return t.set
}

// PauseUpdate describes a change of the pause flags. Each flag is updated
// independently. A flag declared with Keep retains its prior value.
type PauseUpdate struct {
	Lock    Toggle
	Release Toggle
	Refund  Toggle
}

// IsEmpty returns true if the update would not change any flag.
func (u PauseUpdate) IsEmpty() bool {
	return !u.Lock.IsSet() && !u.Release.IsSet() && !u.Refund.IsSet()
}
