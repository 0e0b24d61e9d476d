package booking

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition leaves this status.
// Confirmed is the only non-terminal status; a booking never returns to it.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Blocks reports whether a booking in this status occupies its interval for
// overlap purposes. Completed bookings keep blocking so the historical
// non-overlap invariant stays well-defined.
func (s Status) Blocks() bool {
	return s == StatusConfirmed || s == StatusCompleted
}
