package booking

import (
	"errors"
	"time"
)

var (
	ErrLeadTimeViolation     = errors.New("insufficient lead time")
	ErrDurationViolation     = errors.New("duration out of bounds")
	ErrOutsideOperatingHours = errors.New("outside operating hours")
	ErrInvalidOperatingHours = errors.New("invalid operating hours window")
)

// OperatingHours is a daily wall-clock window, expressed in minutes from
// midnight. A booking must start and end inside the window on the same
// calendar day; crossing midnight is never allowed.
type OperatingHours struct {
	openMin  int
	closeMin int
}

func NewOperatingHours(opensAt, closesAt string) (OperatingHours, error) {
	open, err := parseWallClock(opensAt)
	if err != nil {
		return OperatingHours{}, err
	}
	close, err := parseWallClock(closesAt)
	if err != nil {
		return OperatingHours{}, err
	}
	if close <= open {
		return OperatingHours{}, ErrInvalidOperatingHours
	}
	return OperatingHours{openMin: open, closeMin: close}, nil
}

func parseWallClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidOperatingHours
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether the slot lies inside the window of its own
// calendar day. The end instant may touch closing time exactly since the
// interval is half-open.
func (h OperatingHours) Contains(slot TimeSlot) bool {
	start, end := slot.Start(), slot.End()

	sy, sm, sd := start.Date()
	midnight := time.Date(sy, sm, sd, 0, 0, 0, 0, start.Location())
	endOffset := end.Sub(midnight)
	if endOffset > 24*time.Hour {
		return false // crosses midnight
	}

	startOffset := start.Sub(midnight)
	openOffset := time.Duration(h.openMin) * time.Minute
	closeOffset := time.Duration(h.closeMin) * time.Minute

	return startOffset >= openOffset && endOffset <= closeOffset
}

// AdmissionPolicy holds the rules a candidate interval must pass before the
// overlap check. Validate applies them in fixed order and returns the first
// failure.
type AdmissionPolicy struct {
	LeadTime    time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration
	Hours       OperatingHours
}

func (p AdmissionPolicy) Validate(slot TimeSlot, now time.Time) error {
	if slot.Start().Before(now.Add(p.LeadTime)) {
		return ErrLeadTimeViolation
	}

	d := slot.Duration()
	if d < p.MinDuration || d > p.MaxDuration {
		return ErrDurationViolation
	}

	if !p.Hours.Contains(slot) {
		return ErrOutsideOperatingHours
	}

	return nil
}
