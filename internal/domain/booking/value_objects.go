package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeSlot = errors.New("invalid time slot")
	ErrEmptyOwnerName  = errors.New("owner name cannot be empty")
)

// TimeSlot is a half-open interval [start, end). Touching endpoints do not
// overlap, so back-to-back bookings are always admissible.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}

	return TimeSlot{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) ElapsedAt(now time.Time) bool {
	return !now.Before(ts.end)
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

// Owner is the identity snapshot taken at admission time. It is denormalized
// on purpose: later identity changes must not alter historical records.
type Owner struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func NewOwner(id uuid.UUID, name, email string) (Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Owner{}, ErrEmptyOwnerName
	}
	return Owner{ID: id, Name: name, Email: strings.TrimSpace(email)}, nil
}

type Attendee struct {
	Name string
}

// NormalizeAttendees trims names and drops empty entries, preserving order.
func NormalizeAttendees(names []string) []Attendee {
	out := make([]Attendee, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, Attendee{Name: n})
	}
	return out
}
