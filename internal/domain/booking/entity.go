package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotYetElapsed       = errors.New("booking interval has not elapsed")
	ErrReminderAlreadySent = errors.New("reminder already sent")
)

// Booking is the central record. It is constructed only through admission
// (NewBooking), mutated only by explicit cancellation or by the reconciler,
// and never physically deleted.
type Booking struct {
	id           uuid.UUID
	resourceID   uuid.UUID
	owner        Owner
	slot         TimeSlot
	status       Status
	purpose      string
	attendees    []Attendee
	reminderSent bool
	createdAt    time.Time
}

func NewBooking(resourceID uuid.UUID, owner Owner, slot TimeSlot, purpose string, attendees []Attendee, now time.Time) *Booking {
	return &Booking{
		id:         uuid.New(),
		resourceID: resourceID,
		owner:      owner,
		slot:       slot,
		status:     StatusConfirmed,
		purpose:    purpose,
		attendees:  attendees,
		createdAt:  now,
	}
}

func Reconstruct(
	id, resourceID uuid.UUID,
	owner Owner,
	slot TimeSlot,
	status Status,
	purpose string,
	attendees []Attendee,
	reminderSent bool,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		resourceID:   resourceID,
		owner:        owner,
		slot:         slot,
		status:       status,
		purpose:      purpose,
		attendees:    attendees,
		reminderSent: reminderSent,
		createdAt:    createdAt,
	}
}

// Cancel moves a confirmed booking to cancelled. Allowed before or after the
// interval has elapsed; cancelling a completed or already-cancelled booking
// fails rather than being silently ignored.
func (b *Booking) Cancel() error {
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	return nil
}

// Complete ages a confirmed booking whose interval has elapsed. Only the
// reconciler calls this; user action never completes a booking.
func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if !b.slot.ElapsedAt(now) {
		return ErrNotYetElapsed
	}
	b.status = StatusCompleted
	return nil
}

// MarkReminderSent flips the reminder flag. False→true at most once, only
// while confirmed.
func (b *Booking) MarkReminderSent() error {
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if b.reminderSent {
		return ErrReminderAlreadySent
	}
	b.reminderSent = true
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status != StatusCancelled
}

func (b *Booking) Clone() *Booking {
	c := *b
	c.attendees = make([]Attendee, len(b.attendees))
	copy(c.attendees, b.attendees)
	return &c
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) ResourceID() uuid.UUID  { return b.resourceID }
func (b *Booking) Owner() Owner           { return b.owner }
func (b *Booking) Slot() TimeSlot         { return b.slot }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) Purpose() string        { return b.purpose }
func (b *Booking) Attendees() []Attendee  { return b.attendees }
func (b *Booking) ReminderSent() bool     { return b.reminderSent }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
