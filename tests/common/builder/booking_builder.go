//go:build unit || integration

package builder

import (
	"time"

	dombooking "roombook/internal/domain/booking"
	reqdto "roombook/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	OwnerID    uuid.UUID
	OwnerName  string
	OwnerEmail string
	Start      time.Time
	End        time.Time
	Status     dombooking.Status
	Purpose    string
	Attendees  []string
	Reminded   bool
	CreatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	// tomorrow 10:00-11:00 UTC, comfortably inside default policy
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	return &BookingBuilder{
		ID:         uuid.New(),
		ResourceID: uuid.New(),
		OwnerID:    uuid.New(),
		OwnerName:  "Taro Yamada",
		OwnerEmail: "taro@example.com",
		Start:      start,
		End:        start.Add(time.Hour),
		Status:     dombooking.StatusConfirmed,
		Purpose:    "Weekly sync",
		Attendees:  []string{"Hanako", "Jiro"},
		CreatedAt:  time.Now().UTC(),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	owner, err := dombooking.NewOwner(b.OwnerID, b.OwnerName, b.OwnerEmail)
	if err != nil {
		return nil, err
	}
	slot, err := dombooking.NewTimeSlot(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return dombooking.Reconstruct(
		b.ID,
		b.ResourceID,
		owner,
		slot,
		b.Status,
		b.Purpose,
		dombooking.NormalizeAttendees(b.Attendees),
		b.Reminded,
		b.CreatedAt,
	), nil
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	purpose := b.Purpose
	return reqdto.CreateBookingRequest{
		ResourceID: b.ResourceID,
		StartTime:  b.Start,
		EndTime:    b.End,
		Purpose:    &purpose,
		Attendees:  b.Attendees,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithResourceID(id uuid.UUID) *BookingBuilder {
	b.ResourceID = id
	return b
}

func (b *BookingBuilder) WithOwnerID(id uuid.UUID) *BookingBuilder {
	b.OwnerID = id
	return b
}

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) WithStatus(status dombooking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithReminded(sent bool) *BookingBuilder {
	b.Reminded = sent
	return b
}

func (b *BookingBuilder) AsCancelled() *BookingBuilder {
	b.Status = dombooking.StatusCancelled
	return b
}

func (b *BookingBuilder) AsCompleted() *BookingBuilder {
	b.Status = dombooking.StatusCompleted
	return b
}
