package response

import (
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/domain/resource"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resourceId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	OwnerName    string    `json:"ownerName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
	Purpose      *string   `json:"purpose,omitempty"`
	Attendees    []string  `json:"attendees,omitempty"`
	ReminderSent bool      `json:"reminderSent"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ResourceResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Capacity int       `json:"capacity"`
	Tags     []string  `json:"tags,omitempty"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:           b.ID(),
		ResourceID:   b.ResourceID(),
		OwnerID:      b.Owner().ID,
		OwnerName:    b.Owner().Name,
		StartTime:    b.Slot().Start(),
		EndTime:      b.Slot().End(),
		Status:       string(b.Status()),
		ReminderSent: b.ReminderSent(),
		CreatedAt:    b.CreatedAt(),
	}
	if p := b.Purpose(); p != "" {
		resp.Purpose = &p
	}
	for _, a := range b.Attendees() {
		resp.Attendees = append(resp.Attendees, a.Name)
	}
	return resp
}

func FromBookings(bs []*booking.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBooking(b))
	}
	return out
}

func FromResource(r *resource.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:       r.ID(),
		Name:     r.Name(),
		Capacity: r.Capacity(),
		Tags:     r.Tags(),
	}
}

func FromResources(rs []*resource.Resource) []*ResourceResponse {
	out := make([]*ResourceResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromResource(r))
	}
	return out
}
