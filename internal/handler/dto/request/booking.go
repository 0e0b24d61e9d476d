package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ResourceID uuid.UUID `json:"resource_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Purpose    *string   `json:"purpose,omitempty"`
	Attendees  []string  `json:"attendees,omitempty"`
}

func (r CreateBookingRequest) GetPurpose() string {
	if r.Purpose == nil {
		return ""
	}
	return strings.TrimSpace(*r.Purpose)
}

func (r CreateBookingRequest) GetAttendees() []string {
	if len(r.Attendees) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Attendees))
	for _, a := range r.Attendees {
		trimmed := strings.TrimSpace(a)
		if trimmed == "" {
			continue
		}
		names = append(names, trimmed)
	}
	return names
}
