//go:build unit

package booking_test

import (
	"testing"
	"time"

	"roombook/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy(t *testing.T) booking.AdmissionPolicy {
	t.Helper()
	hours, err := booking.NewOperatingHours("08:00", "22:00")
	require.NoError(t, err)
	return booking.AdmissionPolicy{
		LeadTime:    30 * time.Minute,
		MinDuration: 15 * time.Minute,
		MaxDuration: 4 * time.Hour,
		Hours:       hours,
	}
}

func slotAt(t *testing.T, start time.Time, d time.Duration) booking.TimeSlot {
	t.Helper()
	s, err := booking.NewTimeSlot(start, start.Add(d))
	require.NoError(t, err)
	return s
}

func TestNewOperatingHours(t *testing.T) {
	cases := []struct {
		name    string
		opens   string
		closes  string
		wantErr bool
	}{
		{name: "valid window", opens: "08:00", closes: "22:00"},
		{name: "close before open", opens: "22:00", closes: "08:00", wantErr: true},
		{name: "zero-width window", opens: "09:00", closes: "09:00", wantErr: true},
		{name: "garbage input", opens: "8am", closes: "22:00", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := booking.NewOperatingHours(c.opens, c.closes)
			if c.wantErr {
				assert.ErrorIs(t, err, booking.ErrInvalidOperatingHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdmissionPolicyValidate(t *testing.T) {
	policy := defaultPolicy(t)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("valid slot passes", func(t *testing.T) {
		slot := slotAt(t, now.Add(2*time.Hour), time.Hour)
		assert.NoError(t, policy.Validate(slot, now))
	})

	t.Run("lead time", func(t *testing.T) {
		// 10分後の開始はリードタイム30分に満たない
		slot := slotAt(t, now.Add(10*time.Minute), time.Hour)
		assert.ErrorIs(t, policy.Validate(slot, now), booking.ErrLeadTimeViolation)

		// exactly at the lead-time boundary is admissible
		slot = slotAt(t, now.Add(30*time.Minute), time.Hour)
		assert.NoError(t, policy.Validate(slot, now))

		slot = slotAt(t, now.Add(31*time.Minute), time.Hour)
		assert.NoError(t, policy.Validate(slot, now))
	})

	t.Run("duration bounds", func(t *testing.T) {
		start := now.Add(2 * time.Hour)

		assert.ErrorIs(t, policy.Validate(slotAt(t, start, 10*time.Minute), now), booking.ErrDurationViolation)
		assert.NoError(t, policy.Validate(slotAt(t, start, 15*time.Minute), now))
		assert.NoError(t, policy.Validate(slotAt(t, start, 4*time.Hour), now))
		assert.ErrorIs(t, policy.Validate(slotAt(t, start, 4*time.Hour+time.Minute), now), booking.ErrDurationViolation)
	})

	t.Run("operating hours", func(t *testing.T) {
		day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

		// 07:30 start is before opening
		slot := slotAt(t, day.Add(7*time.Hour+30*time.Minute), time.Hour)
		assert.ErrorIs(t, policy.Validate(slot, now), booking.ErrOutsideOperatingHours)

		// 21:30-22:30 spills past closing
		slot = slotAt(t, day.Add(21*time.Hour+30*time.Minute), time.Hour)
		assert.ErrorIs(t, policy.Validate(slot, now), booking.ErrOutsideOperatingHours)

		// ending exactly at closing time is allowed
		slot = slotAt(t, day.Add(21*time.Hour), time.Hour)
		assert.NoError(t, policy.Validate(slot, now))

		// starting exactly at opening time is allowed
		slot = slotAt(t, day.Add(8*time.Hour), time.Hour)
		assert.NoError(t, policy.Validate(slot, now))
	})

	t.Run("midnight crossing rejected", func(t *testing.T) {
		allDay, err := booking.NewOperatingHours("00:00", "23:59")
		require.NoError(t, err)
		p := booking.AdmissionPolicy{
			LeadTime:    0,
			MinDuration: time.Minute,
			MaxDuration: 24 * time.Hour,
			Hours:       allDay,
		}

		start := time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)
		slot := slotAt(t, start, 2*time.Hour)
		assert.ErrorIs(t, p.Validate(slot, now), booking.ErrOutsideOperatingHours)
	})

	t.Run("first failing rule wins", func(t *testing.T) {
		// violates lead time, duration and hours at once: lead time is reported
		slot := slotAt(t, now.Add(5*time.Minute), 5*time.Hour)
		assert.ErrorIs(t, policy.Validate(slot, now), booking.ErrLeadTimeViolation)
	})
}
