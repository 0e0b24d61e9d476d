//go:build unit

package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/domain/resource"
	"roombook/internal/infra"
	"roombook/internal/infra/memstore"
	"roombook/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBooking(t *testing.T, b *builder.BookingBuilder) *booking.Booking {
	t.Helper()
	domain, err := b.BuildDomain()
	require.NoError(t, err)
	return domain
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	resourceID := uuid.New()
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("insert then find", func(t *testing.T) {
		s := memstore.New()
		b := mustBooking(t, builder.NewBookingBuilder().WithResourceID(resourceID))

		require.NoError(t, s.Insert(ctx, b))

		got, err := s.FindByID(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, b.ID(), got.ID())
		assert.Equal(t, booking.StatusConfirmed, got.Status())
	})

	t.Run("overlapping insert is a conflict", func(t *testing.T) {
		s := memstore.New()
		first := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base, base.Add(time.Hour)))
		require.NoError(t, s.Insert(ctx, first))

		second := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base.Add(30*time.Minute), base.Add(90*time.Minute)))
		err := s.Insert(ctx, second)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("same slot on another resource is fine", func(t *testing.T) {
		s := memstore.New()
		first := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base, base.Add(time.Hour)))
		require.NoError(t, s.Insert(ctx, first))

		other := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(uuid.New()).WithSlot(base, base.Add(time.Hour)))
		assert.NoError(t, s.Insert(ctx, other))
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		s := memstore.New()
		first := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base, base.Add(time.Hour)))
		require.NoError(t, s.Insert(ctx, first))

		_, err := s.Update(ctx, first.ID(), func(b *booking.Booking) error { return b.Cancel() })
		require.NoError(t, err)

		second := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base, base.Add(time.Hour)))
		assert.NoError(t, s.Insert(ctx, second))
	})

	t.Run("completed booking still blocks", func(t *testing.T) {
		s := memstore.New()
		first := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base, base.Add(time.Hour)).AsCompleted())
		require.NoError(t, s.Insert(ctx, first))

		second := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(resourceID).WithSlot(base.Add(30*time.Minute), base.Add(90*time.Minute)))
		err := s.Insert(ctx, second)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("mutate errors pass through untouched", func(t *testing.T) {
		s := memstore.New()
		b := mustBooking(t, builder.NewBookingBuilder().AsCancelled())
		require.NoError(t, s.Insert(ctx, b))

		_, err := s.Update(ctx, b.ID(), func(b *booking.Booking) error { return b.Cancel() })
		assert.ErrorIs(t, err, booking.ErrInvalidTransition)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := memstore.New()
		_, err := s.Update(ctx, uuid.New(), func(b *booking.Booking) error { return nil })
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("failed mutate leaves the record unchanged", func(t *testing.T) {
		s := memstore.New()
		b := mustBooking(t, builder.NewBookingBuilder())
		require.NoError(t, s.Insert(ctx, b))

		_, err := s.Update(ctx, b.ID(), func(b *booking.Booking) error {
			_ = b.Cancel()
			return booking.ErrInvalidTransition
		})
		require.Error(t, err)

		got, err := s.FindByID(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, got.Status())
	})

	t.Run("concurrent transitions resolve to one winner", func(t *testing.T) {
		s := memstore.New()
		end := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
		b := mustBooking(t, builder.NewBookingBuilder().WithSlot(end.Add(-time.Hour), end))
		require.NoError(t, s.Insert(ctx, b))

		var wg sync.WaitGroup
		results := make(chan error, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, b.ID(), func(b *booking.Booking) error { return b.Cancel() })
			results <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, b.ID(), func(b *booking.Booking) error { return b.Complete(end) })
			results <- err
		}()
		wg.Wait()
		close(results)

		winners := 0
		for err := range results {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, booking.ErrInvalidTransition)
			}
		}
		assert.Equal(t, 1, winners)

		got, err := s.FindByID(ctx, b.ID())
		require.NoError(t, err)
		assert.True(t, got.Status().IsTerminal())
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	resA, resB := uuid.New(), uuid.New()
	ownerA := uuid.New()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	mk := func(res, owner uuid.UUID, offset time.Duration) *booking.Booking {
		b := mustBooking(t, builder.NewBookingBuilder().
			WithResourceID(res).WithOwnerID(owner).
			WithSlot(base.Add(offset), base.Add(offset+time.Hour)))
		require.NoError(t, s.Insert(ctx, b))
		return b
	}

	b1 := mk(resA, ownerA, 0)
	mk(resA, uuid.New(), 2*time.Hour)
	b3 := mk(resB, ownerA, 0)

	cancelled := mk(resA, ownerA, 4*time.Hour)
	_, err := s.Update(ctx, cancelled.ID(), func(b *booking.Booking) error { return b.Cancel() })
	require.NoError(t, err)

	t.Run("no filter returns all active sorted by start", func(t *testing.T) {
		got, err := s.ListActive(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, got, 3)

		var starts []time.Time
		for _, b := range got {
			starts = append(starts, b.Slot().Start())
		}
		want := []time.Time{base, base, base.Add(2 * time.Hour)}
		assert.Empty(t, cmp.Diff(want, starts))
	})

	t.Run("resource filter", func(t *testing.T) {
		got, err := s.ListActive(ctx, &resB, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, b3.ID(), got[0].ID())
	})

	t.Run("owner filter", func(t *testing.T) {
		got, err := s.ListActive(ctx, nil, &ownerA)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("combined filter", func(t *testing.T) {
		got, err := s.ListActive(ctx, &resA, &ownerA)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, b1.ID(), got[0].ID())
	})
}

func TestDueQueries(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	elapsed := mustBooking(t, builder.NewBookingBuilder().WithSlot(now.Add(-2*time.Hour), now.Add(-time.Hour)))
	running := mustBooking(t, builder.NewBookingBuilder().WithSlot(now.Add(-30*time.Minute), now.Add(30*time.Minute)))
	soon := mustBooking(t, builder.NewBookingBuilder().WithSlot(now.Add(20*time.Minute), now.Add(80*time.Minute)))
	reminded := mustBooking(t, builder.NewBookingBuilder().
		WithSlot(now.Add(25*time.Minute), now.Add(85*time.Minute)).WithReminded(true))

	for _, b := range []*booking.Booking{elapsed, running, soon, reminded} {
		require.NoError(t, s.Insert(ctx, b))
	}

	t.Run("due for completion", func(t *testing.T) {
		ids, err := s.DueForCompletion(ctx, now)
		require.NoError(t, err)
		require.Len(t, ids, 1)
		assert.Equal(t, elapsed.ID(), ids[0])
	})

	t.Run("due for reminder excludes already-reminded", func(t *testing.T) {
		due, err := s.DueForReminder(ctx, now.Add(15*time.Minute), now.Add(30*time.Minute))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, soon.ID(), due[0].ID())
	})
}

func TestCatalog(t *testing.T) {
	roomA, err := resource.NewResource(uuid.New(), "Room A", 4, nil)
	require.NoError(t, err)
	roomB, err := resource.NewResource(uuid.New(), "Room B", 10, []string{"projector"})
	require.NoError(t, err)

	c := memstore.NewCatalog(roomA, roomB)
	ctx := context.Background()

	t.Run("find by id", func(t *testing.T) {
		got, err := c.FindByID(ctx, roomA.ID())
		require.NoError(t, err)
		assert.Equal(t, "Room A", got.Name())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := c.FindByID(ctx, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		got, err := c.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Room A", got[0].Name())
		assert.Equal(t, "Room B", got[1].Name())
	})
}
