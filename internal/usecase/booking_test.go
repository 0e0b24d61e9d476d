//go:build unit

package usecase_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/domain/resource"
	"roombook/internal/domain/user"
	"roombook/internal/infra/memstore"
	"roombook/internal/pkg/clock"
	"roombook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingUseCaseTestSuite struct {
	suite.Suite
	store      *memstore.Store
	catalog    *memstore.Catalog
	clock      *clock.MockClock
	uc         usecase.BookingUseCase
	resourceID uuid.UUID
	member     user.Actor
	admin      user.Actor
}

func (s *BookingUseCaseTestSuite) SetupTest() {
	s.resourceID = uuid.New()
	room, err := resource.NewResource(s.resourceID, "Meeting Room A", 8, []string{"projector"})
	s.Require().NoError(err)

	s.store = memstore.New()
	s.catalog = memstore.NewCatalog(room)
	s.clock = clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	hours, err := booking.NewOperatingHours("08:00", "22:00")
	s.Require().NoError(err)
	policy := booking.AdmissionPolicy{
		LeadTime:    30 * time.Minute,
		MinDuration: 15 * time.Minute,
		MaxDuration: 4 * time.Hour,
		Hours:       hours,
	}

	s.uc = usecase.NewBookingUseCase(s.store, s.catalog, policy, s.clock)

	s.member = user.Actor{ID: uuid.New(), Name: "Taro Yamada", Email: "taro@example.com", Role: user.RoleMember}
	s.admin = user.Actor{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: user.RoleAdmin}
}

func TestBookingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(BookingUseCaseTestSuite))
}

func (s *BookingUseCaseTestSuite) params(start, end time.Time) usecase.AdmitParams {
	return usecase.AdmitParams{
		ResourceID: s.resourceID,
		Start:      start,
		End:        end,
		Purpose:    "Planning",
	}
}

func (s *BookingUseCaseTestSuite) at(h, m int) time.Time {
	return time.Date(2025, 6, 1, h, m, 0, 0, time.UTC)
}

// ================================================================================
// Admit
// ================================================================================

func (s *BookingUseCaseTestSuite) TestAdmit() {
	ctx := context.Background()

	s.Run("valid request is admitted as confirmed", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(10, 0), s.at(11, 0)))
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed, b.Status())
		s.Equal(s.member.ID, b.Owner().ID)
		s.False(b.ReminderSent())
	})

	s.Run("unknown resource", func() {
		p := s.params(s.at(14, 0), s.at(15, 0))
		p.ResourceID = uuid.New()
		_, err := s.uc.Admit(ctx, s.member, p)
		s.ErrorIs(err, usecase.ErrResourceNotFound)
	})

	s.Run("inverted slot", func() {
		_, err := s.uc.Admit(ctx, s.member, s.params(s.at(11, 0), s.at(10, 0)))
		s.ErrorIs(err, booking.ErrInvalidTimeSlot)
	})

	s.Run("lead time 10 minutes is rejected", func() {
		_, err := s.uc.Admit(ctx, s.member, s.params(s.at(9, 10), s.at(10, 10)))
		s.ErrorIs(err, booking.ErrLeadTimeViolation)
	})

	s.Run("lead time 31 minutes is accepted", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(9, 31), s.at(10, 0)))
		s.Require().NoError(err)
		// cleanup so later sub-tests see a free morning
		_, err = s.uc.Cancel(ctx, s.member, b.ID())
		s.Require().NoError(err)
	})

	s.Run("overlapping slot is rejected with conflict", func() {
		_, err := s.uc.Admit(ctx, s.member, s.params(s.at(12, 0), s.at(13, 0)))
		s.Require().NoError(err)

		// [12:30,13:30) overlaps [12:00,13:00)
		_, err = s.uc.Admit(ctx, s.member, s.params(s.at(12, 30), s.at(13, 30)))
		s.ErrorIs(err, usecase.ErrSlotConflict)
	})

	s.Run("touching slot is admitted", func() {
		_, err := s.uc.Admit(ctx, s.member, s.params(s.at(13, 0), s.at(14, 0)))
		s.Require().NoError(err)
	})

	s.Run("cancelled slot frees the interval", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(15, 0), s.at(16, 0)))
		s.Require().NoError(err)

		_, err = s.uc.Cancel(ctx, s.member, b.ID())
		s.Require().NoError(err)

		_, err = s.uc.Admit(ctx, s.member, s.params(s.at(15, 0), s.at(16, 0)))
		s.NoError(err)
	})
}

// ================================================================================
// Cancel
// ================================================================================

func (s *BookingUseCaseTestSuite) TestCancel() {
	ctx := context.Background()

	s.Run("owner cancels own booking", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(10, 0), s.at(11, 0)))
		s.Require().NoError(err)

		cancelled, err := s.uc.Cancel(ctx, s.member, b.ID())
		s.Require().NoError(err)
		s.Equal(booking.StatusCancelled, cancelled.Status())
	})

	s.Run("stranger is forbidden", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(11, 0), s.at(12, 0)))
		s.Require().NoError(err)

		stranger := user.Actor{ID: uuid.New(), Name: "Stranger", Role: user.RoleMember}
		_, err = s.uc.Cancel(ctx, stranger, b.ID())
		s.ErrorIs(err, usecase.ErrForbidden)

		// the record is untouched
		got, err := s.uc.Get(ctx, b.ID())
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed, got.Status())
	})

	s.Run("admin cancels anyone's booking", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(13, 0), s.at(14, 0)))
		s.Require().NoError(err)

		cancelled, err := s.uc.Cancel(ctx, s.admin, b.ID())
		s.Require().NoError(err)
		s.Equal(booking.StatusCancelled, cancelled.Status())
	})

	s.Run("double cancel fails", func() {
		b, err := s.uc.Admit(ctx, s.member, s.params(s.at(15, 0), s.at(16, 0)))
		s.Require().NoError(err)

		_, err = s.uc.Cancel(ctx, s.member, b.ID())
		s.Require().NoError(err)

		_, err = s.uc.Cancel(ctx, s.member, b.ID())
		s.ErrorIs(err, booking.ErrInvalidTransition)
	})

	s.Run("unknown booking", func() {
		_, err := s.uc.Cancel(ctx, s.member, uuid.New())
		s.ErrorIs(err, usecase.ErrBookingNotFound)
	})
}

// ================================================================================
// Listing
// ================================================================================

func (s *BookingUseCaseTestSuite) TestListActive() {
	ctx := context.Background()

	b1, err := s.uc.Admit(ctx, s.member, s.params(s.at(10, 0), s.at(11, 0)))
	s.Require().NoError(err)
	b2, err := s.uc.Admit(ctx, s.member, s.params(s.at(12, 0), s.at(13, 0)))
	s.Require().NoError(err)

	_, err = s.uc.Cancel(ctx, s.member, b1.ID())
	s.Require().NoError(err)

	list, err := s.uc.ListActive(ctx, &s.resourceID, nil)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(b2.ID(), list[0].ID())

	// owner filter
	other := uuid.New()
	list, err = s.uc.ListActive(ctx, nil, &other)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *BookingUseCaseTestSuite) TestListResources() {
	list, err := s.uc.ListResources(context.Background())
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Meeting Room A", list[0].Name())
}

// ================================================================================
// Concurrency properties
// ================================================================================

// 同一スロットへの同時リクエストは必ず1件だけ成功する
func TestConcurrentAdmissionsExactlyOneWinner(t *testing.T) {
	resourceID := uuid.New()
	room, err := resource.NewResource(resourceID, "Contended Room", 8, nil)
	require.NoError(t, err)

	store := memstore.New()
	catalog := memstore.NewCatalog(room)
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	hours, err := booking.NewOperatingHours("00:00", "23:59")
	require.NoError(t, err)
	uc := usecase.NewBookingUseCase(store, catalog, booking.AdmissionPolicy{
		LeadTime:    time.Minute,
		MinDuration: time.Minute,
		MaxDuration: 8 * time.Hour,
		Hours:       hours,
	}, clk)

	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	const workers = 32

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := user.Actor{ID: uuid.New(), Name: "Racer", Role: user.RoleMember}
			_, err := uc.Admit(context.Background(), actor, usecase.AdmitParams{
				ResourceID: resourceID,
				Start:      start,
				End:        start.Add(time.Hour),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, usecase.ErrSlotConflict)
		}
	}
	require.Equal(t, 1, winners)
}

// ランダムな区間を大量に投入しても、確定済み予約同士は決して重ならない
func TestRandomAdmissionsNeverOverlap(t *testing.T) {
	resourceID := uuid.New()
	room, err := resource.NewResource(resourceID, "Fuzz Room", 8, nil)
	require.NoError(t, err)

	store := memstore.New()
	catalog := memstore.NewCatalog(room)
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	hours, err := booking.NewOperatingHours("00:00", "23:59")
	require.NoError(t, err)
	uc := usecase.NewBookingUseCase(store, catalog, booking.AdmissionPolicy{
		LeadTime:    0,
		MinDuration: time.Minute,
		MaxDuration: 23 * time.Hour,
		Hours:       hours,
	}, clk)

	rng := rand.New(rand.NewSource(42))
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	actor := user.Actor{ID: uuid.New(), Name: "Fuzzer", Role: user.RoleMember}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		startMin := rng.Intn(22 * 60)
		durMin := 15 + rng.Intn(120)
		start := day.Add(time.Duration(startMin) * time.Minute)
		end := start.Add(time.Duration(durMin) * time.Minute)
		if !end.Before(day.Add(23*time.Hour + 59*time.Minute)) {
			continue
		}

		wg.Add(1)
		go func(start, end time.Time) {
			defer wg.Done()
			_, _ = uc.Admit(context.Background(), actor, usecase.AdmitParams{
				ResourceID: resourceID,
				Start:      start,
				End:        end,
			})
		}(start, end)
	}
	wg.Wait()

	admitted, err := uc.ListActive(context.Background(), &resourceID, nil)
	require.NoError(t, err)
	require.NotEmpty(t, admitted)

	for i := 0; i < len(admitted); i++ {
		for j := i + 1; j < len(admitted); j++ {
			require.False(t, admitted[i].Slot().Overlaps(admitted[j].Slot()),
				"bookings %d and %d overlap: %v vs %v", i, j, admitted[i].Slot(), admitted[j].Slot())
		}
	}
}
