package usecase

import (
	"context"
	"errors"
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/domain/resource"
	"roombook/internal/domain/user"
	"roombook/internal/infra"
	"roombook/internal/pkg/clock"
	"roombook/internal/pkg/errs"
	"roombook/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("not the owner or an administrator")
	ErrSlotConflict     = errors.New("time slot conflict")
	ErrStoreUnavailable = errors.New("store operation failed")
)

// BookingStore is the durable record store the engine runs against. Insert
// must atomically re-validate overlap for the booking's resource; Update must
// be an atomic read-modify-write on one record so concurrent transitions
// resolve to a single winner.
type BookingStore interface {
	Insert(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*booking.Booking) error) (*booking.Booking, error)
	Conflicts(ctx context.Context, resourceID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) (bool, error)
	ListActive(ctx context.Context, resourceID, ownerID *uuid.UUID) ([]*booking.Booking, error)
	ListAll(ctx context.Context) ([]*booking.Booking, error)
	DueForCompletion(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	DueForReminder(ctx context.Context, from, to time.Time) ([]*booking.Booking, error)
}

type ResourceStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	List(ctx context.Context) ([]*resource.Resource, error)
}

type AdmitParams struct {
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	Purpose    string
	Attendees  []string
}

type BookingUseCase interface {
	Admit(ctx context.Context, actor user.Actor, params AdmitParams) (*booking.Booking, error)
	Cancel(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListActive(ctx context.Context, resourceID, ownerID *uuid.UUID) ([]*booking.Booking, error)
	ListAll(ctx context.Context) ([]*booking.Booking, error)
	ListResources(ctx context.Context) ([]*resource.Resource, error)
}

type bookingUseCaseImpl struct {
	bookings  BookingStore
	resources ResourceStore
	policy    booking.AdmissionPolicy
	clock     clock.Clock
}

func NewBookingUseCase(
	bookings BookingStore,
	resources ResourceStore,
	policy booking.AdmissionPolicy,
	clock clock.Clock,
) BookingUseCase {
	return &bookingUseCaseImpl{
		bookings:  bookings,
		resources: resources,
		policy:    policy,
		clock:     clock,
	}
}

// Admit validates the request against policy and the overlap index, then
// commits. Validation order is fixed: lead time, duration, operating hours,
// overlap; the first failing rule wins. The pre-commit conflict probe is
// advisory; the store's insert is the authoritative check, so two concurrent
// requests for overlapping slots still resolve to one winner.
func (u *bookingUseCaseImpl) Admit(ctx context.Context, actor user.Actor, params AdmitParams) (*booking.Booking, error) {
	if _, err := u.resources.FindByID(ctx, params.ResourceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			metrics.IncAdmission("resource_not_found")
			return nil, ErrResourceNotFound
		}
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	slot, err := booking.NewTimeSlot(params.Start, params.End)
	if err != nil {
		metrics.IncAdmission("invalid_slot")
		return nil, err
	}

	if err := u.policy.Validate(slot, u.clock.Now()); err != nil {
		metrics.IncAdmission("policy_rejected")
		return nil, err
	}

	conflicts, err := u.bookings.Conflicts(ctx, params.ResourceID, slot, uuid.Nil)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}
	if conflicts {
		metrics.IncAdmission("conflict")
		return nil, ErrSlotConflict
	}

	owner, err := booking.NewOwner(actor.ID, actor.Name, actor.Email)
	if err != nil {
		return nil, err
	}

	b := booking.NewBooking(
		params.ResourceID,
		owner,
		slot,
		params.Purpose,
		booking.NormalizeAttendees(params.Attendees),
		u.clock.Now(),
	)

	if err := u.bookings.Insert(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			metrics.IncAdmission("conflict")
			return nil, ErrSlotConflict
		}
		metrics.IncAdmission("store_failure")
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	metrics.IncAdmission("admitted")
	return b, nil
}

// Cancel transitions a confirmed booking to cancelled on behalf of its owner
// or an administrator. The ownership check runs inside the store's atomic
// update so a concurrent reconciler transition cannot interleave.
func (u *bookingUseCaseImpl) Cancel(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	updated, err := u.bookings.Update(ctx, bookingID, func(b *booking.Booking) error {
		if b.Owner().ID != actor.ID && !actor.Role.IsAdmin() {
			return ErrForbidden
		}
		return b.Cancel()
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, ErrForbidden), errors.Is(err, booking.ErrInvalidTransition):
			return nil, err
		default:
			return nil, errs.Mark(err, ErrStoreUnavailable)
		}
	}

	metrics.IncCancellation()
	return updated, nil
}

func (u *bookingUseCaseImpl) Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := u.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}
	return b, nil
}

func (u *bookingUseCaseImpl) ListActive(ctx context.Context, resourceID, ownerID *uuid.UUID) ([]*booking.Booking, error) {
	list, err := u.bookings.ListActive(ctx, resourceID, ownerID)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}
	return list, nil
}

func (u *bookingUseCaseImpl) ListAll(ctx context.Context) ([]*booking.Booking, error) {
	list, err := u.bookings.ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}
	return list, nil
}

func (u *bookingUseCaseImpl) ListResources(ctx context.Context) ([]*resource.Resource, error) {
	list, err := u.resources.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}
	return list, nil
}
