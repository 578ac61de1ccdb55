package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/repository"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// BookingService owns the booking lifecycle and the temporal queries over it.
type BookingService struct {
	bookings repository.BookingRepository
	items    repository.ItemRepository
	users    repository.UserRepository
	clock    Clock
	events   eventEmitter
	logger   *zap.Logger
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	ItemRepo    repository.ItemRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Clock       Clock
	Logger      *zap.Logger
}

// BookingCreateInput describes booking creation payload.
type BookingCreateInput struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	clock := clockOrSystem(deps.Clock)
	logger := loggerOrNop(deps.Logger)
	return &BookingService{
		bookings: deps.BookingRepo,
		items:    deps.ItemRepo,
		users:    deps.UserRepo,
		clock:    clock,
		events:   eventEmitter{dispatcher: deps.Dispatcher, clock: clock, logger: logger},
		logger:   logger,
	}
}

// Create books an item for bookerID. The booking starts out WAITING for the owner's decision.
func (s *BookingService) Create(ctx context.Context, bookerID int64, input BookingCreateInput) (*domain.Booking, error) {
	s.logger.Debug("create booking", zap.Int64("booker_id", bookerID), zap.Int64("item_id", input.ItemID))

	booker, err := s.user(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.item(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apperrors.NewValidationError("item is unavailable for booking", map[string]any{"item_id": item.ID})
	}
	if item.OwnerID == bookerID {
		return nil, apperrors.NewForbidden("owner cannot book their own item")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, apperrors.NewValidationError("start and end are required", nil)
	}
	if !domain.ValidWindow(input.Start, input.End) {
		return nil, apperrors.NewValidationError("end must be after start", map[string]any{
			"start": input.Start,
			"end":   input.End,
		})
	}

	booking := &domain.Booking{
		Start:  input.Start,
		End:    input.End,
		Status: domain.BookingWaiting,
		Item:   *item,
		Booker: *booker,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking created", zap.Int64("booking_id", booking.ID), zap.Int64("item_id", item.ID))
	s.events.publish(ctx, events.Event{
		Type:      events.EventBookingCreated,
		SubjectID: booking.ID,
		ActorID:   bookerID,
		Payload: events.BookingCreatedPayload{
			ItemID:  item.ID,
			OwnerID: item.OwnerID,
			Start:   booking.Start,
			End:     booking.End,
		},
	})
	return booking, nil
}

// ChangeStatus lets the item owner approve or reject a WAITING booking exactly once.
func (s *BookingService) ChangeStatus(ctx context.Context, ownerID, bookingID int64, approved bool) (*domain.Booking, error) {
	s.logger.Debug("change booking status", zap.Int64("owner_id", ownerID), zap.Int64("booking_id", bookingID), zap.Bool("approved", approved))

	booking, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, ownerID); err != nil {
		return nil, err
	}
	if booking.Item.OwnerID != ownerID {
		return nil, apperrors.NewForbidden("only the item owner can change booking status")
	}
	if booking.Status != domain.BookingWaiting {
		return nil, statusDecided(bookingID)
	}

	next := domain.StatusFor(approved)
	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingWaiting, next); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, statusDecided(bookingID)
		}
		return nil, notFound(err, "booking", bookingID)
	}
	previous := booking.Status
	booking.Status = next

	s.logger.Info("booking status changed", zap.Int64("booking_id", bookingID), zap.String("status", string(next)))
	s.events.publish(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: bookingID,
		ActorID:   ownerID,
		Payload: events.BookingStatusChangedPayload{
			ItemID:    booking.Item.ID,
			BookerID:  booking.Booker.ID,
			OldStatus: string(previous),
			NewStatus: string(next),
		},
	})
	return booking, nil
}

// Get returns a booking visible to userID. Anyone other than the booker or the item owner gets
// NotFound.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	if booking.Booker.ID != userID && booking.Item.OwnerID != userID {
		return nil, apperrors.NewNotFound("booking", map[string]any{"id": bookingID})
	}
	return booking, nil
}

// ListByBooker returns the user's bookings in state, newest start first.
func (s *BookingService) ListByBooker(ctx context.Context, userID int64, state string, page domain.Page) ([]domain.Booking, error) {
	return s.list(ctx, userID, state, page, func(f *repository.BookingFilter) { f.BookerID = &userID })
}

// ListByOwner returns bookings of the owner's items in state, newest start first.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state string, page domain.Page) ([]domain.Booking, error) {
	return s.list(ctx, ownerID, state, page, func(f *repository.BookingFilter) { f.OwnerID = &ownerID })
}

func (s *BookingService) list(ctx context.Context, userID int64, rawState string, page domain.Page, scope func(*repository.BookingFilter)) ([]domain.Booking, error) {
	s.logger.Debug("list bookings", zap.Int64("user_id", userID), zap.String("state", rawState))

	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	state, err := domain.ParseBookingState(rawState)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"state": rawState})
	}

	filter := repository.BookingFilter{State: state, Now: s.clock.Now(), Page: page}
	scope(&filter)
	return s.bookings.List(ctx, filter)
}

// LastBooking returns the approved booking of the item that ended last or is in progress.
func (s *BookingService) LastBooking(ctx context.Context, itemID int64) (*domain.ShortBooking, error) {
	if _, err := s.item(ctx, itemID); err != nil {
		return nil, err
	}
	return s.bookings.FindLast(ctx, itemID, s.clock.Now())
}

// NextBooking returns the approved booking of the item that starts soonest.
func (s *BookingService) NextBooking(ctx context.Context, itemID int64) (*domain.ShortBooking, error) {
	if _, err := s.item(ctx, itemID); err != nil {
		return nil, err
	}
	return s.bookings.FindNext(ctx, itemID, s.clock.Now())
}

// PastUserBookings returns bookings of itemID by userID that ended before the given instant.
func (s *BookingService) PastUserBookings(ctx context.Context, itemID, userID int64, before time.Time) ([]domain.Booking, error) {
	if _, err := s.item(ctx, itemID); err != nil {
		return nil, err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	return s.bookings.ListByItemAndBookerEndedBefore(ctx, itemID, userID, before)
}

func (s *BookingService) booking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return booking, nil
}

func (s *BookingService) item(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	return item, nil
}

func (s *BookingService) user(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

func statusDecided(bookingID int64) error {
	return apperrors.NewValidationError("booking status already decided", map[string]any{"booking_id": bookingID})
}
