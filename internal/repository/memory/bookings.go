package memory

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
)

type bookingRepo struct {
	s *Store
}

func (r *bookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[booking.Item.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.users[booking.Booker.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextBookingID++
	booking.ID = r.s.nextBookingID
	r.s.bookings[booking.ID] = bookingRecord{
		id:       booking.ID,
		start:    booking.Start,
		end:      booking.End,
		status:   booking.Status,
		itemID:   booking.Item.ID,
		bookerID: booking.Booker.ID,
	}
	return nil
}

func (r *bookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	booking := r.s.bookingLocked(rec)
	return &booking, nil
}

func (r *bookingRepo) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if rec.status != from {
		return repository.ErrStatusConflict
	}
	rec.status = to
	r.s.bookings[id] = rec
	return nil
}

func (r *bookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	matched := r.collect(func(b domain.Booking) bool {
		if filter.BookerID != nil && b.Booker.ID != *filter.BookerID {
			return false
		}
		if filter.OwnerID != nil && b.Item.OwnerID != *filter.OwnerID {
			return false
		}
		return filter.State.Matches(b, filter.Now)
	})
	domain.SortByStartDesc(matched)
	start, end := filter.Page.Window(len(matched))
	return matched[start:end], nil
}

func (r *bookingRepo) FindLast(_ context.Context, itemID int64, now time.Time) (*domain.ShortBooking, error) {
	return domain.PickLast(r.byItem(itemID), now), nil
}

func (r *bookingRepo) FindNext(_ context.Context, itemID int64, now time.Time) (*domain.ShortBooking, error) {
	return domain.PickNext(r.byItem(itemID), now), nil
}

func (r *bookingRepo) ListByItemAndBookerEndedBefore(_ context.Context, itemID, bookerID int64, before time.Time) ([]domain.Booking, error) {
	matched := r.collect(func(b domain.Booking) bool {
		return b.Item.ID == itemID && b.Booker.ID == bookerID && b.End.Before(before)
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].End.After(matched[j].End) })
	return matched, nil
}

func (r *bookingRepo) byItem(itemID int64) []domain.Booking {
	return r.collect(func(b domain.Booking) bool { return b.Item.ID == itemID })
}

func (r *bookingRepo) collect(match func(domain.Booking) bool) []domain.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Booking{}
	for _, rec := range r.s.bookings {
		b := r.s.bookingLocked(rec)
		if match(b) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
