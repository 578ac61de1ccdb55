package domain

import (
	"fmt"
	"sort"
	"time"
)

// BookingStatus is the approval state of a booking.
type BookingStatus string

const (
	BookingWaiting  BookingStatus = "WAITING"
	BookingApproved BookingStatus = "APPROVED"
	BookingRejected BookingStatus = "REJECTED"
)

// Decided reports whether the owner has already approved or rejected the booking.
func (s BookingStatus) Decided() bool {
	return s == BookingApproved || s == BookingRejected
}

// StatusFor maps an owner's decision to the resulting status.
func StatusFor(approved bool) BookingStatus {
	if approved {
		return BookingApproved
	}
	return BookingRejected
}

// BookingState is a listing filter combining time and status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var bookingStates = map[string]BookingState{
	string(StateAll):      StateAll,
	string(StateCurrent):  StateCurrent,
	string(StatePast):     StatePast,
	string(StateFuture):   StateFuture,
	string(StateWaiting):  StateWaiting,
	string(StateRejected): StateRejected,
}

// UnknownStateError is returned for a state filter outside the known set.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.State)
}

// ParseBookingState parses raw. An empty value means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	if raw == "" {
		return StateAll, nil
	}
	state, ok := bookingStates[raw]
	if !ok {
		return "", &UnknownStateError{State: raw}
	}
	return state, nil
}

// Booking is a reservation of an item by a booker for [Start, End].
type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Status BookingStatus
	Item   Item
	Booker User
}

// ShortBooking is the projection of a booking used to decorate items.
type ShortBooking struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Short projects b.
func (b Booking) Short() *ShortBooking {
	return &ShortBooking{ID: b.ID, BookerID: b.Booker.ID, Start: b.Start, End: b.End}
}

// ValidWindow reports whether end is strictly after start.
func ValidWindow(start, end time.Time) bool {
	return end.After(start)
}

// Matches reports whether b belongs to state at now.
// CURRENT is inclusive on both ends; PAST and FUTURE are strict.
func (s BookingState) Matches(b Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == BookingWaiting
	case StateRejected:
		return b.Status == BookingRejected
	default:
		return false
	}
}

// CountsAsLast reports whether an approved booking is finished or in progress at now.
func CountsAsLast(b Booking, now time.Time) bool {
	if b.Status != BookingApproved {
		return false
	}
	return b.End.Before(now) || (b.Start.Before(now) && b.End.After(now))
}

// CountsAsNext reports whether an approved booking starts after now.
func CountsAsNext(b Booking, now time.Time) bool {
	return b.Status == BookingApproved && b.Start.After(now)
}

// PickLast returns the qualifying booking with the greatest end, or nil.
func PickLast(bookings []Booking, now time.Time) *ShortBooking {
	var last *Booking
	for i := range bookings {
		b := bookings[i]
		if !CountsAsLast(b, now) {
			continue
		}
		if last == nil || b.End.After(last.End) {
			last = &bookings[i]
		}
	}
	if last == nil {
		return nil
	}
	return last.Short()
}

// PickNext returns the qualifying booking with the earliest start, or nil.
func PickNext(bookings []Booking, now time.Time) *ShortBooking {
	var next *Booking
	for i := range bookings {
		b := bookings[i]
		if !CountsAsNext(b, now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = &bookings[i]
		}
	}
	if next == nil {
		return nil
	}
	return next.Short()
}

// SortByStartDesc orders bookings newest start first. Ties keep id order.
func SortByStartDesc(bookings []Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].Start.After(bookings[j].Start)
	})
}
