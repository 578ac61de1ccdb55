// Package memory holds an in-process implementation of the repositories. It backs the service
// when no database is configured and serves as the fake in tests.
package memory

import (
	"sync"
	"time"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
)

type bookingRecord struct {
	id       int64
	start    time.Time
	end      time.Time
	status   domain.BookingStatus
	itemID   int64
	bookerID int64
}

// Store keeps all tables behind one mutex. Ids are assigned per table from per-instance counters.
type Store struct {
	mu sync.RWMutex

	users    map[int64]domain.User
	items    map[int64]domain.Item
	bookings map[int64]bookingRecord
	requests map[int64]domain.ItemRequest
	comments map[int64]domain.Comment

	nextUserID    int64
	nextItemID    int64
	nextBookingID int64
	nextRequestID int64
	nextCommentID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]domain.User),
		items:    make(map[int64]domain.Item),
		bookings: make(map[int64]bookingRecord),
		requests: make(map[int64]domain.ItemRequest),
		comments: make(map[int64]domain.Comment),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Items returns the item repository view of the store.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s} }

// Bookings returns the booking repository view of the store.
func (s *Store) Bookings() repository.BookingRepository { return &bookingRepo{s: s} }

// ItemRequests returns the item request repository view of the store.
func (s *Store) ItemRequests() repository.ItemRequestRepository { return &itemRequestRepo{s: s} }

// Comments returns the comment repository view of the store.
func (s *Store) Comments() repository.CommentRepository { return &commentRepo{s: s} }

// deleteItemLocked removes an item with its bookings and comments.
func (s *Store) deleteItemLocked(id int64) {
	delete(s.items, id)
	for bid, b := range s.bookings {
		if b.itemID == id {
			delete(s.bookings, bid)
		}
	}
	for cid, c := range s.comments {
		if c.ItemID == id {
			delete(s.comments, cid)
		}
	}
}

// deleteUserLocked removes a user and everything that references them.
func (s *Store) deleteUserLocked(id int64) {
	delete(s.users, id)
	for iid, item := range s.items {
		if item.OwnerID == id {
			s.deleteItemLocked(iid)
		}
	}
	for bid, b := range s.bookings {
		if b.bookerID == id {
			delete(s.bookings, bid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for rid, r := range s.requests {
		if r.RequesterID != id {
			continue
		}
		delete(s.requests, rid)
		for iid, item := range s.items {
			if item.RequestID != nil && *item.RequestID == rid {
				item.RequestID = nil
				s.items[iid] = item
			}
		}
	}
}

func (s *Store) bookingLocked(rec bookingRecord) domain.Booking {
	return domain.Booking{
		ID:     rec.id,
		Start:  rec.start,
		End:    rec.end,
		Status: rec.status,
		Item:   copyItem(s.items[rec.itemID]),
		Booker: s.users[rec.bookerID],
	}
}

func copyItem(item domain.Item) domain.Item {
	if item.RequestID != nil {
		id := *item.RequestID
		item.RequestID = &id
	}
	return item
}
