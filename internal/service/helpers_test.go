package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/repository/memory"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	ctx      context.Context
	store    *memory.Store
	clock    *fixedClock
	events   *[]events.Event
	users    *UserService
	items    *ItemService
	bookings *BookingService
	comments *CommentService
	requests *ItemRequestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	clock := &fixedClock{now: baseTime}
	dispatcher := events.NewInMemoryDispatcher()

	published := []events.Event{}
	dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	bookings := NewBookingService(BookingDependencies{
		BookingRepo: store.Bookings(),
		ItemRepo:    store.Items(),
		UserRepo:    store.Users(),
		Dispatcher:  dispatcher,
		Clock:       clock,
	})
	return &testEnv{
		ctx:      context.Background(),
		store:    store,
		clock:    clock,
		events:   &published,
		users:    NewUserService(UserDependencies{UserRepo: store.Users()}),
		bookings: bookings,
		items: NewItemService(ItemDependencies{
			ItemRepo:    store.Items(),
			UserRepo:    store.Users(),
			RequestRepo: store.ItemRequests(),
			CommentRepo: store.Comments(),
			Bookings:    bookings,
			Dispatcher:  dispatcher,
			Clock:       clock,
		}),
		comments: NewCommentService(CommentDependencies{
			CommentRepo: store.Comments(),
			ItemRepo:    store.Items(),
			UserRepo:    store.Users(),
			Bookings:    bookings,
			Dispatcher:  dispatcher,
			Clock:       clock,
		}),
		requests: NewItemRequestService(ItemRequestDependencies{
			RequestRepo: store.ItemRequests(),
			ItemRepo:    store.Items(),
			UserRepo:    store.Users(),
			Dispatcher:  dispatcher,
			Clock:       clock,
		}),
	}
}

func (e *testEnv) user(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := e.users.Create(e.ctx, UserCreateInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (e *testEnv) item(t *testing.T, ownerID int64, name, description string, available bool) *domain.Item {
	t.Helper()
	it, err := e.items.Create(e.ctx, ownerID, ItemCreateInput{Name: name, Description: description, Available: &available})
	if err != nil {
		t.Fatalf("create item %s: %v", name, err)
	}
	return it
}

func (e *testEnv) booking(t *testing.T, bookerID, itemID int64, start, end time.Duration) *domain.Booking {
	t.Helper()
	now := e.clock.Now()
	b, err := e.bookings.Create(e.ctx, bookerID, BookingCreateInput{ItemID: itemID, Start: now.Add(start), End: now.Add(end)})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

// approvedBooking inserts an approved booking directly so past windows can be set up.
func (e *testEnv) approvedBooking(t *testing.T, booker domain.User, item domain.Item, start, end time.Duration) *domain.Booking {
	t.Helper()
	now := e.clock.Now()
	b := &domain.Booking{Start: now.Add(start), End: now.Add(end), Status: domain.BookingApproved, Item: item, Booker: booker}
	if err := e.store.Bookings().Create(e.ctx, b); err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	return b
}

func (e *testEnv) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(*e.events))
	for _, ev := range *e.events {
		types = append(types, ev.Type)
	}
	return types
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func page(from, size int) domain.Page {
	return domain.Page{From: from, Size: size}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
