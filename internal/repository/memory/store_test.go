package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
)

func seed(t *testing.T, s *Store) (owner, booker domain.User, item domain.Item) {
	t.Helper()
	ctx := context.Background()
	owner = domain.User{Name: "Owner", Email: "owner@example.com"}
	booker = domain.User{Name: "Booker", Email: "booker@example.com"}
	if err := s.Users().Create(ctx, &owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if err := s.Users().Create(ctx, &booker); err != nil {
		t.Fatalf("create booker: %v", err)
	}
	item = domain.Item{Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: owner.ID}
	if err := s.Items().Create(ctx, &item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return owner, booker, item
}

func TestIDsArePerStore(t *testing.T) {
	a, b := NewStore(), NewStore()
	ownerA, _, _ := seed(t, a)
	ownerB, _, _ := seed(t, b)
	if ownerA.ID != 1 || ownerB.ID != 1 {
		t.Errorf("expected both stores to start at 1, got %d and %d", ownerA.ID, ownerB.ID)
	}
}

func TestDuplicateEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s)

	dup := domain.User{Name: "Other", Email: "OWNER@example.com"}
	if err := s.Users().Create(ctx, &dup); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	self, _ := s.Users().GetByID(ctx, 1)
	self.Name = "Renamed"
	if err := s.Users().Update(ctx, self); err != nil {
		t.Errorf("expected update keeping own email to succeed, got %v", err)
	}
}

func TestUpdateStatusIsCompareAndSwap(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, booker, item := seed(t, s)

	now := time.Now().UTC()
	b := domain.Booking{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: domain.BookingWaiting, Item: item, Booker: booker}
	if err := s.Bookings().Create(ctx, &b); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Bookings().UpdateStatus(ctx, b.ID, domain.BookingWaiting, domain.BookingApproved)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case !errors.Is(err, repository.ErrStatusConflict):
			t.Errorf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}

	if err := s.Bookings().UpdateStatus(ctx, 99, domain.BookingWaiting, domain.BookingApproved); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing booking, got %v", err)
	}
}

func TestSearchAndPaging(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner, _, _ := seed(t, s)

	for _, it := range []domain.Item{
		{Name: "Hammer drill", Description: "heavy", Available: true, OwnerID: owner.ID},
		{Name: "Saw", Description: "cuts, not a DRILL", Available: true, OwnerID: owner.ID},
		{Name: "Old drill", Description: "broken", Available: false, OwnerID: owner.ID},
	} {
		it := it
		if err := s.Items().Create(ctx, &it); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	found, _ := s.Items().Search(ctx, "dRiLl", domain.Page{From: 0, Size: 10})
	if len(found) != 3 {
		t.Fatalf("expected 3 available matches, got %d", len(found))
	}

	second, _ := s.Items().Search(ctx, "drill", domain.Page{From: 2, Size: 2})
	if len(second) != 1 || second[0].Name != "Saw" {
		t.Errorf("expected second page to hold Saw, got %+v", second)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner, booker, item := seed(t, s)

	now := time.Now().UTC()
	b := domain.Booking{Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: domain.BookingApproved, Item: item, Booker: booker}
	if err := s.Bookings().Create(ctx, &b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	c := domain.Comment{Text: "good", ItemID: item.ID, AuthorID: booker.ID, Created: now}
	if err := s.Comments().Create(ctx, &c); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := s.Users().Delete(ctx, owner.ID); err != nil {
		t.Fatalf("delete owner: %v", err)
	}
	if _, err := s.Items().GetByID(ctx, item.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected owner's item to be removed, got %v", err)
	}
	if _, err := s.Bookings().GetByID(ctx, b.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected booking of removed item to be removed, got %v", err)
	}
	if comments, _ := s.Comments().ListByItem(ctx, item.ID); len(comments) != 0 {
		t.Errorf("expected comments removed, got %d", len(comments))
	}
}

func TestCommentsCarryAuthorName(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, booker, item := seed(t, s)

	now := time.Now().UTC()
	for i, text := range []string{"second", "first"} {
		c := domain.Comment{Text: text, ItemID: item.ID, AuthorID: booker.ID, Created: now.Add(-time.Duration(i) * time.Minute)}
		if err := s.Comments().Create(ctx, &c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, _ := s.Comments().ListByItem(ctx, item.ID)
	if len(comments) != 2 || comments[0].Text != "first" {
		t.Fatalf("expected oldest first, got %+v", comments)
	}
	if comments[0].AuthorName != "Booker" {
		t.Errorf("expected author name Booker, got %q", comments[0].AuthorName)
	}
}
