package service

import (
	"testing"
	"time"

	"github.com/spec-kit/shareit/internal/domain"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

func TestCreateItemValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	missingRequest := int64(42)

	tests := []struct {
		name    string
		ownerID int64
		input   ItemCreateInput
		code    string
	}{
		{"unknown owner", 99, ItemCreateInput{Name: "Drill", Description: "d", Available: boolPtr(true)}, apperrors.CodeNotFound},
		{"blank name", owner.ID, ItemCreateInput{Name: " ", Description: "d", Available: boolPtr(true)}, apperrors.CodeValidation},
		{"blank description", owner.ID, ItemCreateInput{Name: "Drill", Available: boolPtr(true)}, apperrors.CodeValidation},
		{"missing availability", owner.ID, ItemCreateInput{Name: "Drill", Description: "d"}, apperrors.CodeValidation},
		{"unknown request", owner.ID, ItemCreateInput{Name: "Drill", Description: "d", Available: boolPtr(true), RequestID: &missingRequest}, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.items.Create(env.ctx, tt.ownerID, tt.input)
			expectCode(t, err, tt.code)
		})
	}
}

func TestCreateItemForRequest(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	requester := env.user(t, "Requester", "req@example.com")

	request, err := env.requests.Create(env.ctx, requester.ID, "Need a ladder")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	item, err := env.items.Create(env.ctx, owner.ID, ItemCreateInput{
		Name: "Ladder", Description: "Three metres", Available: boolPtr(true), RequestID: &request.ID,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.RequestID == nil || *item.RequestID != request.ID {
		t.Errorf("expected item linked to request %d", request.ID)
	}
}

func TestGetItemDecoration(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", "Cordless drill", true)
	past := env.approvedBooking(t, *booker, *item, -2*time.Hour, -time.Hour)
	next := env.approvedBooking(t, *booker, *item, time.Hour, 2*time.Hour)
	if _, err := env.comments.Add(env.ctx, booker.ID, item.ID, "Works great"); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	ownerView, err := env.items.Get(env.ctx, owner.ID, item.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if ownerView.LastBooking == nil || ownerView.LastBooking.ID != past.ID {
		t.Errorf("expected last booking %d, got %+v", past.ID, ownerView.LastBooking)
	}
	if ownerView.NextBooking == nil || ownerView.NextBooking.ID != next.ID {
		t.Errorf("expected next booking %d, got %+v", next.ID, ownerView.NextBooking)
	}
	if len(ownerView.Comments) != 1 || ownerView.Comments[0].AuthorName != "Booker" {
		t.Errorf("expected one comment by Booker, got %+v", ownerView.Comments)
	}

	otherView, err := env.items.Get(env.ctx, booker.ID, item.ID)
	if err != nil {
		t.Fatalf("booker get: %v", err)
	}
	if otherView.LastBooking != nil || otherView.NextBooking != nil {
		t.Error("expected non-owner to see no bookings")
	}
	if len(otherView.Comments) != 1 {
		t.Error("expected non-owner to see comments")
	}

	_, err = env.items.Get(env.ctx, booker.ID, 99)
	expectCode(t, err, apperrors.CodeNotFound)
	_, err = env.items.Get(env.ctx, 99, item.ID)
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestListOwnerItems(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	other := env.user(t, "Other", "other@example.com")
	first := env.item(t, owner.ID, "Drill", "Cordless drill", true)
	env.item(t, owner.ID, "Saw", "Hand saw", true)
	env.item(t, owner.ID, "Hammer", "Claw hammer", false)
	env.item(t, other.ID, "Tent", "Two person", true)
	env.approvedBooking(t, *other, *first, time.Hour, 2*time.Hour)

	views, err := env.items.ListByOwner(env.ctx, owner.ID, page(0, 10))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 items, got %d", len(views))
	}
	if views[0].NextBooking == nil {
		t.Error("expected owner listing to include next booking")
	}
	for _, v := range views {
		if v.Comments == nil {
			t.Errorf("item %d: expected non-nil comments", v.Item.ID)
		}
	}

	second, _ := env.items.ListByOwner(env.ctx, owner.ID, page(2, 2))
	if len(second) != 1 || second[0].Item.Name != "Hammer" {
		t.Errorf("expected second page to hold Hammer, got %+v", second)
	}

	_, err = env.items.ListByOwner(env.ctx, 99, page(0, 10))
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	other := env.user(t, "Other", "other@example.com")
	item := env.item(t, owner.ID, "Drill", "Cordless drill", true)

	updated, err := env.items.Update(env.ctx, owner.ID, item.ID, domain.ItemPatch{Available: boolPtr(false), Name: strPtr("  ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Available || updated.Name != "Drill" || updated.Description != "Cordless drill" {
		t.Errorf("unexpected merge %+v", updated)
	}

	_, err = env.items.Update(env.ctx, other.ID, item.ID, domain.ItemPatch{Name: strPtr("Mine")})
	expectCode(t, err, apperrors.CodeForbidden)
	_, err = env.items.Update(env.ctx, owner.ID, 99, domain.ItemPatch{})
	expectCode(t, err, apperrors.CodeNotFound)
	_, err = env.items.Update(env.ctx, 99, item.ID, domain.ItemPatch{})
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	other := env.user(t, "Other", "other@example.com")
	item := env.item(t, owner.ID, "Drill", "Cordless drill", true)

	err := env.items.Delete(env.ctx, other.ID, item.ID)
	expectCode(t, err, apperrors.CodeForbidden)
	if _, err := env.items.Get(env.ctx, owner.ID, item.ID); err != nil {
		t.Fatalf("expected item to survive unauthorized delete, got %v", err)
	}

	if err := env.items.Delete(env.ctx, owner.ID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = env.items.Get(env.ctx, owner.ID, item.ID)
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestSearchItems(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "Owner", "owner@example.com")
	visible := env.item(t, owner.ID, "item name", "item dEscription", true)
	env.item(t, owner.ID, "item name", "item dEscription", false)

	found, err := env.items.Search(env.ctx, "desc", page(0, 10))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != visible.ID {
		t.Errorf("expected only the available item, got %+v", found)
	}

	if found, _ := env.items.Search(env.ctx, " item", page(0, 10)); len(found) != 0 {
		t.Errorf("expected leading space to be matched literally, got %+v", found)
	}
	if found, _ := env.items.Search(env.ctx, " NAME", page(0, 10)); len(found) != 1 {
		t.Errorf("expected inner match with space, got %+v", found)
	}

	for _, text := range []string{"", "   "} {
		found, err := env.items.Search(env.ctx, text, page(0, 10))
		if err != nil || found == nil || len(found) != 0 {
			t.Errorf("text %q: expected empty non-nil result, got %v (%v)", text, found, err)
		}
	}
}
