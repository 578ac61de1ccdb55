package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
)

type itemRepo struct {
	s *Store
}

func (r *itemRepo) Create(_ context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextItemID++
	item.ID = r.s.nextItemID
	r.s.items[item.ID] = copyItem(*item)
	return nil
}

func (r *itemRepo) Update(_ context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.items[item.ID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Name = item.Name
	current.Description = item.Description
	current.Available = item.Available
	r.s.items[item.ID] = current
	return nil
}

func (r *itemRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteItemLocked(id)
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item = copyItem(item)
	return &item, nil
}

func (r *itemRepo) ListByOwner(_ context.Context, ownerID int64, page domain.Page) ([]domain.Item, error) {
	return r.filter(&page, func(item domain.Item) bool { return item.OwnerID == ownerID }), nil
}

func (r *itemRepo) Search(_ context.Context, text string, page domain.Page) ([]domain.Item, error) {
	needle := strings.ToLower(text)
	return r.filter(&page, func(item domain.Item) bool {
		if !item.Available {
			return false
		}
		return strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle)
	}), nil
}

func (r *itemRepo) ListByRequestIDs(_ context.Context, requestIDs []int64) ([]domain.Item, error) {
	wanted := make(map[int64]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(nil, func(item domain.Item) bool {
		if item.RequestID == nil {
			return false
		}
		_, ok := wanted[*item.RequestID]
		return ok
	}), nil
}

// filter returns matching items ordered by id and cut to page when one is given.
func (r *itemRepo) filter(page *domain.Page, match func(domain.Item) bool) []domain.Item {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []domain.Item{}
	for _, item := range r.s.items {
		if match(item) {
			matched = append(matched, copyItem(item))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if page == nil {
		return matched
	}
	start, end := page.Window(len(matched))
	return matched[start:end]
}
