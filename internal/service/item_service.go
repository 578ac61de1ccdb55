package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/repository"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// BookingHistory supplies the last and next approved booking of an item.
type BookingHistory interface {
	LastBooking(ctx context.Context, itemID int64) (*domain.ShortBooking, error)
	NextBooking(ctx context.Context, itemID int64) (*domain.ShortBooking, error)
}

// ItemService manages the item catalog.
type ItemService struct {
	items    repository.ItemRepository
	users    repository.UserRepository
	requests repository.ItemRequestRepository
	comments repository.CommentRepository
	history  BookingHistory
	events   eventEmitter
	logger   *zap.Logger
}

// ItemDependencies bundles collaborators for the item service.
type ItemDependencies struct {
	ItemRepo    repository.ItemRepository
	UserRepo    repository.UserRepository
	RequestRepo repository.ItemRequestRepository
	CommentRepo repository.CommentRepository
	Bookings    BookingHistory
	Dispatcher  events.Dispatcher
	Clock       Clock
	Logger      *zap.Logger
}

// ItemCreateInput describes item creation payload. Available is required.
type ItemCreateInput struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// NewItemService constructs the service.
func NewItemService(deps ItemDependencies) *ItemService {
	logger := loggerOrNop(deps.Logger)
	return &ItemService{
		items:    deps.ItemRepo,
		users:    deps.UserRepo,
		requests: deps.RequestRepo,
		comments: deps.CommentRepo,
		history:  deps.Bookings,
		events:   eventEmitter{dispatcher: deps.Dispatcher, clock: clockOrSystem(deps.Clock), logger: logger},
		logger:   logger,
	}
}

// Create lists a new item owned by ownerID.
func (s *ItemService) Create(ctx context.Context, ownerID int64, input ItemCreateInput) (*domain.Item, error) {
	s.logger.Debug("create item", zap.Int64("owner_id", ownerID))

	if err := s.userExists(ctx, ownerID); err != nil {
		return nil, err
	}
	item := &domain.Item{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		OwnerID:     ownerID,
		RequestID:   input.RequestID,
	}
	if item.Name == "" {
		return nil, apperrors.NewValidationError("name must not be blank", map[string]any{"field": "name"})
	}
	if item.Description == "" {
		return nil, apperrors.NewValidationError("description must not be blank", map[string]any{"field": "description"})
	}
	if input.Available == nil {
		return nil, apperrors.NewValidationError("available is required", map[string]any{"field": "available"})
	}
	item.Available = *input.Available
	if input.RequestID != nil {
		if _, err := s.requests.GetByID(ctx, *input.RequestID); err != nil {
			return nil, notFound(err, "item request", *input.RequestID)
		}
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("item created", zap.Int64("item_id", item.ID), zap.Int64("owner_id", ownerID))
	s.events.publish(ctx, events.Event{
		Type:      events.EventItemCreated,
		SubjectID: item.ID,
		ActorID:   ownerID,
		Payload:   events.ItemCreatedPayload{Name: item.Name, RequestID: item.RequestID},
	})
	return item, nil
}

// Get returns the item as seen by userID. Only the owner sees last and next bookings.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (*domain.OwnerItemView, error) {
	s.logger.Debug("get item", zap.Int64("user_id", userID), zap.Int64("item_id", itemID))

	item, err := s.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	view, err := s.decorate(ctx, *item, userID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListByOwner returns the owner's items with bookings and comments.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]domain.OwnerItemView, error) {
	s.logger.Debug("list owner items", zap.Int64("owner_id", ownerID))

	if err := s.userExists(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.items.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	views := make([]domain.OwnerItemView, 0, len(items))
	for _, item := range items {
		view, err := s.decorate(ctx, item, ownerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Update applies a partial update by the owner.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch domain.ItemPatch) (*domain.Item, error) {
	s.logger.Debug("update item", zap.Int64("owner_id", ownerID), zap.Int64("item_id", itemID))

	current, err := s.ownedItem(ctx, ownerID, itemID, "only the owner can update an item")
	if err != nil {
		return nil, err
	}
	merged := domain.MergeItem(*current, patch)
	if err := s.items.Update(ctx, &merged); err != nil {
		return nil, notFound(err, "item", itemID)
	}
	s.logger.Info("item updated", zap.Int64("item_id", itemID))
	return &merged, nil
}

// Delete removes an item. Only its owner may do so.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID int64) error {
	if _, err := s.ownedItem(ctx, ownerID, itemID, "only the owner can delete an item"); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return notFound(err, "item", itemID)
	}
	s.logger.Info("item deleted", zap.Int64("item_id", itemID))
	return nil
}

// Search finds available items whose name or description contains text, case-insensitively and
// including surrounding spaces. Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, page domain.Page) ([]domain.Item, error) {
	if isBlank(text) {
		return []domain.Item{}, nil
	}
	return s.items.Search(ctx, text, page)
}

func (s *ItemService) decorate(ctx context.Context, item domain.Item, viewerID int64) (domain.OwnerItemView, error) {
	comments, err := s.comments.ListByItem(ctx, item.ID)
	if err != nil {
		return domain.OwnerItemView{}, err
	}
	var last, next *domain.ShortBooking
	if item.OwnerID == viewerID && s.history != nil {
		if last, err = s.history.LastBooking(ctx, item.ID); err != nil {
			return domain.OwnerItemView{}, err
		}
		if next, err = s.history.NextBooking(ctx, item.ID); err != nil {
			return domain.OwnerItemView{}, err
		}
	}
	return domain.DecorateForViewer(item, viewerID, last, next, comments), nil
}

func (s *ItemService) ownedItem(ctx context.Context, ownerID, itemID int64, denied string) (*domain.Item, error) {
	if err := s.userExists(ctx, ownerID); err != nil {
		return nil, err
	}
	item, err := s.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.NewForbidden(denied)
	}
	return item, nil
}

func (s *ItemService) item(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	return item, nil
}

func (s *ItemService) userExists(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return notFound(err, "user", id)
	}
	return nil
}
