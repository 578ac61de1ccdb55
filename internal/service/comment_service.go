package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/repository"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// PastBookings finds bookings of an item by a user that ended before an instant.
type PastBookings interface {
	PastUserBookings(ctx context.Context, itemID, userID int64, before time.Time) ([]domain.Booking, error)
}

// CommentService records feedback from users who rented an item.
type CommentService struct {
	comments repository.CommentRepository
	items    repository.ItemRepository
	users    repository.UserRepository
	past     PastBookings
	clock    Clock
	events   eventEmitter
	logger   *zap.Logger
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	ItemRepo    repository.ItemRepository
	UserRepo    repository.UserRepository
	Bookings    PastBookings
	Dispatcher  events.Dispatcher
	Clock       Clock
	Logger      *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	clock := clockOrSystem(deps.Clock)
	logger := loggerOrNop(deps.Logger)
	return &CommentService{
		comments: deps.CommentRepo,
		items:    deps.ItemRepo,
		users:    deps.UserRepo,
		past:     deps.Bookings,
		clock:    clock,
		events:   eventEmitter{dispatcher: deps.Dispatcher, clock: clock, logger: logger},
		logger:   logger,
	}
}

// Add stores a comment from authorID on itemID. The author must not own the item and must have
// a booking of it that already ended.
func (s *CommentService) Add(ctx context.Context, authorID, itemID int64, text string) (*domain.Comment, error) {
	s.logger.Debug("add comment", zap.Int64("author_id", authorID), zap.Int64("item_id", itemID))

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("text must not be blank", map[string]any{"field": "text"})
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFound(err, "item", itemID)
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, notFound(err, "user", authorID)
	}

	now := s.clock.Now()
	if item.OwnerID == authorID {
		return nil, notRenter(itemID)
	}
	past, err := s.past.PastUserBookings(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if len(past) == 0 {
		return nil, notRenter(itemID)
	}

	comment := &domain.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added", zap.Int64("comment_id", comment.ID), zap.Int64("item_id", itemID))
	s.events.publish(ctx, events.Event{
		Type:      events.EventCommentAdded,
		SubjectID: comment.ID,
		ActorID:   authorID,
		Payload:   events.CommentAddedPayload{ItemID: itemID, TextPreview: preview(text, 64)},
	})
	return comment, nil
}

// ListByItem returns the item's comments oldest first.
func (s *CommentService) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, notFound(err, "item", itemID)
	}
	return s.comments.ListByItem(ctx, itemID)
}

func notRenter(itemID int64) error {
	return apperrors.NewValidationError("only a user who completed a rental may comment", map[string]any{"item_id": itemID})
}
