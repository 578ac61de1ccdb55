package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shareit/internal/api/dto"
	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/service"
)

// ItemsHandler exposes the item catalog and item comments.
type ItemsHandler struct {
	items       *service.ItemService
	comments    *service.CommentService
	defaultSize int
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itemService *service.ItemService, commentService *service.CommentService, defaultSize int) *ItemsHandler {
	return &ItemsHandler{items: itemService, comments: commentService, defaultSize: defaultSize}
}

// Create handles POST /items.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.ItemCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.items.Create(c.UserContext(), ownerID, service.ItemCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": toItemResponse(*item)})
}

// ListOwn handles GET /items.
func (h *ItemsHandler) ListOwn(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c, h.defaultSize)
	if err != nil {
		return err
	}
	views, err := h.items.ListByOwner(c.UserContext(), ownerID, page)
	if err != nil {
		return err
	}
	out := make([]dto.ItemDetailResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toItemDetailResponse(v))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /items/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	view, err := h.items.Get(c.UserContext(), userID, itemID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toItemDetailResponse(*view)})
}

// Update handles PATCH /items/:id.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ItemUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.items.Update(c.UserContext(), ownerID, itemID, domain.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toItemResponse(*item)})
}

// Delete handles DELETE /items/:id.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.items.Delete(c.UserContext(), ownerID, itemID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Search handles GET /items/search?text=.
func (h *ItemsHandler) Search(c *fiber.Ctx) error {
	page, err := parsePage(c, h.defaultSize)
	if err != nil {
		return err
	}
	items, err := h.items.Search(c.UserContext(), c.Query("text"), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toItemResponses(items)})
}

// AddComment handles POST /items/:id/comment.
func (h *ItemsHandler) AddComment(c *fiber.Ctx) error {
	authorID, err := callerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CommentCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Add(c.UserContext(), authorID, itemID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": toCommentResponse(*comment)})
}
