package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shareit/internal/api/dto"
	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/service"
)

// RequestsHandler exposes item requests.
type RequestsHandler struct {
	requests    *service.ItemRequestService
	defaultSize int
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.ItemRequestService, defaultSize int) *RequestsHandler {
	return &RequestsHandler{requests: requestService, defaultSize: defaultSize}
}

// Create handles POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	requesterID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.ItemRequestCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	request, err := h.requests.Create(c.UserContext(), requesterID, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": toItemRequestResponse(*request)})
}

// ListOwn handles GET /requests.
func (h *RequestsHandler) ListOwn(c *fiber.Ctx) error {
	requesterID, err := callerID(c)
	if err != nil {
		return err
	}
	requests, err := h.requests.ListOwn(c.UserContext(), requesterID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toItemRequestResponses(requests)})
}

// ListOthers handles GET /requests/all.
func (h *RequestsHandler) ListOthers(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c, h.defaultSize)
	if err != nil {
		return err
	}
	requests, err := h.requests.ListOthers(c.UserContext(), userID, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toItemRequestResponses(requests)})
}

// Get handles GET /requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	request, err := h.requests.Get(c.UserContext(), userID, requestID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toItemRequestResponse(*request)})
}

func toItemRequestResponses(requests []domain.ItemRequest) []dto.ItemRequestResponse {
	out := make([]dto.ItemRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toItemRequestResponse(r))
	}
	return out
}
