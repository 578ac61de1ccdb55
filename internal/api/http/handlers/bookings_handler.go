package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shareit/internal/api/dto"
	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/service"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// BookingsHandler exposes the booking workflow.
type BookingsHandler struct {
	bookings    *service.BookingService
	defaultSize int
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService, defaultSize int) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService, defaultSize: defaultSize}
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	bookerID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.BookingCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.Create(c.UserContext(), bookerID, service.BookingCreateInput{
		ItemID: req.ItemID,
		Start:  req.Start.Time(),
		End:    req.End.Time(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": toBookingResponse(*booking)})
}

// ChangeStatus handles PATCH /bookings/:id?approved=true|false.
func (h *BookingsHandler) ChangeStatus(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		return apperrors.NewValidationError("approved must be true or false", map[string]any{"approved": c.Query("approved")})
	}
	booking, err := h.bookings.ChangeStatus(c.UserContext(), ownerID, bookingID, approved)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toBookingResponse(*booking)})
}

// Get handles GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.UserContext(), userID, bookingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toBookingResponse(*booking)})
}

// ListByBooker handles GET /bookings?state=.
func (h *BookingsHandler) ListByBooker(c *fiber.Ctx) error {
	return h.list(c, h.bookings.ListByBooker)
}

// ListByOwner handles GET /bookings/owner?state=.
func (h *BookingsHandler) ListByOwner(c *fiber.Ctx) error {
	return h.list(c, h.bookings.ListByOwner)
}

type bookingLister func(ctx context.Context, userID int64, state string, page domain.Page) ([]domain.Booking, error)

func (h *BookingsHandler) list(c *fiber.Ctx, lister bookingLister) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	page, err := parsePage(c, h.defaultSize)
	if err != nil {
		return err
	}
	bookings, err := lister(c.UserContext(), userID, c.Query("state", string(domain.StateAll)), page)
	if err != nil {
		return err
	}
	out := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return c.JSON(fiber.Map{"data": out})
}
