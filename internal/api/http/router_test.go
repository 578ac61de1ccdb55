package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/api/http/handlers"
	"github.com/spec-kit/shareit/internal/config"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/observability"
	"github.com/spec-kit/shareit/internal/repository/memory"
	"github.com/spec-kit/shareit/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testClock struct{ now time.Time }

func (c testClock) Now() time.Time { return c.now }

func newTestApp(t *testing.T, limiter *RateLimiter) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	clock := testClock{now: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)}

	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: store.Bookings(), ItemRepo: store.Items(), UserRepo: store.Users(),
		Dispatcher: dispatcher, Clock: clock, Logger: logger,
	})
	itemService := service.NewItemService(service.ItemDependencies{
		ItemRepo: store.Items(), UserRepo: store.Users(), RequestRepo: store.ItemRequests(),
		CommentRepo: store.Comments(), Bookings: bookingService, Dispatcher: dispatcher, Clock: clock, Logger: logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: store.Comments(), ItemRepo: store.Items(), UserRepo: store.Users(),
		Bookings: bookingService, Dispatcher: dispatcher, Clock: clock, Logger: logger,
	})
	requestService := service.NewItemRequestService(service.ItemRequestDependencies{
		RequestRepo: store.ItemRequests(), ItemRepo: store.Items(), UserRepo: store.Users(),
		Dispatcher: dispatcher, Clock: clock, Logger: logger,
	})
	userService := service.NewUserService(service.UserDependencies{UserRepo: store.Users(), Logger: logger})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second, limiter)
	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler("shareit", "test", nil, nil, metrics),
		Users:    handlers.NewUsersHandler(userService),
		Items:    handlers.NewItemsHandler(itemService, commentService, 10),
		Bookings: handlers.NewBookingsHandler(bookingService, 10),
		Requests: handlers.NewRequestsHandler(requestService, 10),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, userID int64, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("X-Sharer-User-Id", strconv.FormatInt(userID, 10))
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, raw)
	}
	return out
}

type idOnly struct {
	ID int64 `json:"id"`
}

func createUser(t *testing.T, app *fiber.App, name, email string) int64 {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/users", 0, map[string]any{"name": name, "email": email})
	if status != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d (%+v)", status, env.Error)
	}
	return decode[idOnly](t, env.Data).ID
}

func createItem(t *testing.T, app *fiber.App, ownerID int64, name, description string, available bool) int64 {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/items", ownerID, map[string]any{
		"name": name, "description": description, "available": available,
	})
	if status != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d (%+v)", status, env.Error)
	}
	return decode[idOnly](t, env.Data).ID
}

func TestBookingFlow(t *testing.T) {
	app := newTestApp(t, nil)
	owner := createUser(t, app, "Owner", "owner@example.com")
	booker := createUser(t, app, "Booker", "booker@example.com")
	item := createItem(t, app, owner, "Drill", "Cordless drill", true)

	status, env := do(t, app, http.MethodPost, "/bookings", booker, map[string]any{
		"item_id": item, "start": "2030-01-02T10:00:00", "end": "2030-01-02T12:00:00",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, env.Error)
	}
	type bookingView struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
		Start  string `json:"start"`
		Booker idOnly `json:"booker"`
		Item   idOnly `json:"item"`
	}
	created := decode[bookingView](t, env.Data)
	if created.Status != "WAITING" || created.Start != "2030-01-02T10:00:00" {
		t.Errorf("unexpected booking %+v", created)
	}

	path := "/bookings/" + strconv.FormatInt(created.ID, 10)

	status, env = do(t, app, http.MethodPatch, path+"?approved=true", booker, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for booker approving, got %d", status)
	}

	status, env = do(t, app, http.MethodPatch, path+"?approved=true", owner, nil)
	if status != http.StatusOK || decode[bookingView](t, env.Data).Status != "APPROVED" {
		t.Fatalf("expected approval, got %d (%+v)", status, env.Error)
	}

	status, env = do(t, app, http.MethodPatch, path+"?approved=false", owner, nil)
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("expected validation failure on second decision, got %d (%+v)", status, env.Error)
	}

	status, env = do(t, app, http.MethodGet, "/bookings/owner?state=FUTURE", owner, nil)
	if status != http.StatusOK || len(decode[[]bookingView](t, env.Data)) != 1 {
		t.Errorf("expected one future booking for owner, got %d", status)
	}

	status, env = do(t, app, http.MethodGet, "/bookings?state=UNSUPPORTED_STATUS", booker, nil)
	if status != http.StatusBadRequest || env.Error.Message != "Unknown state: UNSUPPORTED_STATUS" {
		t.Errorf("expected unknown state error, got %d (%+v)", status, env.Error)
	}

	status, _ = do(t, app, http.MethodGet, "/bookings?from=-1", booker, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for negative from, got %d", status)
	}

	type itemView struct {
		NextBooking *struct {
			ID int64 `json:"id"`
		} `json:"next_booking"`
	}
	status, env = do(t, app, http.MethodGet, "/items/"+strconv.FormatInt(item, 10), owner, nil)
	if status != http.StatusOK {
		t.Fatalf("get item: %d", status)
	}
	if view := decode[itemView](t, env.Data); view.NextBooking == nil || view.NextBooking.ID != created.ID {
		t.Errorf("expected owner to see next booking %d, got %+v", created.ID, view.NextBooking)
	}
	_, env = do(t, app, http.MethodGet, "/items/"+strconv.FormatInt(item, 10), booker, nil)
	if view := decode[itemView](t, env.Data); view.NextBooking != nil {
		t.Error("expected booker not to see next booking")
	}
}

func TestBookingValidation(t *testing.T) {
	app := newTestApp(t, nil)
	owner := createUser(t, app, "Owner", "owner@example.com")
	booker := createUser(t, app, "Booker", "booker@example.com")
	item := createItem(t, app, owner, "Drill", "Cordless drill", true)

	tests := []struct {
		name   string
		userID int64
		body   map[string]any
		status int
	}{
		{"self booking", owner, map[string]any{"item_id": item, "start": "2030-01-02T10:00:00", "end": "2030-01-02T12:00:00"}, http.StatusForbidden},
		{"end equals start", booker, map[string]any{"item_id": item, "start": "2030-01-02T10:00:00", "end": "2030-01-02T10:00:00"}, http.StatusBadRequest},
		{"missing end", booker, map[string]any{"item_id": item, "start": "2030-01-02T10:00:00"}, http.StatusBadRequest},
		{"bad timestamp", booker, map[string]any{"item_id": item, "start": "tomorrow", "end": "2030-01-02T10:00:00"}, http.StatusBadRequest},
		{"unknown item", booker, map[string]any{"item_id": 99, "start": "2030-01-02T10:00:00", "end": "2030-01-02T12:00:00"}, http.StatusNotFound},
		{"unknown booker", 99, map[string]any{"item_id": item, "start": "2030-01-02T10:00:00", "end": "2030-01-02T12:00:00"}, http.StatusNotFound},
		{"missing identity", 0, map[string]any{"item_id": item, "start": "2030-01-02T10:00:00", "end": "2030-01-02T12:00:00"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, http.MethodPost, "/bookings", tt.userID, tt.body)
			if status != tt.status {
				t.Errorf("expected %d, got %d (%+v)", tt.status, status, env.Error)
			}
		})
	}
}

func TestUserEndpoints(t *testing.T) {
	app := newTestApp(t, nil)
	id := createUser(t, app, "Ann", "ann@example.com")
	createUser(t, app, "Bob", "bob@example.com")

	status, env := do(t, app, http.MethodPost, "/users", 0, map[string]any{"name": "Dup", "email": "ann@example.com"})
	if status != http.StatusConflict || env.Error.Code != "CONFLICT" {
		t.Errorf("expected 409, got %d (%+v)", status, env.Error)
	}

	status, env = do(t, app, http.MethodPatch, "/users/"+strconv.FormatInt(id, 10), 0, map[string]any{"name": "Anna"})
	type userView struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if u := decode[userView](t, env.Data); status != http.StatusOK || u.Name != "Anna" || u.Email != "ann@example.com" {
		t.Errorf("unexpected update result %d %+v", status, u)
	}

	for _, email := range []string{"", "   "} {
		status, env = do(t, app, http.MethodPatch, "/users/"+strconv.FormatInt(id, 10), 0, map[string]any{"name": "Ann", "email": email})
		if status != http.StatusOK {
			t.Fatalf("blank email %q: expected 200, got %d (%+v)", email, status, env.Error)
		}
		if u := decode[userView](t, env.Data); u.Name != "Ann" || u.Email != "ann@example.com" {
			t.Errorf("blank email %q: expected stored email kept, got %+v", email, u)
		}
	}

	status, env = do(t, app, http.MethodPatch, "/users/"+strconv.FormatInt(id, 10), 0, map[string]any{"email": "not-an-email"})
	if status != http.StatusBadRequest || env.Error.Code != "VALIDATION_FAILED" {
		t.Errorf("expected invalid email to fail, got %d (%+v)", status, env.Error)
	}

	status, _ = do(t, app, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), 0, nil)
	if status != http.StatusNoContent {
		t.Errorf("expected 204, got %d", status)
	}
	status, _ = do(t, app, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), 0, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
	status, _ = do(t, app, http.MethodGet, "/users/abc", 0, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", status)
	}
}

func TestSearchAndComments(t *testing.T) {
	app := newTestApp(t, nil)
	owner := createUser(t, app, "Owner", "owner@example.com")
	stranger := createUser(t, app, "Stranger", "stranger@example.com")
	visible := createItem(t, app, owner, "item name", "item dEscription", true)
	createItem(t, app, owner, "item name", "item dEscription", false)

	status, env := do(t, app, http.MethodGet, "/items/search?text=desc", 0, nil)
	found := decode[[]idOnly](t, env.Data)
	if status != http.StatusOK || len(found) != 1 || found[0].ID != visible {
		t.Errorf("expected only item %d, got %d %+v", visible, status, found)
	}

	status, env = do(t, app, http.MethodGet, "/items/search?text=", 0, nil)
	if status != http.StatusOK || len(decode[[]idOnly](t, env.Data)) != 0 {
		t.Errorf("expected empty search result, got %d", status)
	}

	status, env = do(t, app, http.MethodPost, "/items/"+strconv.FormatInt(visible, 10)+"/comment", stranger, map[string]any{"text": "Nice"})
	if status != http.StatusBadRequest || env.Error.Message != "only a user who completed a rental may comment" {
		t.Errorf("expected rental validation error, got %d (%+v)", status, env.Error)
	}

	status, _ = do(t, app, http.MethodDelete, "/items/"+strconv.FormatInt(visible, 10), stranger, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for deleting someone else's item, got %d", status)
	}
}

func TestItemRequestEndpoints(t *testing.T) {
	app := newTestApp(t, nil)
	alice := createUser(t, app, "Alice", "alice@example.com")
	bob := createUser(t, app, "Bob", "bob@example.com")

	status, env := do(t, app, http.MethodPost, "/requests", alice, map[string]any{"description": "Need a tent"})
	if status != http.StatusCreated {
		t.Fatalf("create request: %d (%+v)", status, env.Error)
	}
	requestID := decode[idOnly](t, env.Data).ID

	status, env = do(t, app, http.MethodPost, "/items", bob, map[string]any{
		"name": "Tent", "description": "Two person", "available": true, "request_id": requestID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create item: %d (%+v)", status, env.Error)
	}

	type requestView struct {
		ID    int64    `json:"id"`
		Items []idOnly `json:"items"`
	}
	status, env = do(t, app, http.MethodGet, "/requests", alice, nil)
	own := decode[[]requestView](t, env.Data)
	if status != http.StatusOK || len(own) != 1 || len(own[0].Items) != 1 {
		t.Errorf("expected own request with one item, got %d %+v", status, own)
	}

	status, env = do(t, app, http.MethodGet, "/requests/all?from=0&size=5", bob, nil)
	if all := decode[[]requestView](t, env.Data); status != http.StatusOK || len(all) != 1 {
		t.Errorf("expected alice's request for bob, got %d %+v", status, all)
	}

	status, _ = do(t, app, http.MethodGet, "/requests/99", alice, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app := newTestApp(t, nil)

	status, _ := do(t, app, http.MethodGet, "/health/ready", 0, nil)
	if status != http.StatusOK {
		t.Errorf("expected ready with dependencies disabled, got %d", status)
	}
	status, env := do(t, app, http.MethodGet, "/nope", 0, nil)
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("expected rendered 404, got %d (%+v)", status, env.Error)
	}
	status, env = do(t, app, http.MethodGet, "/health/metrics", 0, nil)
	if status != http.StatusOK || len(env.Data) == 0 {
		t.Errorf("expected metrics snapshot, got %d", status)
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{Enabled: true, PerMinute: 60, Burst: 2, MaxIdentities: 10})
	app := newTestApp(t, limiter)

	for i := 0; i < 2; i++ {
		if status, _ := do(t, app, http.MethodGet, "/users", 0, nil); status != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, status)
		}
	}
	status, env := do(t, app, http.MethodGet, "/users", 0, nil)
	if status != http.StatusTooManyRequests || env.Error.Code != "TOO_MANY_REQUESTS" {
		t.Errorf("expected 429, got %d (%+v)", status, env.Error)
	}

	if NewRateLimiter(config.RateLimitConfig{Enabled: false, PerMinute: 60}) != nil {
		t.Error("expected nil limiter when disabled")
	}
}

func TestRateLimiterIgnoresUnparsableIdentity(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{Enabled: true, PerMinute: 60, Burst: 2, MaxIdentities: 100})
	app := newTestApp(t, limiter)

	send := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("X-Sharer-User-Id", header)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i, header := range []string{"junk-1", "junk-2"} {
		if status := send(header); status != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, status)
		}
	}
	if status := send("junk-3"); status != http.StatusTooManyRequests {
		t.Errorf("expected rotating invalid headers to share a bucket, got %d", status)
	}

	if status := send("7"); status != http.StatusOK {
		t.Fatalf("expected a fresh bucket for user 7, got %d", status)
	}
	send("007")
	if status := send("7"); status != http.StatusTooManyRequests {
		t.Errorf("expected 7 and 007 to share a bucket, got %d", status)
	}
}
