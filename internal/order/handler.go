package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopease/shopease-backend/internal/user"
)

// Handler exposes the checkout, order history, cancellation and tracking
// endpoints, plus the admin status-management surface.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.getOrder)
	app.Post("/api/v1/orders/:id<[0-9]+>/cancel", h.cancelOrder)
	app.Get("/api/v1/orders/:id<[0-9]+>/track", h.trackOrder)
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.adminListOrders)
	router.Patch("/orders/:id<[0-9]+>/status", h.adminUpdateStatus)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(CheckoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.AddressID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "addressId is required"})
	}

	confirmation, err := h.service.Checkout(userID, *payload)
	if err != nil {
		return orderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(confirmation)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("perPage", 10)

	list, err := h.service.ListByUser(userID, page, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(list)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	o, err := h.service.GetByID(userID, orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	o, err := h.service.Cancel(userID, orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled successfully", "order": o})
}

func (h *Handler) trackOrder(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	tracking, err := h.service.Track(userID, orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(tracking)
}

func (h *Handler) adminListOrders(c *fiber.Ctx) error {
	orders, err := h.service.AdminListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

type statusUpdateRequest struct {
	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (h *Handler) adminUpdateStatus(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	payload := new(statusUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.AdminUpdateStatus(orderID, payload.Status, payload.Notes)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(updated)
}

func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	case errors.Is(err, ErrInvalidAddress),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrProductUnavailable),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidPayment),
		errors.Is(err, ErrInvalidItems),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
