package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopease/shopease-backend/internal/user"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Get("/api/v1/cart/summary", h.getSummary)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:productID<[0-9]+>", h.updateItem)
	app.Delete("/api/v1/cart/items/:productID<[0-9]+>", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	view, err := h.service.View(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(view)
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	sum, err := h.service.Summary(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sum)
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 || payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId and a quantity of at least 1 are required"})
	}

	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	view, err := h.service.AddItem(userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	payload := new(updateItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity must not be negative"})
	}

	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	view, err := h.service.UpdateItem(userID, productID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	view, err := h.service.RemoveItem(userID, productID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.Clear(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrLineNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
