package product

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes public catalog browsing and admin catalog management.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/products/:id<[0-9]+>", h.getProduct)
}

func (h *Handler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/products", h.createProduct)
	router.Put("/products/:id<[0-9]+>", h.updateProduct)
	router.Delete("/products/:id<[0-9]+>", h.deleteProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil || !p.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	return c.JSON(p)
}

type productRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	StockQuantity *int    `json:"stockQuantity"`
	IsActive      *bool   `json:"isActive"`
	Thumbnail     string  `json:"thumbnail"`
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	stock := 0
	if payload.StockQuantity != nil {
		stock = *payload.StockQuantity
	}
	if payload.Name == "" || payload.Price < 0 || stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name required, price and stock must be non-negative"})
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(Product{
		Name:          payload.Name,
		Description:   payload.Description,
		Category:      payload.Category,
		Price:         payload.Price,
		StockQuantity: stock,
		IsActive:      active,
		Thumbnail:     payload.Thumbnail,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	existing, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.Name != "" {
		existing.Name = payload.Name
	}
	if payload.Description != "" {
		existing.Description = payload.Description
	}
	if payload.Category != "" {
		existing.Category = payload.Category
	}
	if payload.Price > 0 {
		existing.Price = payload.Price
	}
	if payload.StockQuantity != nil && *payload.StockQuantity >= 0 {
		existing.StockQuantity = *payload.StockQuantity
	}
	if payload.IsActive != nil {
		existing.IsActive = *payload.IsActive
	}
	if payload.Thumbnail != "" {
		existing.Thumbnail = payload.Thumbnail
	}
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(id, existing)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
