package order

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopease/shopease-backend/internal/user"
)

func makeAppWithOrderHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				if c.Get("X-Admin") == "1" {
					claims["is_admin"] = true
				}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	admin := app.Group("/api/v1/admin", user.RequireAdmin)
	h.RegisterAdminRoutes(admin)
	return app
}

func TestOrderRoutes_CheckoutFlow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 2}))
	app := makeAppWithOrderHandler(NewHandler(f.svc))

	// unauthenticated checkout is blocked
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"addressId":1,"payment":{"method":"cod"}}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	// checkout from the cart
	req2 := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"addressId":1,"payment":{"method":"cod"}}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "7")
	res2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res2.StatusCode)
	b2, _ := io.ReadAll(res2.Body)
	assert.Contains(t, string(b2), `"orderNumber":"ORD-`)
	assert.Contains(t, string(b2), `"amount":240`)

	// the order shows up in the history
	req3 := httptest.NewRequest("GET", "/api/v1/orders", nil)
	req3.Header.Set("X-User-ID", "7")
	res3, err := app.Test(req3)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res3.StatusCode)
	b3, _ := io.ReadAll(res3.Body)
	assert.Contains(t, string(b3), `"total":1`)

	// another user cannot see it
	req4 := httptest.NewRequest("GET", "/api/v1/orders/1", nil)
	req4.Header.Set("X-User-ID", "99")
	res4, err := app.Test(req4)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res4.StatusCode)

	// the owner can, and can track it
	req5 := httptest.NewRequest("GET", "/api/v1/orders/1/track", nil)
	req5.Header.Set("X-User-ID", "7")
	res5, err := app.Test(req5)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res5.StatusCode)
	b5, _ := io.ReadAll(res5.Body)
	assert.Contains(t, string(b5), `"currentStatus":"confirmed"`)
	assert.Contains(t, string(b5), "Order Placed")

	// and cancel it
	req6 := httptest.NewRequest("POST", "/api/v1/orders/1/cancel", nil)
	req6.Header.Set("X-User-ID", "7")
	res6, err := app.Test(req6)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res6.StatusCode)
	b6, _ := io.ReadAll(res6.Body)
	assert.Contains(t, string(b6), "Order cancelled successfully")
}

func TestOrderRoutes_Validation(t *testing.T) {
	f := newFixture(t)
	app := makeAppWithOrderHandler(NewHandler(f.svc))

	// missing addressId
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"payment":{"method":"cod"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	// empty cart
	req2 := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"addressId":1,"payment":{"method":"cod"}}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "7")
	res2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res2.StatusCode)
	b2, _ := io.ReadAll(res2.Body)
	assert.Contains(t, string(b2), "cart is empty")

	// unknown order id
	req3 := httptest.NewRequest("GET", "/api/v1/orders/999", nil)
	req3.Header.Set("X-User-ID", "7")
	res3, err := app.Test(req3)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res3.StatusCode)
}

func TestOrderRoutes_Admin(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.carts.Save(buyerID, map[int]int{1: 1}))
	app := makeAppWithOrderHandler(NewHandler(f.svc))

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"addressId":1,"payment":{"method":"card"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	// non-admin is rejected from the admin listing
	req2 := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	req2.Header.Set("X-User-ID", "7")
	res2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res2.StatusCode)

	// admin sees every order
	req3 := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	req3.Header.Set("X-User-ID", "1")
	req3.Header.Set("X-Admin", "1")
	res3, err := app.Test(req3)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res3.StatusCode)
	b3, _ := io.ReadAll(res3.Body)
	assert.Contains(t, string(b3), `"orderNumber"`)

	// admin updates the status with a note
	req4 := httptest.NewRequest("PATCH", "/api/v1/admin/orders/1/status", strings.NewReader(`{"status":"shipped","notes":"left warehouse"}`))
	req4.Header.Set("Content-Type", "application/json")
	req4.Header.Set("X-User-ID", "1")
	req4.Header.Set("X-Admin", "1")
	res4, err := app.Test(req4)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res4.StatusCode)
	b4, _ := io.ReadAll(res4.Body)
	assert.Contains(t, string(b4), `"status":"shipped"`)
	assert.Contains(t, string(b4), "[shipped] left warehouse")

	// unknown status is rejected
	req5 := httptest.NewRequest("PATCH", "/api/v1/admin/orders/1/status", strings.NewReader(`{"status":"teleported"}`))
	req5.Header.Set("Content-Type", "application/json")
	req5.Header.Set("X-User-ID", "1")
	req5.Header.Set("X-Admin", "1")
	res5, err := app.Test(req5)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res5.StatusCode)
}
