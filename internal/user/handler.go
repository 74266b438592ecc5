package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Handler struct {
	service   ServiceInterface
	jwtSecret string
}

func NewHandler(service ServiceInterface, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.register)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (r registerRequest) isMissingRequiredFields() bool {
	return r.Email == "" || r.Password == "" || r.FirstName == "" || r.LastName == ""
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    sanitizeUser(u),
		"token":   signed,
	})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.isMissingRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Register(User{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if err == ErrEmailExists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(sanitizeUser(created))
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	return c.JSON(sanitizeUser(u))
}

type profileUpdateRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	existing, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.FirstName != nil {
		existing.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		existing.LastName = *payload.LastName
	}
	if payload.Phone != nil {
		existing.Phone = *payload.Phone
	}
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(userID, existing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(sanitizeUser(updated))
}

// UserIDFromCtx extracts the user_id claim from the JWT token stored in
// `c.Locals("user")`. Several packages need the caller identity, so this
// is exported here for reuse.
func UserIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return 0, err
	}
	raw, ok := claims["user_id"]
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		return id, nil
	default:
		return 0, fiber.ErrUnauthorized
	}
}

// IsAdminFromCtx reports whether the token carries an is_admin claim.
func IsAdminFromCtx(c *fiber.Ctx) bool {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return false
	}
	v, ok := claims["is_admin"].(bool)
	return ok && v
}

// RequireAdmin is middleware for the admin route group. Non-admin callers
// get 403 (admin endpoints don't hide their existence, unlike order
// ownership checks which return 404).
func RequireAdmin(c *fiber.Ctx) error {
	if !IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}
	return c.Next()
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
