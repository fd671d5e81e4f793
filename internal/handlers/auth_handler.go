package handlers

import (
	"log"

	"bytestore/internal/auth"
	"bytestore/internal/middleware"
	"bytestore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. Login is public;
// registration requires an authenticated admin.
func (h *AuthHandler) RegisterRoutes(public fiber.Router, authRequired fiber.Handler) {
	authRoutes := public.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/register", authRequired, h.HandleRegister)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=Admin User"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a new account. Only admins may register users.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	caller := middleware.IdentityFrom(c)
	if !auth.CanRegisterUsers(caller) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"errors": []string{"Admin role required"},
		})
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return writeBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	user, err := h.authService.Register(req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin authenticates a user and returns a signed token with its role
// and expiry.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return writeBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(result)
}
