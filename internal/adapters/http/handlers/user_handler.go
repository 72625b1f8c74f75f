package handlers

import (
	"errors"

	"sipinjam/internal/core/domain"
	"sipinjam/internal/core/services"
	"sipinjam/internal/pkg/pagination"
	"sipinjam/internal/pkg/password"
	"sipinjam/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the caller's own profile
func (h *UserHandler) Me(c *fiber.Ctx) error {
	profile, err := h.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved", profile)
}

// List returns users, filterable by role (admin)
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	role := domain.Role(c.Query("role"))

	users, total, err := h.userService.List(c.Context(), params, role)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Paginated(c, "Users retrieved", users, pagination.GetMeta(params, total))
}

// CreateStaff creates a petugas or admin account (admin only)
func (h *UserHandler) CreateStaff(c *fiber.Ctx) error {
	var req services.CreateStaffInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Nama == "" || req.Email == "" {
		return response.BadRequest(c, "Username, nama and email are required")
	}
	if !password.Validate(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	user, err := h.userService.CreateStaff(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Role must be 'petugas' or 'admin'")
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "Username already exists")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created", user)
}
