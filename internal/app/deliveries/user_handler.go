package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type UserHandler struct {
	userService    *services.UserService
	authMiddleware *middlewares.AuthMiddleware
}

func NewUserHandler(userService *services.UserService, authMiddleware *middlewares.AuthMiddleware) *UserHandler {
	return &UserHandler{
		userService:    userService,
		authMiddleware: authMiddleware,
	}
}

// User administration is admin-only; RequireRole with no extra roles only
// lets admins through.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userGroup := router.Group("/users")
	userGroup.Use(h.authMiddleware.RequireUser, h.authMiddleware.RequireRole())

	userGroup.Get("/", h.GetUsers)
	userGroup.Get("/:id", h.GetUser)
	userGroup.Post("/", h.CreateUser)
	userGroup.Patch("/:id", h.UpdateUser)
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req models.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user, err := h.userService.CreateUser(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, user)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, user)
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	pagination := parsePagination(c)

	users, err := h.userService.GetUsers(pagination)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, users)
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req models.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user, err := h.userService.UpdateUser(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, user)
}
