package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type LineItemHandler struct {
	lineItemService *services.LineItemService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewLineItemHandler(lineItemService *services.LineItemService, authMiddleware *middlewares.AuthMiddleware) *LineItemHandler {
	return &LineItemHandler{
		lineItemService: lineItemService,
		authMiddleware:  authMiddleware,
	}
}

func (h *LineItemHandler) RegisterRoutes(router fiber.Router) {
	itemGroup := router.Group("/audits/:id/line-items")

	itemGroup.Get("/", h.GetLineItems)

	write := []fiber.Handler{h.authMiddleware.RequireUser, h.authMiddleware.RequireRole(models.UserRoleAuditor)}
	itemGroup.Post("/", append(write, h.AddLineItem)...)
	itemGroup.Patch("/:itemId", append(write, h.UpdateLineItem)...)
	itemGroup.Delete("/:itemId", append(write, h.RemoveLineItem)...)
}

func (h *LineItemHandler) AddLineItem(c *fiber.Ctx) error {
	var req models.LineItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user := c.Locals("user").(*models.User)

	item, err := h.lineItemService.AddLineItem(c.Params("id"), &req, user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, item)
}

func (h *LineItemHandler) GetLineItems(c *fiber.Ctx) error {
	items, err := h.lineItemService.GetLineItems(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, items)
}

func (h *LineItemHandler) UpdateLineItem(c *fiber.Ctx) error {
	var req models.LineItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	item, err := h.lineItemService.UpdateLineItem(c.Params("id"), c.Params("itemId"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, item)
}

func (h *LineItemHandler) RemoveLineItem(c *fiber.Ctx) error {
	if err := h.lineItemService.RemoveLineItem(c.Params("id"), c.Params("itemId")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
