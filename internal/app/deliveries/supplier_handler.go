package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type SupplierHandler struct {
	supplierService *services.SupplierService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewSupplierHandler(supplierService *services.SupplierService, authMiddleware *middlewares.AuthMiddleware) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		authMiddleware:  authMiddleware,
	}
}

func (h *SupplierHandler) RegisterRoutes(router fiber.Router) {
	supplierGroup := router.Group("/suppliers")

	supplierGroup.Get("/", h.GetSuppliers)
	supplierGroup.Get("/:id", h.GetSupplier)

	write := []fiber.Handler{h.authMiddleware.RequireUser, h.authMiddleware.RequireRole(models.UserRoleAuditor)}
	supplierGroup.Post("/", append(write, h.CreateSupplier)...)
	supplierGroup.Patch("/:id", append(write, h.UpdateSupplier)...)
	supplierGroup.Delete("/:id", append(write, h.DeleteSupplier)...)
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req models.SupplierCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	supplier, err := h.supplierService.CreateSupplier(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, supplier)
}

func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	supplier, err := h.supplierService.GetSupplier(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, supplier)
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	pagination := parsePagination(c)
	activeOnly := c.Query("active") == "true"

	suppliers, err := h.supplierService.GetSuppliers(pagination, activeOnly)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, suppliers)
}

func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	var req models.SupplierUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, supplier)
}

func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	if err := h.supplierService.DeleteSupplier(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
