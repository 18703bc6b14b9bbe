package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type ProductHandler struct {
	productService *services.ProductService
	authMiddleware *middlewares.AuthMiddleware
}

func NewProductHandler(productService *services.ProductService, authMiddleware *middlewares.AuthMiddleware) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		authMiddleware: authMiddleware,
	}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productGroup := router.Group("/products")

	productGroup.Get("/", h.GetProducts)
	productGroup.Get("/:id", h.GetProduct)
	productGroup.Get("/sku/:sku", h.GetProductBySKU)

	write := []fiber.Handler{h.authMiddleware.RequireUser, h.authMiddleware.RequireRole(models.UserRoleAuditor)}
	productGroup.Post("/", append(write, h.CreateProduct)...)
	productGroup.Patch("/:id", append(write, h.UpdateProduct)...)
	productGroup.Delete("/:id", append(write, h.DeleteProduct)...)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, product)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) GetProductBySKU(c *fiber.Ctx) error {
	product, err := h.productService.GetProductBySKU(c.Params("sku"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	pagination := parsePagination(c)
	activeOnly := c.Query("active") == "true"

	products, err := h.productService.GetProducts(pagination, activeOnly)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, products)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req models.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	product, err := h.productService.UpdateProduct(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
