package deliveries

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type AuditHandler struct {
	auditService        *services.AuditService
	historyService      *services.HistoryService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewAuditHandler(auditService *services.AuditService, historyService *services.HistoryService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *AuditHandler {
	return &AuditHandler{
		auditService:        auditService,
		historyService:      historyService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *AuditHandler) RegisterRoutes(router fiber.Router) {
	auditGroup := router.Group("/audits")

	auditGroup.Get("/", h.GetAudits)
	auditGroup.Get("/:id", h.GetAudit)
	auditGroup.Get("/:id/history", h.GetAuditHistory)

	write := []fiber.Handler{
		h.authMiddleware.RequireUser,
		h.authMiddleware.RequireRole(models.UserRoleAuditor),
		h.rateLimitMiddleware.LimitByUser(middlewares.WriteAPILimit),
	}
	auditGroup.Post("/", append(write, h.CreateAudit)...)
	auditGroup.Patch("/:id", append(write, h.UpdateAudit)...)
	auditGroup.Delete("/:id", append(write, h.DeleteAudit)...)
	auditGroup.Post("/:id/finalize", append(write, h.FinalizeAudit)...)
	auditGroup.Post("/:id/close", append(write, h.CloseAudit)...)
	auditGroup.Post("/:id/cancel", append(write, h.CancelAudit)...)
}

func (h *AuditHandler) CreateAudit(c *fiber.Ctx) error {
	var req models.AuditCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user := c.Locals("user").(*models.User)

	audit, err := h.auditService.CreateAudit(&req, user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, audit)
}

func (h *AuditHandler) GetAudit(c *fiber.Ctx) error {
	audit, err := h.auditService.GetAudit(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, audit)
}

func (h *AuditHandler) GetAudits(c *fiber.Ctx) error {
	pagination := parsePagination(c)

	filter := models.AuditListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.AuditStatus(statusStr)
		filter.Status = &status
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		filter.SupplierID = &supplierID
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.DateTo = &t
		}
	}

	audits, err := h.auditService.GetAudits(pagination, &filter)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, audits)
}

func (h *AuditHandler) UpdateAudit(c *fiber.Ctx) error {
	var req models.AuditUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	audit, err := h.auditService.UpdateAudit(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, audit)
}

func (h *AuditHandler) DeleteAudit(c *fiber.Ctx) error {
	if err := h.auditService.DeleteAudit(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}

func (h *AuditHandler) FinalizeAudit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	audit, err := h.auditService.FinalizeAudit(c.Params("id"), user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, audit)
}

func (h *AuditHandler) CloseAudit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	audit, err := h.auditService.CloseAudit(c.Params("id"), user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, audit)
}

func (h *AuditHandler) CancelAudit(c *fiber.Ctx) error {
	var body struct {
		Reason *string `json:"reason,omitempty"`
	}
	// Body is optional for cancellation.
	_ = c.BodyParser(&body)

	user := c.Locals("user").(*models.User)

	audit, err := h.auditService.CancelAudit(c.Params("id"), user.ID, body.Reason)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, audit)
}

func (h *AuditHandler) GetAuditHistory(c *fiber.Ctx) error {
	history, err := h.historyService.GetAuditHistory(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, history)
}

func parsePagination(c *fiber.Ctx) *models.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}
	return &models.PaginationRequest{Page: page, Limit: limit}
}
