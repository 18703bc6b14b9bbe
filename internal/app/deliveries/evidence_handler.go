package deliveries

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type EvidenceHandler struct {
	evidenceService     *services.EvidenceService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewEvidenceHandler(evidenceService *services.EvidenceService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceService:     evidenceService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *EvidenceHandler) RegisterRoutes(router fiber.Router) {
	write := []fiber.Handler{h.authMiddleware.RequireUser, h.authMiddleware.RequireRole(models.UserRoleAuditor)}
	upload := append(append([]fiber.Handler{}, write...), h.rateLimitMiddleware.LimitByUser(middlewares.UploadLimit))

	auditEvidences := router.Group("/audits/:id/evidences")
	auditEvidences.Get("/", h.GetAuditEvidences)
	auditEvidences.Post("/", append(upload, h.UploadEvidence)...)

	evidenceGroup := router.Group("/evidences")
	evidenceGroup.Get("/:id", h.GetEvidence)
	evidenceGroup.Delete("/:id", append(write, h.DeleteEvidence)...)
}

// UploadEvidence accepts a multipart form with a "file" part plus optional
// description/line_item_id/incident_id fields.
func (h *EvidenceHandler) UploadEvidence(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewValidationError("Missing file upload",
			errors.FieldError{Field: "file", Message: "is required"}))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewInternalServerError(err, "Failed to open uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewInternalServerError(err, "Failed to read uploaded file"))
	}

	req := models.EvidenceCreateRequest{}
	if v := c.FormValue("description"); v != "" {
		req.Description = &v
	}
	if v := c.FormValue("line_item_id"); v != "" {
		req.LineItemID = &v
	}
	if v := c.FormValue("incident_id"); v != "" {
		req.IncidentID = &v
	}

	user := c.Locals("user").(*models.User)

	evidence, err := h.evidenceService.UploadEvidence(
		c.Context(),
		c.Params("id"),
		&req,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
		user.ID,
	)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, evidence)
}

func (h *EvidenceHandler) GetAuditEvidences(c *fiber.Ctx) error {
	evidences, err := h.evidenceService.GetAuditEvidences(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, evidences)
}

func (h *EvidenceHandler) GetEvidence(c *fiber.Ctx) error {
	evidence, err := h.evidenceService.GetEvidence(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, evidence)
}

func (h *EvidenceHandler) DeleteEvidence(c *fiber.Ctx) error {
	if err := h.evidenceService.DeleteEvidence(c.Context(), c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
