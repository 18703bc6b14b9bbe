package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type IncidentHandler struct {
	incidentService *services.IncidentService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewIncidentHandler(incidentService *services.IncidentService, authMiddleware *middlewares.AuthMiddleware) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		authMiddleware:  authMiddleware,
	}
}

func (h *IncidentHandler) RegisterRoutes(router fiber.Router) {
	write := []fiber.Handler{h.authMiddleware.RequireUser, h.authMiddleware.RequireRole(models.UserRoleAuditor)}

	auditIncidents := router.Group("/audits/:id/incidents")
	auditIncidents.Get("/", h.GetAuditIncidents)
	auditIncidents.Post("/", append(write, h.RaiseIncident)...)

	incidentGroup := router.Group("/incidents")
	incidentGroup.Get("/", h.GetIncidents)
	incidentGroup.Get("/:id", h.GetIncident)
	incidentGroup.Patch("/:id", append(write, h.UpdateIncident)...)
	incidentGroup.Post("/:id/review", append(write, h.StartReview)...)
	incidentGroup.Post("/:id/resolve", append(write, h.ResolveIncident)...)
	incidentGroup.Post("/:id/reject", append(write, h.RejectIncident)...)
}

func (h *IncidentHandler) RaiseIncident(c *fiber.Ctx) error {
	var req models.IncidentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user := c.Locals("user").(*models.User)

	incident, err := h.incidentService.RaiseIncident(c.Params("id"), &req, user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, incident)
}

func (h *IncidentHandler) GetAuditIncidents(c *fiber.Ctx) error {
	incidents, err := h.incidentService.GetAuditIncidents(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incidents)
}

func (h *IncidentHandler) GetIncident(c *fiber.Ctx) error {
	incident, err := h.incidentService.GetIncident(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incident)
}

func (h *IncidentHandler) GetIncidents(c *fiber.Ctx) error {
	pagination := parsePagination(c)

	filter := models.IncidentListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.IncidentStatus(statusStr)
		filter.Status = &status
	}
	if typeStr := c.Query("type"); typeStr != "" {
		incidentType := models.IncidentType(typeStr)
		filter.Type = &incidentType
	}
	if severityStr := c.Query("severity"); severityStr != "" {
		severity := models.IncidentSeverity(severityStr)
		filter.Severity = &severity
	}

	incidents, err := h.incidentService.GetIncidents(pagination, &filter)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incidents)
}

func (h *IncidentHandler) UpdateIncident(c *fiber.Ctx) error {
	var req models.IncidentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	incident, err := h.incidentService.UpdateIncident(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incident)
}

func (h *IncidentHandler) StartReview(c *fiber.Ctx) error {
	incident, err := h.incidentService.StartReview(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incident)
}

func (h *IncidentHandler) ResolveIncident(c *fiber.Ctx) error {
	var req models.IncidentResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	incident, err := h.incidentService.ResolveIncident(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incident)
}

func (h *IncidentHandler) RejectIncident(c *fiber.Ctx) error {
	var req models.IncidentResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	incident, err := h.incidentService.RejectIncident(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, incident)
}
