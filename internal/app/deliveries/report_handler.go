package deliveries

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportGroup := router.Group("/reports")

	reportGroup.Get("/overview", h.GetOverview)
	reportGroup.Get("/audits/:id", h.GetAuditSummary)
}

func (h *ReportHandler) GetOverview(c *fiber.Ctx) error {
	report, err := h.reportService.GetOverview()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, report)
}

func (h *ReportHandler) GetAuditSummary(c *fiber.Ctx) error {
	summary, err := h.reportService.GetAuditSummary(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, summary)
}
