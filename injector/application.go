package injector

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recibolab/recibo-core/internal/app/deliveries"
	"github.com/recibolab/recibo-core/internal/app/middlewares"
)

// Application is the assembled dependency container.
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	AuditHandler        *deliveries.AuditHandler
	LineItemHandler     *deliveries.LineItemHandler
	IncidentHandler     *deliveries.IncidentHandler
	EvidenceHandler     *deliveries.EvidenceHandler
	SupplierHandler     *deliveries.SupplierHandler
	ProductHandler      *deliveries.ProductHandler
	UserHandler         *deliveries.UserHandler
	ReportHandler       *deliveries.ReportHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
}

// RegisterRoutes wires every handler into the Fiber router. Reads sit
// behind an IP rate limit; mutating routes add their own auth and
// user-scoped limits.
func (app *Application) RegisterRoutes(router fiber.Router) {
	router.Use(app.RateLimitMiddleware.LimitByIP(middlewares.ReadAPILimit))

	app.HealthHandler.RegisterRoutes(router)
	app.AuditHandler.RegisterRoutes(router)
	app.LineItemHandler.RegisterRoutes(router)
	app.IncidentHandler.RegisterRoutes(router)
	app.EvidenceHandler.RegisterRoutes(router)
	app.SupplierHandler.RegisterRoutes(router)
	app.ProductHandler.RegisterRoutes(router)
	app.UserHandler.RegisterRoutes(router)
	app.ReportHandler.RegisterRoutes(router)
}
