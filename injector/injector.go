//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/recibolab/recibo-core/internal/app/deliveries"
	"github.com/recibolab/recibo-core/internal/app/middlewares"
	"github.com/recibolab/recibo-core/internal/app/services"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewObjectStorage,
	wire.Value("recibo"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewCounterService,
	services.NewHistoryService,
	services.NewAuditService,
	services.NewLineItemService,
	services.NewIncidentService,
	services.NewEvidenceService,
	services.NewSupplierService,
	services.NewProductService,
	services.NewUserService,
	services.NewReportService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewAuditHandler,
	deliveries.NewLineItemHandler,
	deliveries.NewIncidentHandler,
	deliveries.NewEvidenceHandler,
	deliveries.NewSupplierHandler,
	deliveries.NewProductHandler,
	deliveries.NewUserHandler,
	deliveries.NewReportHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
