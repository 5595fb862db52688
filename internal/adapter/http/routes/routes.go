package routes

import (
	"context"
	"os"
	"time"

	_ "repair_costing/docs" // registers the swagger docs
	"repair_costing/internal/adapter/http/handlers"
	"repair_costing/internal/adapter/persistence/memory"
	"repair_costing/internal/adapter/persistence/repository"
	"repair_costing/internal/infrastructure/config"
	"repair_costing/internal/infrastructure/database"
	"repair_costing/internal/infrastructure/logging"
	"repair_costing/internal/infrastructure/payments"
	"repair_costing/internal/usecase"
	"repair_costing/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", "json", os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, os.Stdout)
	gin.SetMode(cfg.App.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	deps, err := buildDependencies(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to wire dependencies")
	}

	router := NewRouter(NewHandlers(deps, cfg.Payments.MockEnabled(), logger), logger)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info().Str("port", cfg.App.Port).Str("storage", cfg.App.Storage).Msg("starting http server")
	if err := router.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to startup the application")
	}
}

// Dependencies are the ports every use case is built from.
type Dependencies struct {
	Repo     interfaces.IAssessmentRepository
	Rates    interfaces.IRateStore
	Audit    interfaces.IAuditSink
	Payments interfaces.IBillingPaymentRepository
	Gateway  interfaces.IPaymentGateway
	Settings usecase.PaymentSettings
}

func buildDependencies(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Dependencies, error) {
	deps := Dependencies{
		Settings: usecase.PaymentSettings{
			Mock:            cfg.Payments.MockEnabled(),
			AccessToken:     cfg.Payments.AccessToken,
			TestPayerEmail:  cfg.Payments.TestPayerEmail,
			TestPayerUserID: cfg.Payments.TestPayerUserID,
		},
	}

	switch cfg.App.Storage {
	case config.StorageMemory:
		deps.Repo = memory.NewStore()
		deps.Rates = memory.NewStaticRates(cfg.Rates.Snapshot())
		deps.Audit = &memory.AuditLog{}
		deps.Payments = memory.NewPayments()
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS, logger)
		if err != nil {
			return Dependencies{}, err
		}
		deps.Repo = repository.NewAssessmentDynamoRepository(ddb, cfg.Tables)
		deps.Rates = repository.NewRatesDynamoRepository(ddb, cfg.Tables.Rates, cfg.Rates.Snapshot())
		deps.Audit = repository.NewAuditDynamoRepository(ddb, cfg.Tables.Audit)
		deps.Payments = repository.NewBillingPaymentDynamoRepository(ddb, cfg.Tables.Payments)
	}

	if !deps.Settings.Mock {
		gateway, err := payments.NewMercadoPagoGateway(cfg.Payments.AccessToken, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("mercado pago gateway not configured")
		} else {
			deps.Gateway = gateway
		}
	}
	return deps, nil
}

type Handlers struct {
	Assessments *handlers.AssessmentHandler
	Estimates   *handlers.EstimateHandler
	Additionals *handlers.AdditionalsHandler
	FRC         *handlers.FRCHandler
	Rates       *handlers.RatesHandler
	Payments    *handlers.BillingPaymentHandler
}

func NewHandlers(deps Dependencies, paymentMock bool, logger zerolog.Logger) Handlers {
	return Handlers{
		Assessments: handlers.NewAssessmentHandler(usecase.NewAssessmentUseCase(deps.Repo, deps.Audit, logger)),
		Estimates:   handlers.NewEstimateHandler(usecase.NewEstimateUseCase(deps.Repo, deps.Rates, deps.Audit, logger)),
		Additionals: handlers.NewAdditionalsHandler(usecase.NewAdditionalsUseCase(deps.Repo, deps.Rates, deps.Audit, logger)),
		FRC:         handlers.NewFRCHandler(usecase.NewFRCUseCase(deps.Repo, deps.Audit, logger)),
		Rates:       handlers.NewRatesHandler(usecase.NewRatesUseCase(deps.Rates, deps.Audit, logger)),
		Payments: handlers.NewBillingPaymentHandler(
			usecase.NewBillingPaymentUseCase(deps.Repo, deps.Payments, deps.Gateway, deps.Audit, deps.Settings, logger),
			paymentMock,
			logger,
		),
	}
}

// NewRouter builds the engine with middlewares and the /v1 routes.
func NewRouter(h Handlers, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, logger)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addRatesRoutes(v1, h.Rates)
	addAssessmentRoutes(v1, h)
	addPaymentRoutes(v1, h.Payments)
	return router
}

func setMiddlewares(router *gin.Engine, logger zerolog.Logger) {
	router.Use(requestLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.FullPath()).Msg("recovered from panic")
		c.AbortWithStatus(500)
	}))
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		evt := logger.Info()
		if status >= 500 {
			evt = logger.Error()
		} else if status >= 400 {
			evt = logger.Warn()
		}
		evt.Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
