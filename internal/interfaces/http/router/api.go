package router

import (
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by New
type Handlers struct {
	Customer *handler.CustomerHandler
	Address  *handler.AddressHandler
	Project  *handler.ProjectHandler
	Status   *handler.StatusHandler
	Health   *handler.HealthHandler
}

// Options configures the engine built by New. Zero values disable the
// optional pieces: no tracing, no metrics, no idempotency, no /metrics.
type Options struct {
	Logger      *zap.Logger
	CORS        middleware.CORSConfig
	MaxBodySize int64
	Tracing     middleware.TracingConfig
	Metrics     middleware.HTTPMetricsConfig
	Idempotency middleware.IdempotencyConfig
	Registry    *prometheus.Registry
}

// New builds the gin engine with the middleware stack and every route
func New(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(opts.CORS),
		middleware.Tracing(opts.Tracing),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(opts.Metrics),
	)
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}
	engine.NoRoute(middleware.NoRoute())

	if h.Health != nil {
		engine.GET("/health", h.Health.Check)
	}
	if opts.Registry != nil {
		engine.GET("/metrics", gin.WrapH(telemetry.PrometheusHandler(opts.Registry)))
	}

	if opts.Idempotency.Logger == nil {
		opts.Idempotency.Logger = log
	}
	idempotent := middleware.Idempotency(opts.Idempotency)

	r := NewRouter(engine)

	customers := NewDomainGroup("customers", "/customers").
		GET("", h.Customer.Index).
		POST("", idempotent, h.Customer.Store).
		GET("/:id", h.Customer.Show).
		Update("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Destroy).
		GET("/:id/projects", h.Customer.Projects).
		GET("/:id/addresses", h.Address.ListByCustomer)

	addresses := NewDomainGroup("addresses", "/addresses").
		DELETE("/:id", h.Address.Destroy)

	projects := NewDomainGroup("projects", "/projects").
		GET("", h.Project.Index).
		POST("", idempotent, h.Project.Store).
		GET("/:id", h.Project.Show).
		Update("/:id", h.Project.Update).
		DELETE("/:id", h.Project.Destroy)

	statuses := NewDomainGroup("statuses", "/statuses").
		GET("", h.Status.Index)

	r.Register(customers).
		Register(addresses).
		Register(projects).
		Register(statuses)
	r.Setup()

	return engine
}
