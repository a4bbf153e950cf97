package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicdesk/clinic-api/internal/handler/appointment"
	assistantHandler "github.com/clinicdesk/clinic-api/internal/handler/assistant"
	authHandler "github.com/clinicdesk/clinic-api/internal/handler/auth"
	diseaseHandler "github.com/clinicdesk/clinic-api/internal/handler/disease"
	doctorHandler "github.com/clinicdesk/clinic-api/internal/handler/doctor"
	patientHandler "github.com/clinicdesk/clinic-api/internal/handler/patient"
	"github.com/clinicdesk/clinic-api/internal/middleware"
)

// Handler registers a resource's routes on an API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	CORS           middleware.CORSConfig
	RateLimit      middleware.RateLimiterConfig
	RequestTimeout time.Duration
}

type Router struct {
	engine       *gin.Engine
	healthH      *handler.HealthHandler
	patientH     *patientHandler.Handler
	doctorH      *doctorHandler.Handler
	diseaseH     *diseaseHandler.Handler
	assistantH   *assistantHandler.Handler
	appointmentH *appointmentHandler.Handler
	authH        *authHandler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic_api",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func NewRouter(
	cfg Config,
	healthH *handler.HealthHandler,
	patientH *patientHandler.Handler,
	doctorH *doctorHandler.Handler,
	diseaseH *diseaseHandler.Handler,
	assistantH *assistantHandler.Handler,
	appointmentH *appointmentHandler.Handler,
	authH *authHandler.Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		healthH:      healthH,
		patientH:     patientH,
		doctorH:      doctorH,
		diseaseH:     diseaseH,
		assistantH:   assistantH,
		appointmentH: appointmentH,
		authH:        authH,
		metrics:      newRouterMetrics(),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: cfg.RequestTimeout}),
		middleware.CORS(cfg.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.healthH.Health)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	for _, h := range []Handler{
		r.patientH,
		r.doctorH,
		r.diseaseH,
		r.assistantH,
		r.appointmentH,
		r.authH,
	} {
		h.RegisterRoutes(api)
	}

	r.patientH.RegisterLegacyRoutes(r.engine)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
