package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	appointmenthandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/appointment"
	authhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/auth"
	doctorhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/doctor"
	healthhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/health"
	patienthandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/patient"
	prescriptionhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/prescription"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/auth"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
)

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	Timeout    time.Duration
	CORSConfig middleware.CORSConfig
}

type Router struct {
	engine        *gin.Engine
	jwtSvc        auth.JWTService
	authH         *authhandler.Handler
	doctorH       *doctorhandler.Handler
	appointmentH  *appointmenthandler.Handler
	patientH      *patienthandler.Handler
	prescriptionH *prescriptionhandler.Handler
	healthH       *healthhandler.Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	jwtSvc auth.JWTService,
	l *logger.Logger,
	authH *authhandler.Handler,
	doctorH *doctorhandler.Handler,
	appointmentH *appointmenthandler.Handler,
	patientH *patienthandler.Handler,
	prescriptionH *prescriptionhandler.Handler,
	healthH *healthhandler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:        engine,
		jwtSvc:        jwtSvc,
		authH:         authH,
		doctorH:       doctorH,
		appointmentH:  appointmentH,
		patientH:      patientH,
		prescriptionH: prescriptionH,
		healthH:       healthH,
		metrics:       newRouterMetrics(),
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(l),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

// Setup mounts all routes.
func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	public := api.Group("/auth")

	authed := api.Group("")
	authed.Use(middleware.Auth(r.jwtSvc))

	r.authH.RegisterRoutes(public, authed.Group("/auth"))
	r.doctorH.RegisterRoutes(authed)
	r.appointmentH.RegisterRoutes(authed)
	r.patientH.RegisterRoutes(authed)
	r.prescriptionH.RegisterRoutes(authed)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
