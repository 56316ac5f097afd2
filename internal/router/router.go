package router

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tacmedikal/fieldtrack-api/internal/config"
	"github.com/tacmedikal/fieldtrack-api/internal/handler"
	"github.com/tacmedikal/fieldtrack-api/internal/middleware"
)

// Handler registers its routes under a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AdminHandler additionally exposes admin-only routes.
type AdminHandler interface {
	Handler
	RegisterAdminRoutes(*gin.RouterGroup)
}

// AuthHandler exposes public auth routes plus session-bound ones like logout.
type AuthHandler interface {
	Handler
	RegisterAuthedRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *httpMetrics
}

type httpMetrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Handlers struct {
	Base     *handler.Handler
	Auth     AuthHandler
	User     AdminHandler
	Customer Handler
	Doctor   Handler
	Visit    Handler
	Product  Handler
	Order    Handler
	Report   AdminHandler
	Calendar Handler
}

func NewRouter(cfg config.ServerConfig, auth *middleware.AuthMiddleware, reg *prometheus.Registry, h Handlers) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		metrics: newHTTPMetrics(reg),
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.Timeout(time.Duration(cfg.TimeoutSeconds) * time.Second))
	engine.Use(r.observe())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderXRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	engine.Use(limiter.RateLimit())

	engine.GET("/health/live", h.Base.LivenessCheck)
	engine.GET("/health/ready", h.Base.ReadinessCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.metrics.registry, promhttp.HandlerOpts{})))

	v1 := engine.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(auth.Authenticate())
	h.Auth.RegisterAuthedRoutes(authed)
	h.User.RegisterRoutes(authed)
	h.Customer.RegisterRoutes(authed)
	h.Doctor.RegisterRoutes(authed)
	h.Visit.RegisterRoutes(authed)
	h.Product.RegisterRoutes(authed)
	h.Order.RegisterRoutes(authed)
	h.Report.RegisterRoutes(authed)
	h.Calendar.RegisterRoutes(authed)

	admin := v1.Group("/admin")
	admin.Use(auth.Authenticate(), auth.RequireAdmin())
	h.User.RegisterAdminRoutes(admin)
	h.Report.RegisterAdminRoutes(admin)

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newHTTPMetrics(reg *prometheus.Registry) *httpMetrics {
	m := &httpMetrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(m.requestDuration, m.requestTotal)
	return m
}

func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
