package server

import (
	"log/slog"
	"strconv"

	"mad-life/internal/config"
	"mad-life/internal/metrics"
	"mad-life/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators of the router.
type Deps struct {
	Config   config.Config
	Registry *session.Registry
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("mad-life"))
	router.Use(requestID)
	router.Use(countRequests(d.Metrics))
	if d.Config.Debug {
		router.Use(gin.Logger())
	}

	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	h := NewHandlers(d.Registry, d.Config.Life, d.Config.Session.CookieName, d.Logger)
	RegisterRoutes(router, h)
	return router
}

func countRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Request(route, strconv.Itoa(c.Writer.Status()))
	}
}
