package handlers

import (
	"time"

	"vedalipi/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	EndPointIndex   = "/"
	EndPointProcess = "/process"
	EndPointChatbot = "/chatbot"
	EndPointHealth  = "/health"
	EndPointVersion = "/version"
	EndPointMetrics = "/metrics"
)

// RouterOptions carries the middleware settings of the router.
type RouterOptions struct {
	AllowedOrigins     string
	SessionCookie      string
	RateLimitPerMinute int
}

// NewRouter wires the middleware chain and routes.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{EndPointMetrics})))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointVersion, h.Version)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	sessions := router.Group("/")
	sessions.Use(middleware.Session(opts.SessionCookie))
	{
		sessions.GET(EndPointIndex, h.Index)

		limited := sessions.Group("/")
		limited.Use(middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
		limited.POST(EndPointProcess, h.Process)
		limited.POST(EndPointChatbot, h.Chatbot)
	}

	return router
}
