package handler

import (
	"net/http"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/middleware"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route templates, also used to key panic messages.
const (
	RouteGenerate     = "/api/ai/generate-recommendations"
	RouteAnalysis     = "/api/ai/market-analysis"
	RouteStrategy     = "/api/ai/create-strategy"
	RouteAIHealth     = "/api/ai/health"
	RouteMarketStream = "/api/ai/market-stream"
	RouteAudit        = "/api/ai/audit"
)

var failureMessages = map[string]string{
	RouteGenerate: "Failed to generate AI recommendations",
	RouteStrategy: "Failed to create strategy",
	RouteAudit:    "Failed to list audit records",
}

type RouterDeps struct {
	Config   *config.Config
	Services *service.Services
	Audit    *service.AuditService
}

func NewRouter(d RouterDeps) *gin.Engine {
	cfg := d.Config
	r := gin.New()

	// Global Middleware
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware(d.Audit))
	r.Use(middleware.Recovery(failureMessages))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	ai := NewAIHandler(d.Services, cfg.Providers)
	stream := NewStreamHandler(d.Services.Analysis, cfg.Stream.Interval, cfg.Server.CORSOrigins)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit)

	r.POST(RouteGenerate, limiter.Middleware(), ai.GenerateRecommendations)
	r.GET(RouteAnalysis, ai.MarketAnalysis)
	r.POST(RouteStrategy, ai.CreateStrategy)
	r.GET(RouteAIHealth, ai.Health)
	r.GET(RouteMarketStream, stream.MarketStream)
	if cfg.Server.AuditEndpoint {
		r.GET(RouteAudit, NewAuditHandler(d.Audit).List)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	c.ExposeHeaders = []string{"Content-Length", "X-Request-ID", "Retry-After"}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	}
	return c
}
