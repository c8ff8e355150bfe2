package api

import (
	"net/http"

	"github.com/courtside/pickledger/internal/api/handler"
	"github.com/courtside/pickledger/internal/api/middleware"
	"github.com/courtside/pickledger/internal/config"
	"github.com/courtside/pickledger/internal/service"
	"github.com/gin-gonic/gin"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	LedgerSvc    *service.LedgerService
	ReportingSvc *service.ReportingService
	Cfg          *config.Config
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware, CORS and rate limiting rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check ─────────────────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	wagerH := handler.NewWagerHandler(deps.LedgerSvc, deps.ReportingSvc)
	rollupH := handler.NewRollupHandler(deps.ReportingSvc)

	// Mutating routes get a stricter per-IP allowance than reads.
	writeRL := middleware.RateLimit(10)
	readRL := middleware.RateLimit(50)

	api := r.Group("/api")
	{
		wagers := api.Group("/wagers")
		{
			wagers.POST("", writeRL, wagerH.Append)
			wagers.POST("/:id/settle", writeRL, wagerH.Settle)
			wagers.POST("/:id/void", writeRL, wagerH.Void)
			wagers.GET("", readRL, wagerH.List)
			wagers.GET("/:id", readRL, wagerH.GetByID)
		}

		rollups := api.Group("/rollups")
		rollups.Use(readRL)
		{
			rollups.GET("/summary", rollupH.Summary)
			rollups.GET("/:date", rollupH.GetByDate)
			rollups.GET("", rollupH.GetRange)
		}
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// In development all origins are allowed; in production only configured origins.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			allowed := map[string]bool{
				"https://courtside.app":     true,
				"https://www.courtside.app": true,
			}
			if allowed[origin] {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
