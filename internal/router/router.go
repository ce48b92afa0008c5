package router

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/attendly/rollcall-backend/internal/config"
	"github.com/attendly/rollcall-backend/internal/handler"
	"github.com/attendly/rollcall-backend/internal/middleware"
	"github.com/attendly/rollcall-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Attendance *handler.AttendanceHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// ─── Static roster client ──────────────────────────────────────────
	router.StaticFile("/", filepath.Join(cfg.WebDir, "index.html"))
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(3600))
	{
		staticGroup.Static("/", filepath.Join(cfg.WebDir, "static"))
	}

	// Health check pings both backing stores.
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		dbHealthy := pool != nil && pool.Ping(ctx) == nil
		redisHealthy := rdb != nil && rdb.Ping(ctx).Err() == nil

		status := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		response.Success(c, status, gin.H{"db": dbHealthy, "redis": redisHealthy})
	})

	// Prometheus exposition.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── Attendance API ────────────────────────────────────────────────
	api := router.Group("/api")
	if cfg.RateLimitPerMin > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
		api.Use(limiter.Middleware())
	}
	{
		api.GET("/attendance", handlers.Attendance.ListStudents)
		api.GET("/attendance/summary", handlers.Attendance.GetSummary)
		api.POST("/attendance", handlers.Attendance.CreateStudent)
		api.PUT("/attendance/:id", handlers.Attendance.UpdateStudent)
		api.DELETE("/attendance/:id", handlers.Attendance.DeleteStudent)
	}

	// ─── WebSocket change stream ───────────────────────────────────────
	router.GET("/ws/attendance", handlers.WS.AttendanceStream)

	return router
}
