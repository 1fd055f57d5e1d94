package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neoflix/neoflix-api/handlers"
	"github.com/neoflix/neoflix-api/internal/auth"
	"github.com/neoflix/neoflix-api/internal/config"
	"github.com/neoflix/neoflix-api/internal/favorites"
	"github.com/neoflix/neoflix-api/internal/graph"
	"github.com/neoflix/neoflix-api/pkg/logger"
	"github.com/neoflix/neoflix-api/pkg/metrics"
	"github.com/neoflix/neoflix-api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: neo4j=%v jwt_secret_set=%v", cfg.Neo4j.URI != "", cfg.JWT.Secret != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Neo4j with retry/backoff to tolerate startup races
	ctx := context.Background()
	const maxAttempts = 5
	backoff := time.Second
	var driver *graph.Driver
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		driver, errConn = graph.Connect(ctx, cfg.Neo4j)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to Neo4j: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to Neo4j after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = driver.Close(ctx) }()

	// registration relies on the email uniqueness constraint
	if err := driver.EnsureConstraints(ctx); err != nil {
		logger.Warnf("failed to ensure graph constraints: %v", err)
	}

	authSvc := auth.NewService(driver, cfg)
	favSvc := favorites.NewService(driver)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when the graph is reachable
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"neo4j": driver.Ping(c.Request.Context()) == nil}
		if !deps["neo4j"] {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	api := r.Group("/api")
	handlers.NewAuthHandler(authSvc).Register(api)
	handlers.NewFavoriteHandler(favSvc).Register(api.Group("", middleware.Auth(cfg.JWT.Secret)))

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting neoflix api on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
