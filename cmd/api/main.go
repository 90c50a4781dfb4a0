package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Matiu01/BACKEND-ESCUELA/internal/attendance"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/config"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/course"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/document"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/event"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/handler"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/httpmiddleware"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/schedule"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/school"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/staff"
	"github.com/Matiu01/BACKEND-ESCUELA/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	documents, err := document.NewService(db.Client, cfg.UploadDir)
	if err != nil {
		return err
	}

	h := handler.New(
		cfg,
		school.NewService(db.Client),
		documents,
		schedule.NewService(db.Client),
		event.NewService(db.Client),
		course.NewService(db.Client),
		staff.NewService(db.Client),
		attendance.NewService(db.Client),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(securityHeaders())
	r.Use(rateLimiter(cfg, redisClient))
	r.Use(httpmiddleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status": "ok",
			"db":     dbHealthy,
			"redis":  redisClient.Healthy(c.Request.Context()),
		})
	})

	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	// Give outstanding requests 10 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}

func rateLimiter(cfg config.App, redisClient *store.Redis) gin.HandlerFunc {
	if cfg.RateLimitBackend == "redis" {
		return httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin).GinMiddleware()
	}
	return httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware()
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
