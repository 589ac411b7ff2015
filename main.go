package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todos-api/internal/blocklist"
	"todos-api/internal/config"
	"todos-api/internal/database"
	"todos-api/internal/handlers"
	"todos-api/internal/middleware"
	"todos-api/internal/monitoring"
	"todos-api/internal/security"
	"todos-api/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := database.NewDatabasePool(database.PoolConfigFromAppConfig(cfg))
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool.DB); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	revoked := blocklist.NewRedisBlocklist(&blocklist.Config{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer revoked.Close()

	if err := revoked.Health(); err != nil {
		log.Printf("redis unavailable, logout revocation degraded: %v", err)
	}

	router := setupRouter(cfg, pool.DB, revoked)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("listening on %s (%s)", cfg.GetServerAddr(), cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

func setupRouter(cfg *config.Config, db *gorm.DB, revoked *blocklist.RedisBlocklist) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	metrics := monitoring.NewMetrics()
	router.Use(metrics.Middleware())

	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	hasher := security.NewPasswordHasher(cfg.Auth.BCryptCost)
	tokens := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	userService := services.NewUserService(hasher)
	taskService := services.NewTaskService()

	authHandler := handlers.NewAuthHandler(db, userService, tokens)
	taskHandler := handlers.NewTaskHandler(db, taskService)
	logoutHandler := handlers.NewLogoutHandler(revoked)

	requireAuth := middleware.RequireAuth(db, tokens, userService, revoked)

	router.GET("/healthz", monitoring.HealthzHandler(cfg.Server.Environment))
	router.GET("/metrics", metrics.Handler())

	auth := router.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, logoutHandler.Logout)
	}

	tasks := router.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return router
}
