package app

import (
	"github.com/alex-rutan/express-messagely/internal/auth"
	"github.com/alex-rutan/express-messagely/internal/cache"
	"github.com/alex-rutan/express-messagely/internal/config"
	"github.com/alex-rutan/express-messagely/internal/handlers"
	"github.com/alex-rutan/express-messagely/internal/repo"
	"github.com/alex-rutan/express-messagely/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.Auth.SessionTTL.Duration())
	cacheTTL := cfg.Redis.DefaultTTL.Duration()

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, cache.NewDirectoryCache(rdb, cacheTTL))
	msgRepo := repo.NewPGMessageRepo(db)
	msgSvc := service.NewMessageService(msgRepo, userRepo, cache.NewMessageCache(rdb, cacheTTL))

	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))
	userHandler := handlers.NewUserHandler(userSvc, msgSvc)
	msgHandler := handlers.NewMessageHandler(msgSvc)
	registerUserRoutes(protected, userHandler)
	registerMessageRoutes(protected, msgHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Messagely API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/users", h.List)
	api.GET("/users/:username", h.Get)
	api.GET("/users/:username/to", h.MessagesTo)
	api.GET("/users/:username/from", h.MessagesFrom)
}

func registerMessageRoutes(api *gin.RouterGroup, h *handlers.MessageHandler) {
	api.POST("/messages", h.Send)
	api.GET("/messages/:id", h.Get)
	api.POST("/messages/:id/read", h.MarkRead)
}
