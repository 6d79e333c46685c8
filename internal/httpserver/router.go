package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"briefdesk/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	messageHandler *handler.MessageHandler,
	classificationHandler *handler.ClassificationHandler,
	taskHandler *handler.TaskHandler,
	briefHandler *handler.BriefHandler,
	jwtSecret string,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/messages", messageHandler.Ingest)
		auth.GET("/messages", messageHandler.List)
		auth.GET("/messages/:id", messageHandler.Get)

		auth.POST("/classify", classificationHandler.Run)
		auth.GET("/classifications", classificationHandler.List)
		auth.GET("/classifications/:id", classificationHandler.Get)
		auth.PATCH("/classifications/:id", classificationHandler.Update)
		auth.DELETE("/classifications/:id", classificationHandler.Delete)

		auth.POST("/tasks/generate", taskHandler.Generate)
		auth.GET("/tasks", taskHandler.List)
		auth.GET("/tasks/:id", taskHandler.Get)
		auth.PATCH("/tasks/:id", taskHandler.Update)
		auth.POST("/tasks/:id/complete", taskHandler.Complete)
		auth.DELETE("/tasks/:id", taskHandler.Delete)

		auth.POST("/briefs/generate", briefHandler.Generate)
		auth.GET("/briefs", briefHandler.List)
		auth.GET("/briefs/:id", briefHandler.Get)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
