package server

import (
	"time"

	httpHandler "scriptgo/interfaces/http"
	"scriptgo/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// EventStreamer serves live script events.
type EventStreamer interface {
	ServeSSE(c *gin.Context)
	ServeWS(c *gin.Context)
}

type RouterConfig struct {
	SecretKey      string
	AllowedOrigins []string
}

func InitiateRouter(
	cfg RouterConfig,
	healthHandler httpHandler.IHealthHandler,
	scriptHandler httpHandler.IScriptHandler,
	plannerHandler httpHandler.IPlannerHandler,
	events EventStreamer,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Auth(cfg.SecretKey))

	scripts := api.Group("/scripts")
	{
		scripts.POST("/generate", scriptHandler.Generate)
		scripts.GET("", scriptHandler.List)
		scripts.POST("/delete", scriptHandler.DeleteMany)
		scripts.POST("/send", scriptHandler.SendSelected)
		scripts.GET("/:id", scriptHandler.Get)
		scripts.PUT("/:id", scriptHandler.Save)
		scripts.DELETE("/:id", scriptHandler.Delete)
	}

	api.POST("/planner/generate", plannerHandler.Generate)
	api.GET("/planner", plannerHandler.List)
	api.GET("/profile", scriptHandler.Profile)

	if events != nil {
		api.GET("/events", events.ServeSSE)
		api.GET("/events/ws", events.ServeWS)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	cfg.AllowOriginFunc = func(origin string) bool {
		_, ok := allowed[origin]
		return ok
	}
	return cfg
}
