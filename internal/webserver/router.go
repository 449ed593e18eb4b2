package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/pastelhq/pastel/internal/config"
	"github.com/pastelhq/pastel/internal/embed"
	"github.com/pastelhq/pastel/internal/proxy"
	"github.com/pastelhq/pastel/internal/realtime"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, hub *realtime.Hub) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(db, secret)
	projH := NewProjects(db)
	commentH := NewComments(db, hub)
	replyH := NewReplies(db, hub)
	proxyH := NewProxy(proxy.NewService(cfg.ProxyTimeout, cfg.EnableDrag))

	// Anonymous writes are throttled per client IP; authenticated traffic is
	// already attributable.
	limiter := NewIPRateLimiter(rate.Limit(1), 5)

	api := r.Group("/api")
	{
		api.POST("/auth/signup", authH.Signup)
		api.POST("/auth/login", authH.Login)
		api.PUT("/auth/profile", JWTMiddleware(secret), authH.UpdateProfile)

		api.GET("/projects", JWTMiddleware(secret), projH.List)
		api.POST("/projects", OptionalJWTMiddleware(secret), projH.Create)
		api.GET("/projects/:id", projH.Get)
		api.DELETE("/projects/:id", JWTMiddleware(secret), projH.Delete)

		api.GET("/comments", commentH.List)
		api.POST("/comments", OptionalJWTMiddleware(secret), RateLimitMiddleware(limiter), commentH.Create)
		api.PUT("/comments/:id", JWTMiddleware(secret), commentH.Update)
		api.PATCH("/comments/:id/position", JWTMiddleware(secret), commentH.UpdatePosition)
		api.PATCH("/comments/:id/resolve", JWTMiddleware(secret), commentH.Resolve)
		api.DELETE("/comments/:id", JWTMiddleware(secret), commentH.Delete)

		api.GET("/replies", replyH.List)
		api.POST("/replies", OptionalJWTMiddleware(secret), RateLimitMiddleware(limiter), replyH.Create)
		api.DELETE("/replies/:id", JWTMiddleware(secret), replyH.Delete)
	}

	r.GET("/proxy", proxyH.Handle)
	r.GET("/ws", func(c *gin.Context) {
		realtime.ServeWS(hub, c.Writer, c.Request)
	})
	r.GET("/embed.js", embed.Handler())
}
