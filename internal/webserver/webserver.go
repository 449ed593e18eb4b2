package webserver

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pastelhq/pastel/internal/config"
	"github.com/pastelhq/pastel/internal/realtime"
)

func New(cfg config.Config, db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, hub)
	return g
}
