// Package embed serves the overlay script that the proxy injects into
// annotated pages.
package embed

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed embed.js
var script []byte

// Handler serves the overlay script. Cacheable but short-lived so deploys
// pick up quickly.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", script)
	}
}
