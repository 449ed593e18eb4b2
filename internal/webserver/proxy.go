package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pastelhq/pastel/internal/proxy"
)

type Proxy struct {
	svc *proxy.Service
}

func NewProxy(svc *proxy.Service) Proxy {
	return Proxy{svc: svc}
}

func (m Proxy) Handle(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "url parameter required"})
		return
	}
	projectID := c.Query("projectId")

	// The injected overlay loads embed.js and calls the API back through
	// this address, so it has to be the address the browser reached us on.
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
	}
	serverURL := scheme + "://" + c.Request.Host

	res, err := m.svc.Render(c.Request.Context(), target, projectID, serverURL)
	if err != nil {
		switch {
		case errors.Is(err, proxy.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{"err": "invalid url"})
		case errors.Is(err, proxy.ErrBlockedAddress):
			c.JSON(http.StatusForbidden, gin.H{"err": "internal addresses are not allowed"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"err": "failed to fetch target: " + err.Error()})
		}
		return
	}

	for k, vals := range res.Header {
		for _, v := range vals {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Status(res.StatusCode)
	c.Writer.Write(res.Body)
}
