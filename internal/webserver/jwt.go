package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pastelhq/pastel/internal/types"
)

const tokenLifetime = 7 * 24 * time.Hour

func issueJWT(u types.User, secret []byte) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenLifetime).Unix(),
	})
	return tok.SignedString(secret)
}

func parseJWT(header string, secret []byte) (userID, userName string, ok bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", "", false
	}
	tok, err := jwt.Parse(header[7:],
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !tok.Valid {
		return "", "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", false
	}
	userID, _ = claims["sub"].(string)
	userName, _ = claims["name"].(string)
	return userID, userName, userID != ""
}

// JWTMiddleware rejects requests without a valid bearer token.
func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, name, ok := parseJWT(c.GetHeader("Authorization"), secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "unauthorized"})
			return
		}
		c.Set("userID", id)
		c.Set("userName", name)
		c.Next()
	}
}

// OptionalJWTMiddleware attaches the user when a valid token is present and
// lets anonymous requests straight through. Anonymous writers become
// "Anonymous" at the handler.
func OptionalJWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, name, ok := parseJWT(c.GetHeader("Authorization"), secret); ok {
			c.Set("userID", id)
			c.Set("userName", name)
		}
		c.Next()
	}
}
