package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/models"
)

const AdminSubjectKey = "admin_subject"

// AdminAuth guards the order history routes with an HS256 bearer token. When
// no secret is configured every request passes.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminJWTSecret == "" {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing authorization header")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.AdminJWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			msg := "invalid token"
			if err != nil && strings.Contains(err.Error(), "token is expired") {
				msg = "token has expired"
			}
			unauthorized(c, msg)
			return
		}

		if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
			c.Set(AdminSubjectKey, sub)
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg})
}
