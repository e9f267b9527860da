package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// Auth validates the bearer JWT, checks the session is still registered
// (logout revokes it), and injects the identity claims into context.
func Auth(jwtSecret string, registry ports.SessionRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sessionID, _ := claims["sid"].(string)
			if sessionID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing session identity")
			}
			if _, ok := registry.Get(sessionID); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
			}

			c.Set("username", claims["username"])
			c.Set("role", claims["role"])
			c.Set("session_id", sessionID)

			return next(c)
		}
	}
}
