package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const callerKey = "callerID"

var errUnauthorized = errors.New("unauthorized")

// requireAuth verifies the bearer token and stores the caller id in the context.
// Tokens are issued elsewhere; only HS256 signatures are accepted.
func requireAuth(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return unauthorized("missing token")
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			})
			if err != nil {
				return unauthorized("invalid token")
			}

			id, err := callerFromClaims(claims)
			if err != nil {
				return unauthorized("invalid token")
			}

			c.Set(callerKey, id)
			return next(c)
		}
	}
}

// callerFromClaims reads the numeric userId claim, falling back to a numeric sub.
func callerFromClaims(claims jwt.MapClaims) (int64, error) {
	if v, ok := claims["userId"]; ok {
		switch id := v.(type) {
		case float64:
			if id > 0 && id == float64(int64(id)) {
				return int64(id), nil
			}
		case string:
			return parseUserID(id)
		}
		return 0, fmt.Errorf("userId claim is not a positive integer")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("no caller identity in token")
	}
	return parseUserID(sub)
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user id %q is not a positive integer", raw)
	}
	return id, nil
}

func unauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(errUnauthorized)
}

func callerID(c echo.Context) int64 {
	id, _ := c.Get(callerKey).(int64)
	return id
}
