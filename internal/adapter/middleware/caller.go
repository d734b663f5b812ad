package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

const callerKey = "caller.account"

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// CallerExtractor reads the caller account from X-Account-Id and stashes it
// on the echo context. Every authenticated route sits behind it.
func CallerExtractor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := strings.TrimSpace(c.Request().Header.Get("X-Account-Id"))
			if account == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing X-Account-Id"})
			}
			if !reHex32.MatchString(account) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid X-Account-Id"})
			}
			c.Set(callerKey, account)
			return next(c)
		}
	}
}

// CallerID returns the account set by CallerExtractor, or "" outside it.
func CallerID(c echo.Context) string {
	if v, ok := c.Get(callerKey).(string); ok {
		return v
	}
	return ""
}
