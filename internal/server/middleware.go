package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Header names supplied by the external authentication collaborator. The
// service performs no authentication itself; it trusts the gateway in
// front of it to have resolved the acting user.
const (
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

const RoleAdmin = "admin"

// Identity copies the acting user's display name and role from the request
// headers into the Echo context.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_name", c.Request().Header.Get(HeaderUserName))
			c.Set("user_role", c.Request().Header.Get(HeaderUserRole))
			return next(c)
		}
	}
}

// RequireRole rejects requests whose role header does not match any of the
// allowed roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("user_role").(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient privileges"})
		}
	}
}

// RateLimit applies a per-client token bucket to mutating routes. Buckets
// are keyed by client IP; idle buckets are dropped after an hour.
func RateLimit(perMinute, burst int) echo.MiddlewareFunc {
	type bucket struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var mu sync.Mutex
	buckets := make(map[string]*bucket)
	limit := rate.Limit(float64(perMinute) / 60.0)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			mu.Lock()
			b, ok := buckets[ip]
			if !ok {
				b = &bucket{limiter: rate.NewLimiter(limit, burst)}
				buckets[ip] = b
			}
			b.lastSeen = time.Now()
			if len(buckets) > 1000 {
				cutoff := time.Now().Add(-time.Hour)
				for key, old := range buckets {
					if old.lastSeen.Before(cutoff) {
						delete(buckets, key)
					}
				}
			}
			mu.Unlock()

			if !b.limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
