package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"pulseboard/internal/httputil"
	"pulseboard/internal/redis"
)

// ThrottleConfig holds the fixed-window limits. A zero limit disables that
// window.
type ThrottleConfig struct {
	BurstPerMinute   int
	SustainedPerHour int
}

// Throttle enforces per-client fixed-window rate limits backed by Redis.
// Authenticated requests are keyed by user ID, anonymous ones by remote IP.
// Redis being down fails open: throttling protects capacity, it is not an
// auth boundary.
func Throttle(client *redis.Client, cfg ThrottleConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				next.ServeHTTP(w, r)
				return
			}

			identity := clientIdentity(r)

			if cfg.BurstPerMinute > 0 {
				ok, err := allow(r, client, "throttle:burst:"+identity, cfg.BurstPerMinute, time.Minute)
				if err != nil {
					log.Printf("[Throttle] Redis error, failing open: %v", err)
				} else if !ok {
					httputil.WriteRateLimited(w, 60)
					return
				}
			}

			if cfg.SustainedPerHour > 0 {
				ok, err := allow(r, client, "throttle:sustained:"+identity, cfg.SustainedPerHour, time.Hour)
				if err != nil {
					log.Printf("[Throttle] Redis error, failing open: %v", err)
				} else if !ok {
					httputil.WriteRateLimited(w, 3600)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow counts the request against the window and reports whether it is
// within the limit. The key expires with the window, so idle clients cost
// nothing.
func allow(r *http.Request, client *redis.Client, key string, limit int, window time.Duration) (bool, error) {
	ctx := r.Context()

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	return count <= int64(limit), nil
}

func clientIdentity(r *http.Request) string {
	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", userID)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
