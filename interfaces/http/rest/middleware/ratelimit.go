package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"ecnelisfly/pkg/auth"
	"ecnelisfly/pkg/common"
)

// RateLimit throttles by caller: the authenticated user when known, the
// client address otherwise. Limiter errors fail open.
func RateLimit(limiter auth.RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limitKey(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter failed", zap.String("key", key), zap.Error(err))
				allowed = true
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				common.RespondError(w, http.StatusTooManyRequests, common.StandardErrorCodes.TooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitKey(r *http.Request) string {
	if userID, ok := common.GetUserID(r.Context()); ok {
		return "user:" + userID
	}
	return "ip:" + clientIP(r)
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
