package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/harborml/ragward/internal/auth"
	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/httputil"
	"github.com/harborml/ragward/internal/telemetry"
)

const (
	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware enforces a per-caller requests-per-minute limit. Authenticated
// requests are bucketed by entity id, anonymous ones by client address.
func Middleware(limiter *Limiter, cfg func() config.RateLimitConfig, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rlCfg := cfg()
			if !rlCfg.Enabled || rlCfg.RequestsPerMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			identity := callerIdentity(r)
			rpm := int64(rlCfg.RequestsPerMinute)

			result, _ := limiter.Check(r.Context(), "rpm:"+identity, rpm, time.Minute)

			w.Header().Set(headerRateLimitRequests, strconv.FormatInt(rpm, 10))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				reqID := w.Header().Get("X-Request-ID")
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"identity", identity,
					"limit", rpm,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit(identity)
				}
				w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				httputil.WriteRateLimited(w, reqID, "Rate limit exceeded, retry later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func callerIdentity(r *http.Request) string {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
