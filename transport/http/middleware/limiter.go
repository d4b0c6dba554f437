package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
	"todoapi/shared/cache"
	"todoapi/shared/constant"
	"todoapi/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit counts requests per client in a fixed window. A cache failure lets the request through.
func (a *appMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.config.App.RateLimiter.Enable {
			next.ServeHTTP(w, r)

			return
		}

		maxReqs := a.config.App.RateLimiter.MaxRequests
		windowSecs := a.config.App.RateLimiter.WindowSeconds

		cacheKey := cache.BuildKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r))

		count, err := a.cache.Increment(r.Context(), cacheKey, time.Duration(windowSecs)*time.Second)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("rate limiter unavailable, allowing request")

			next.ServeHTTP(w, r)

			return
		}

		w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
		w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(maxReqs)-count), 10))
		w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

		if count > int64(maxReqs) {
			response.WithRequestLimitExceeded(w)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For can carry a chain, the client is first.
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
