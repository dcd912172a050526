package middleware

import (
	"net"
	"net/http"
	"staybook/shared"
	"staybook/shared/constant"
	"staybook/shared/logger"
	"staybook/transport/http/response"
	"strconv"
	"strings"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
)

// RateLimit allows MaxRequests per client in a fixed window of WindowSeconds. Identified
// callers are counted by user id, anonymous ones by address and user agent.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable || a.cache == nil {
				next.ServeHTTP(w, r)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, a.clientKey(r)...)

			count, err := a.cache.Increment(r.Context(), key, limits.WindowSeconds)
			if err != nil {
				// counting is best effort
				logger.Ctx(r.Context()).Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limits.MaxRequests)-count), 10))

			if count > int64(limits.MaxRequests) {
				header.Set(constant.RequestHeaderRetryAfter, strconv.Itoa(limits.WindowSeconds))
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) clientKey(r *http.Request) []string {
	if userID, ok := r.Context().Value(constant.ContextKeyUserID).(string); ok && userID != constant.Empty {
		return []string{"user", userID}
	}

	userAgent := r.Header.Get(constant.RequestHeaderUserAgent)
	if userAgent == constant.Empty {
		userAgent = unknownAgent
	}

	return []string{clientIP(r), userAgent}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != constant.Empty {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get(constant.RequestHeaderRealIP); realIP != constant.Empty {
		return strings.TrimSpace(realIP)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
