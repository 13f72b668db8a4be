package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/iota-uz/agentlists/pkg/composables"
	"github.com/iota-uz/agentlists/pkg/httpapi"
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
	// KeyFunc buckets requests. nil means one global bucket.
	KeyFunc func(r *http.Request) string
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// RateLimit rejects requests over the configured rate with a JSON 429. A
// non-positive RequestsPerPeriod disables limiting.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	if cfg.RequestsPerPeriod <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Period <= 0 {
		cfg.Period = time.Second
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(*http.Request) string { return "global" }
	}

	instance := limiter.New(cfg.Store, limiter.Rate{
		Period: cfg.Period,
		Limit:  int64(cfg.RequestsPerPeriod),
	})
	m := limiterhttp.NewMiddleware(
		instance,
		limiterhttp.WithKeyGetter(keyFunc),
		limiterhttp.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			meta := map[string]string{}
			if id, ok := composables.UseRequestID(r.Context()); ok {
				meta["request_id"] = id
			}
			_ = httpapi.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", meta)
		}),
		limiterhttp.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			composables.UseLogger(r.Context()).WithError(err).Error("rate limiter store failed")
			_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
		}),
	)
	return m.Handler
}
