package muxhandlers

import (
	"errors"
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// ErrInvalidRate is returned when RateLimitConfig.Rate or Burst is not
// greater than zero.
var ErrInvalidRate = errors.New("rate limit: rate and burst must be greater than zero")

// RateLimitConfig configures the Rate Limit middleware behaviour.
type RateLimitConfig struct {
	// Rate is the number of requests per second refilled into the bucket.
	Rate float64

	// Burst is the bucket size.
	Burst int

	// KeyFunc partitions requests into independent buckets, for example by
	// an API key header. When nil, all requests share one bucket. Buckets
	// that have refilled completely are dropped as new keys arrive, so the
	// set stays bounded by the keys active within Burst/Rate seconds.
	KeyFunc func(req *httpwire.Request) string
}

// RateLimitMiddleware returns a token bucket middleware that answers 429 Too
// Many Requests with a Retry-After header when the bucket of the request is
// empty.
//
// It returns ErrInvalidRate if Rate or Burst is not greater than zero.
func RateLimitMiddleware(cfg RateLimitConfig) (pipeline.Middleware, error) {
	if cfg.Rate <= 0 || cfg.Burst <= 0 {
		return nil, ErrInvalidRate
	}

	limiters := newLimiterSet(rate.Limit(cfg.Rate), cfg.Burst)

	keyFunc := cfg.KeyFunc
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.Rate)))

	return pipeline.Middleware1(pipeline.RequestParam(), func(req *httpwire.Request) *httpwire.Response {
		key := ""
		if keyFunc != nil {
			key = keyFunc(req)
		}

		if limiters.allow(key, time.Now()) {
			return nil
		}

		return errorResponse(httpwire.StatusTooManyRequests, "").
			WithHeader("Retry-After", retryAfter)
	}), nil
}

// minSweep is the set size below which idle buckets are kept.
const minSweep = 1024

type limiterSet struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*rate.Limiter
	nextSweep int
}

func newLimiterSet(limit rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		limit:     limit,
		burst:     burst,
		limiters:  make(map[string]*rate.Limiter),
		nextSweep: minSweep,
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[key]
	if !ok {
		if len(s.limiters) >= s.nextSweep {
			s.sweep(now)
		}
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = l
	}
	return l.AllowN(now, 1)
}

// sweep drops buckets that are full at now. A full bucket behaves exactly
// like a new one, so dropping it changes no decision.
func (s *limiterSet) sweep(now time.Time) {
	for key, l := range s.limiters {
		if l.TokensAt(now) >= float64(s.burst) {
			delete(s.limiters, key)
		}
	}
	s.nextSweep = max(2*len(s.limiters), minSweep)
}
