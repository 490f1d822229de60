package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"foodconnect/internal/managers"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// OTPThrottle limits pickup code guesses with two token buckets: one per (volunteer, donation) pair and
// one per donation shared by all volunteers.
type OTPThrottle struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	pair      bucket
	donation  bucket
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type bucket struct {
	limit rate.Limit
	burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// donationShareFactor is how many volunteers' worth of attempts a single donation accepts.
const donationShareFactor = 3

func newBucket(attemptsPerMinute int) bucket {
	return bucket{limit: rate.Every(time.Minute / time.Duration(attemptsPerMinute)), burst: attemptsPerMinute}
}

// NewOTPThrottle allows attemptsPerMinute guesses per minute and volunteer with an equal burst.
// All volunteers together get three times that on a single donation.
func NewOTPThrottle(attemptsPerMinute int) *OTPThrottle {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 5
	}
	return &OTPThrottle{
		visitors: make(map[string]*visitor),
		pair:     newBucket(attemptsPerMinute),
		donation: newBucket(attemptsPerMinute * donationShareFactor),
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one attempt from the volunteer's bucket for the donation and one from the donation's
// shared bucket. Nothing is consumed unless both have an attempt left.
func (t *OTPThrottle) Allow(volunteerID, donationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	pair := t.limiter("pair:"+volunteerID+":"+donationID, t.pair, now)
	shared := t.limiter("donation:"+donationID, t.donation, now)
	if pair.TokensAt(now) < 1 || shared.TokensAt(now) < 1 {
		return false
	}
	return pair.AllowN(now, 1) && shared.AllowN(now, 1)
}

// limiter returns the bucket stored under key, creating it from spec. Callers hold t.mu.
func (t *OTPThrottle) limiter(key string, spec bucket, now time.Time) *rate.Limiter {
	v, ok := t.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(spec.limit, spec.burst)}
		t.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// prune drops idle buckets, at most once per idle period. Callers hold t.mu.
func (t *OTPThrottle) prune(now time.Time) {
	if now.Sub(t.lastPrune) < t.idle {
		return
	}
	for key, v := range t.visitors {
		if now.Sub(v.lastSeen) > t.idle {
			delete(t.visitors, key)
		}
	}
	t.lastPrune = now
}

// Middleware rejects verification attempts over the limit with 429 before they reach the state machine.
func (t *OTPThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := managers.PrincipalFromContext(c)
		if !ok {
			c.Next()
			return
		}
		donationID := c.Param(utils.DonationIdParamKey)
		if !t.Allow(principal.UserID.String(), donationID) {
			utils.WriteAndLogError(c, schemas.TooManyAttempts, http.StatusTooManyRequests,
				errors.New("pickup code attempts exhausted for donation "+donationID))
			c.Abort()
			return
		}
		c.Next()
	}
}
