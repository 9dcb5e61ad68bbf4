// Package ratelimit provides the request gates consulted by the endorsing
// authority. The authority only reports a RateLimitExceeded reason code; the
// decision of whether the limit was exceeded lives here, in the calling
// layer.
package ratelimit

import "golang.org/x/time/rate"

// Gate reports whether one more request may proceed.
type Gate interface {
	Allow() bool
}

type unlimited struct{}

func (unlimited) Allow() bool { return true }

// Unlimited never rejects.
var Unlimited Gate = unlimited{}

// Limiter is a token-bucket gate shared by all requests to one authority.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter allows rps requests per second with the given burst. rps <= 0
// yields an unlimited gate so deployments can disable limiting by config.
func NewLimiter(rps float64, burst int) Gate {
	if rps <= 0 {
		return Unlimited
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *Limiter) Allow() bool { return l.lim.Allow() }
