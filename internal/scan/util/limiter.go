package util

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter paces requests per hostname (www.reddit.com, api.x.com, ...)
// so scanning a long subreddit list stays polite: one request per interval,
// no bursts.
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
}

func NewHostLimiter(interval time.Duration) *HostLimiter {
	if interval <= 0 {
		interval = time.Second
	}
	return &HostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Every(interval),
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, 1)
	hl.m[host] = lim
	return lim
}

func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}
