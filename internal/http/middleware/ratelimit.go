package middleware

import (
	"sync"
	"time"
)

type clientInfo struct {
	start time.Time
	count int64
}

// localLimiter is the in-process fixed window used when Redis is not
// configured.
type localLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{clients: make(map[string]*clientInfo), now: time.Now}
}

// hit returns the request count of key in the current window.
func (l *localLimiter) hit(key string, window time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.start) > window {
		if len(l.clients) > 10_000 {
			l.evict(now, window)
		}
		l.clients[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return ci.count
}

// evict drops expired windows. Caller holds mu.
func (l *localLimiter) evict(now time.Time, window time.Duration) {
	for k, ci := range l.clients {
		if now.Sub(ci.start) > window {
			delete(l.clients, k)
		}
	}
}
