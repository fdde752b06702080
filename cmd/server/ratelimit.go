package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRateLimiter limits requests per client IP.
type clientRateLimiter struct {
	rps     rate.Limit
	burst   int
	expire  time.Duration
	lock    sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

func newClientRateLimiter(rps float64, burst int, expire time.Duration) *clientRateLimiter {
	return &clientRateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		expire:  expire,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (rl *clientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}

func (rl *clientRateLimiter) allow(ip string) bool {
	rl.lock.Lock()
	defer rl.lock.Unlock()

	now := rl.now()
	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = now

	return client.limiter.AllowN(now, 1)
}

// cleanup forgets clients not seen for the expire duration.
func (rl *clientRateLimiter) cleanup() {
	rl.lock.Lock()
	defer rl.lock.Unlock()

	now := rl.now()
	for ip, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.expire {
			delete(rl.clients, ip)
		}
	}
}

func (rl *clientRateLimiter) startCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.expire)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-stop:
				return
			}
		}
	}()
}
