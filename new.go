package yggdrasil

import (
	"time"

	"github.com/kashari/yggdrasil/tree"
)

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillInterval: refillInterval,
		quit:           make(chan struct{}),
	}
	go rl.refillTokens()
	return rl
}

func New() *Router {
	r := &Router{
		staticRoutes:  tree.New[route](),
		dynamicRoutes: make([]route, 0),
		middlewares:   []Middleware{},
	}
	return r
}

// NewWorkerPool creates a new worker pool with the given size.
// It sets the channel buffer to size*10 to allow bursts of tasks.
func NewWorkerPool(size int) *WorkerPool {
	wp := &WorkerPool{
		tasks: make(chan func(), size*10),
		size:  size,
	}
	for range size {
		go wp.worker()
	}
	return wp
}
