package redis

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pior/redis/resp"
)

// BreakerClient wraps a Client behind a circuit breaker so a routing layer
// above can stop hammering an endpoint that keeps failing. It fails fast
// while the breaker is open and never retries; the wrapped client's
// single-owner discipline still applies.
type BreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[resp.Value]
}

// NewBreakerClient wraps client with a breaker that trips once at least three
// requests were seen in the interval and 60% of them failed.
func NewBreakerClient(client *Client, maxRequests uint32, interval, timeout time.Duration) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        client.cfg.Addr,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
	return &BreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[resp.Value](settings),
	}
}

// Exec routes a command through the breaker.
func (b *BreakerClient) Exec(name string, args ...any) (resp.Value, error) {
	return b.breaker.Execute(func() (resp.Value, error) {
		return b.client.Exec(name, args...)
	})
}

// State exposes the breaker state for the routing layer.
func (b *BreakerClient) State() gobreaker.State {
	return b.breaker.State()
}

// Close disposes the wrapped client.
func (b *BreakerClient) Close() error {
	return b.client.Close()
}
