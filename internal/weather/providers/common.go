package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/ski-conditions/internal/weather"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// breakers holds one circuit breaker per location key, created on first use.
type breakers struct {
	name string

	mu    sync.Mutex
	byKey map[string]*gobreaker.CircuitBreaker
}

func newBreakers(name string) *breakers {
	return &breakers{name: name, byKey: make(map[string]*gobreaker.CircuitBreaker)}
}

func (b *breakers) get(key string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	cb, ok := b.byKey[key]
	if !ok {
		cb = newCircuitBreaker(b.name + ":" + key)
		b.byKey[key] = cb
	}
	return cb
}

// rejected is a client error status. It fails the fetch without counting
// as a breaker failure.
type rejected int

// doRequest executes the request once through the circuit breaker. Any
// transport or status failure is wrapped in weather.ErrFetchFailure; retrying
// is left to the next refresh cycle.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrFetchFailure, errNoHTTPClient)
	}

	req = req.WithContext(ctx)
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			switch {
			case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
				return rejected(resp.StatusCode), nil
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			default:
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, fmt.Errorf("%w: %w", weather.ErrFetchFailure, err)
	}

	switch r := result.(type) {
	case *http.Response:
		return r, nil
	case rejected:
		return nil, fmt.Errorf("%w: %w: %d", weather.ErrFetchFailure, errUnexpected, int(r))
	default:
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrFetchFailure)
	}
}
