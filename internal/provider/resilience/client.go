package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned without contacting the provider while its
// circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ErrCanceled wraps a transport error caused by the caller abandoning the
// request. It counts neither as a success nor as a failure for the breaker
// and the registry.
var ErrCanceled = errors.New("request canceled by caller")

// ClientConfig configures a resilient provider client.
type ClientConfig struct {
	// Name identifies the provider in the breaker and the registry.
	Name string

	// Timeout bounds each HTTP attempt. Default: 10 seconds.
	Timeout time.Duration

	// MaxRetries is the number of attempts after the first. Zero means a
	// single attempt.
	MaxRetries uint64

	// InitialInterval and MaxInterval shape the exponential backoff between
	// retries. Defaults: 100ms and 5 seconds.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// CircuitBreaker defaults to DefaultCircuitBreakerConfig(Name).
	CircuitBreaker *CircuitBreakerConfig

	// Registry, when set, receives the client and every request outcome.
	Registry *Registry
}

// DefaultClientConfig returns the defaults for a provider client: a single
// attempt guarded by a timeout and a circuit breaker.
func DefaultClientConfig(name string) ClientConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		CircuitBreaker:  &cbConfig,
	}
}

// Client sends provider requests through a circuit breaker.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a client and registers it with cfg.Registry.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewCircuitBreaker[*http.Response](cbConfig), //nolint:bodyclose // type parameter
		config:     cfg,
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, c)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.config.Name
}

// Do sends req under the request's context. Transport errors and 5xx
// responses count against the breaker and are retried when MaxRetries > 0.
// A 5xx that survives every attempt is returned as a response, not an error.
// While the breaker is open Do fails fast with ErrCircuitOpen.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	var last *http.Response
	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // returned to the caller
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
				}
				return nil, err
			}
			if r.StatusCode >= http.StatusInternalServerError {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(ErrCircuitOpen)
		}
		if resp != nil {
			if last != nil {
				last.Body.Close()
			}
			last = resp
		}
		return err
	}

	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx))
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrCanceled) && !errors.Is(err, ErrCircuitOpen) {
		// backoff reports the bare context error once ctx is done
		err = fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	c.record(err, last)

	var serverErr *ServerError
	if errors.As(err, &serverErr) && last != nil {
		return last, nil
	}
	if err != nil {
		if last != nil {
			last.Body.Close()
		}
		return nil, err
	}
	return last, nil
}

// record reports the outcome to the registry. A 404 is the provider
// answering correctly about an unknown resource and counts as a success.
// Requests the caller abandoned are not recorded.
func (c *Client) record(err error, resp *http.Response) {
	if c.config.Registry == nil {
		return
	}
	switch {
	case errors.Is(err, ErrCanceled):
		return
	case err != nil:
		c.config.Registry.RecordFailure(c.config.Name, err)
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound:
		c.config.Registry.RecordFailure(c.config.Name, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	default:
		c.config.Registry.RecordSuccess(c.config.Name)
	}
}

// ServerError is a 5xx response treated as a failed attempt.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// CircuitBreakerState returns the breaker's current state.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.breaker.State()
}

// CircuitBreakerCounts returns the breaker's counts for the current interval.
func (c *Client) CircuitBreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
