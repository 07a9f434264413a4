package circuitbreaker

import (
	"errors"
	"net/http"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var errServerError = errors.New("upstream server error")

// HTTPClient wraps an HTTP client with circuit breaker protection.
// It satisfies the Do-only interface expected by API SDKs.
type HTTPClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, breaker *gobreaker.CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Do executes an HTTP request with circuit breaker protection.
// 5xx responses count as breaker failures but are still returned to the caller.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errServerError
		}
		return resp, nil
	})

	if errors.Is(err, errServerError) {
		return result.(*http.Response), nil
	}
	if err != nil {
		if IsOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
		}
		return nil, err
	}

	return result.(*http.Response), nil
}

// State returns the current breaker state
func (c *HTTPClient) State() gobreaker.State {
	return c.breaker.State()
}
