package engine

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/version"
)

// Config carries the connection parameters supplied by the connect command
// and the global CLI flags.
type Config struct {
	// Address is the engine host, optionally with a port ("engine.example.com"
	// or "10.0.0.5:8443"). The API path is always /ovirt-engine/api.
	Address  string
	Username string
	Password string

	// Insecure disables TLS certificate verification. Defaults to true at the
	// CLI layer for parity with the original tool; see the --insecure flag.
	Insecure bool

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is the per-request HTTP timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// Connection wraps the Resty HTTP client with engine-specific configuration.
// At most one Connection exists per shell session; all collection and entry
// nodes query the engine exclusively through it.
type Connection struct {
	client  *resty.Client
	baseURL string
}

// Connect builds a configured engine connection. Construction never performs
// network I/O; use Test to verify the endpoint actually answers.
func Connect(cfg Config) *Connection {
	client := resty.New()

	baseURL := fmt.Sprintf("https://%s/ovirt-engine/api", cfg.Address)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client.
		SetTimeout(timeout).
		SetBaseURL(baseURL).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("ovirtctl/%s", version.Version))

	if cfg.Insecure {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	// Retry only on connection errors, never on HTTP error responses: a 4xx
	// from the engine is a definitive answer, not a transient failure.
	client.
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Engine API request: %s %s", req.Method, req.URL)
		return nil
	})
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("Engine API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("Engine API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &Connection{
		client:  client,
		baseURL: baseURL,
	}
}

// URL returns the engine API base URL this connection targets.
func (c *Connection) URL() string {
	return c.baseURL
}

// Test performs the lightweight connection check: a GET of the API root,
// which answers with the engine product information when credentials and
// transport are good.
func (c *Connection) Test() error {
	var info ProductInfo

	resp, err := c.client.R().
		SetResult(&info).
		Get("")

	if err != nil {
		return fmt.Errorf("failed to reach engine at %s: %w", c.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("engine test failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	logging.Debug("Engine test OK: %s %s", info.Name, info.Version)
	return nil
}

// Close releases the connection. The underlying HTTP client keeps no
// persistent resources beyond idle keep-alive connections.
func (c *Connection) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// get fetches path into out, mapping connection failures and non-200
// responses into errors the command layer can surface verbatim.
func (c *Connection) get(path string, query url.Values, out any) error {
	req := c.client.R().SetResult(out)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("failed to connect to engine at %s: %w", c.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("engine request failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// post sends body to path, decoding the engine's representation of the
// created or acted-on object into out when out is non-nil.
func (c *Connection) post(path string, body, out any) error {
	req := c.client.R().SetBody(body)
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("failed to connect to engine at %s: %w", c.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("engine request failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// delete removes the resource at path.
func (c *Connection) delete(path string) error {
	resp, err := c.client.R().Delete(path)
	if err != nil {
		return fmt.Errorf("failed to connect to engine at %s: %w", c.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("engine request failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
