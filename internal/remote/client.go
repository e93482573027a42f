package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zombor/refund-tracker/internal/refund"
)

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// Client implements refund.Backend against a REST endpoint exposing
// GET/POST /requests and DELETE /requests/{id}
type Client struct {
	baseURL string
	auth    BasicAuth
	client  *http.Client
}

var _ refund.Backend = (*Client)(nil)

// NewClient creates a new Client for baseURL
func NewClient(baseURL string, auth BasicAuth, timeout time.Duration) (*Client, error) {
	return NewClientWithHTTP(baseURL, auth, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a new Client with a custom http.Client for testing
func NewClientWithHTTP(baseURL string, auth BasicAuth, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		client:  httpClient,
	}, nil
}

// FetchAll returns every refund the endpoint holds
func (c *Client) FetchAll(ctx context.Context) ([]refund.Refund, error) {
	const op = "fetching requests"

	resp, err := c.do(ctx, http.MethodGet, "/requests", nil)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	var refunds []refund.Refund
	if err := json.NewDecoder(resp.Body).Decode(&refunds); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if refunds == nil {
		refunds = []refund.Refund{}
	}
	return refunds, nil
}

// Create posts a new refund
func (c *Client) Create(ctx context.Context, r refund.Refund) error {
	const op = "creating request"

	data, err := json.Marshal(r)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	resp, err := c.do(ctx, http.MethodPost, "/requests", data)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// Delete removes a refund. A 404 is reported as refund.ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "deleting request"

	resp, err := c.do(ctx, http.MethodDelete, "/requests/"+url.PathEscape(id), nil)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: refund.ErrNotFound}
	}
	if err := checkStatus(resp); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth.Username != "" || c.auth.Password != "" {
		req.SetBasicAuth(c.auth.Username, c.auth.Password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling requests API: %w", err)
	}
	return resp, nil
}

// checkStatus turns a non-2xx response into an error carrying the body
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return errors.New(msg)
}
