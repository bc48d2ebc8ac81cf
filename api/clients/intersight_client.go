package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/miradot/intersight-example/cryptoutils"
	"github.com/miradot/intersight-example/interfaces"
)

// DefaultBaseURL is the public Intersight API root.
const DefaultBaseURL = "https://intersight.com/api/v1"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

// StatusError is returned when the API answers with an HTTP error status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with code %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with code %d: %s", e.StatusCode, e.Body)
}

// IntersightClient performs signed requests against the Intersight API.
// It handles request signing, transport and response decoding.
type IntersightClient struct {
	baseURL     string
	credentials *interfaces.Credentials
	httpClient  *http.Client
	log         *slog.Logger

	now func() time.Time
}

// NewIntersightClient creates a client signing every request with creds.
//
// Parameters:
//   - baseURL: The API root (e.g., "https://intersight.com/api/v1")
//   - creds: The validated key pair
//   - log: Structured logger
//   - timeout: Request timeout duration (optional, default none)
//
// Returns:
//   - Configured IntersightClient instance
func NewIntersightClient(baseURL string, creds *interfaces.Credentials, log *slog.Logger, timeout ...time.Duration) *IntersightClient {
	var clientTimeout time.Duration
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &IntersightClient{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		credentials: creds,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
		log: log,
		now: time.Now,
	}
}

// Call performs exactly one signed request described by opts and decodes the
// JSON response body into out. Numbers are decoded as json.Number.
//
// Returns:
//   - *StatusError if the API answered with a status >= 400
//   - a wrapped error for transport, signing or decoding failures
func (c *IntersightClient) Call(ctx context.Context, opts interfaces.QueryOptions, out interface{}) error {
	reqURL, err := c.resourceURL(opts.ResourcePath, opts.QueryParams)
	if err != nil {
		return err
	}

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if err := cryptoutils.SignRequest(req, nil, c.credentials.KeyID, c.credentials.Signer, c.now()); err != nil {
		return err
	}

	c.log.Debug("sending request", "method", method, "url", reqURL, "keyId", c.credentials.KeyID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", opts.ResourcePath, err)
	}
	defer resp.Body.Close()

	c.log.Debug("received response", "status", resp.StatusCode, "url", reqURL)

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", opts.ResourcePath, err)
	}

	return nil
}

func (c *IntersightClient) resourceURL(resourcePath string, queryParams map[string]string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("base url not configured")
	}

	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(resourcePath, "/"))
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	if len(queryParams) > 0 {
		values := url.Values{}
		for k, v := range queryParams {
			values.Set(k, v)
		}
		u.RawQuery = values.Encode()
	}

	return u.String(), nil
}
