package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/terra-clan/agency-site/internal/models"
)

// Client is a Go SDK for the agency-site API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Selection calls only persist
// across requests when the client has a cookie jar.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new agency-site client
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) // never fails with nil options

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// ServiceList is the services listing response
type ServiceList struct {
	Services []models.ServiceOffering `json:"services"`
	Total    int                      `json:"total"`
}

// GetCatalog fetches services, stats and testimonials
func (c *Client) GetCatalog(ctx context.Context) (*models.CatalogResponse, error) {
	var out models.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListServices fetches the service offerings in display order
func (c *Client) ListServices(ctx context.Context) ([]models.ServiceOffering, error) {
	var out ServiceList
	if err := c.do(ctx, http.MethodGet, "/api/v1/services", nil, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// GetService fetches one service offering by code
func (c *Client) GetService(ctx context.Context, code models.ServiceCode) (*models.ServiceOffering, error) {
	var out models.ServiceOffering
	path := "/api/v1/services/" + url.PathEscape(code.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSelection returns the highlighted service for this client's visitor
func (c *Client) GetSelection(ctx context.Context) (*models.SelectionResponse, error) {
	var out models.SelectionResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/selection", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Select highlights code for this client's visitor
func (c *Client) Select(ctx context.Context, code models.ServiceCode) (*models.SelectionResponse, error) {
	var out models.SelectionResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/selection", models.SelectionRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitContact sends a contact form submission
func (c *Client) SubmitContact(ctx context.Context, name, email, message string) (*models.ContactAck, error) {
	req := models.ContactRequest{Name: name, Email: email, Message: message}

	var out models.ContactAck
	if err := c.do(ctx, http.MethodPost, "/api/v1/contact", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do performs an HTTP request and decodes the response envelope into out
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Fields = env.Error.Fields
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
	}
	return nil
}
