package usajobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the USAJOBS search endpoint.
const DefaultBaseURL = "https://data.usajobs.gov/api/search"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies this tool to the API.
const DefaultUserAgent = "JobHuntAssistant/1.0 (CLI; USAJOBS API client)"

// Page size limits enforced by the API.
const (
	DefaultResultsPerPage = 10
	MaxResultsPerPage     = 25
)

// errorSnippetLength bounds how much of a non-JSON error body is reported.
const errorSnippetLength = 200

// ErrMissingAPIKey is returned without any network call when no key is configured.
var ErrMissingAPIKey = errors.New("USAJOBS API key is missing. Add USAJOBS_API_KEY to your .env file.")

// APIError represents a failed search request.
type APIError struct {
	StatusCode int // 0 for transport failures
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("Request failed: %v", e.Cause)
		}
		return fmt.Sprintf("Request failed: %s", e.Message)
	}
	return fmt.Sprintf("USAJOBS API error (HTTP %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// SearchParams are the query inputs of one search.
type SearchParams struct {
	Keyword        string `validate:"required"`
	Location       string
	ResultsPerPage int `validate:"gte=0"`
}

// Client calls the USAJOBS search API.
type Client struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client

	validate *validator.Validate
}

// NewClient creates a client with default endpoint, user agent and timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		UserAgent:  DefaultUserAgent,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		validate:   validator.New(),
	}
}

// Search fetches one page of listings for params.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]JobRecord, error) {
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	v := c.validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid search parameters: %w", err)
	}

	reqURL, err := c.buildURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &APIError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization-Key", apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", firstNonEmpty(c.UserAgent, DefaultUserAgent))

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
		}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return parsed.SearchResult.SearchResultItems, nil
}

func (c *Client) buildURL(params SearchParams) (string, error) {
	base := firstNonEmpty(c.BaseURL, DefaultBaseURL)
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}

	q := u.Query()
	q.Set("Keyword", params.Keyword)
	q.Set("ResultsPerPage", strconv.Itoa(ClampResultsPerPage(params.ResultsPerPage)))
	if loc := strings.TrimSpace(params.Location); loc != "" {
		q.Set("LocationName", loc)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ClampResultsPerPage applies the default page size and the API maximum.
func ClampResultsPerPage(n int) int {
	if n <= 0 {
		return DefaultResultsPerPage
	}
	return min(n, MaxResultsPerPage)
}

func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := eb.text(); msg != "" {
			return msg
		}
	}
	if len(body) > 0 {
		return truncateBytes(body, errorSnippetLength)
	}
	return fmt.Sprintf("HTTP %d", status)
}

func truncateBytes(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
