package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
	"github.com/thesavant42/schwifty-ng/internal/models"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://rickandmortyapi.com/api"
	DefaultEndpoint = "character"
	DefaultTimeout  = 30 * time.Second
	userAgent       = "schwifty-ng/1.0"
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL           string
	Endpoint          string // "character" (Rick and Morty) or "characters" (Naruto)
	Dialect           Dialect
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables client-side rate limiting
	Burst             int
	MaxRetries        int           // extra attempts after a connection failure
	RetryBackoff      time.Duration // first retry delay, doubled each attempt
	Logger            *log.Logger
	HTTPClient        *http.Client
}

// Query selects a page of characters, optionally filtered by name.
// Zero values are omitted from the request.
type Query struct {
	Page int
	Name string
}

// Client is a character API client
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	endpoint   string
	dialect    Dialect
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *log.Logger
	flight     singleflight.Group
}

// NewClient creates a new character API client
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Dialect == "" {
		opts.Dialect = DialectRickAndMorty
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 250 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		endpoint:   strings.Trim(opts.Endpoint, "/"),
		dialect:    opts.Dialect,
		limiter:    limiter,
		maxRetries: opts.MaxRetries,
		backoff:    opts.RetryBackoff,
		logger:     opts.Logger,
	}, nil
}

// FetchCharacters fetches one page of characters.
// Identical requests in flight at the same time share a single round trip.
func (c *Client) FetchCharacters(ctx context.Context, q Query) (*models.Page, error) {
	u := c.ListURL(q)

	v, err, shared := c.flight.Do(u.String(), func() (any, error) {
		body, err := c.get(ctx, u)
		if err != nil {
			return nil, err
		}
		return decodePage(body, c.dialect, u)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("Shared in-flight request", "url", u.String())
	}

	// Shared results are cloned so callers never alias each other's slices
	return v.(*models.Page).Clone(), nil
}

// FetchCharacter fetches a single character by id
func (c *Client) FetchCharacter(ctx context.Context, id int) (models.Character, error) {
	u := c.resolve(c.endpoint + "/" + strconv.Itoa(id))

	body, err := c.get(ctx, u)
	if err != nil {
		return models.Character{}, err
	}
	return decodeCharacter(body, c.dialect, u)
}

// ListURL builds the list endpoint URL for q
func (c *Client) ListURL(q Query) *url.URL {
	u := c.resolve(c.endpoint)
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if name := strings.TrimSpace(q.Name); name != "" {
		params.Set("name", name)
	}
	u.RawQuery = params.Encode()
	return u
}

func (c *Client) resolve(path string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + path
	return &u
}

// get performs a GET, retrying connection failures with exponential backoff
func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	var body []byte
	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(c.backoff))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.do(ctx, u)
		if err != nil {
			if retryable(err) {
				c.logger.Warn("Retrying request", "url", u.String(), "attempt", attempt, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// do performs a single request and maps failures onto *Error
func (c *Client) do(ctx context.Context, u *url.URL) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.logger.Error("Failed to create request", "url", u.String(), "error", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Info("GET", "endpoint", u.String())
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("Request failed", "url", u.String(), "error", err)
		return nil, &Error{Kind: models.KindNetwork, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read response", "url", u.String(), "error", err)
		return nil, &Error{Kind: models.KindNetwork, URL: u.String(), Err: err}
	}

	c.logger.Debug("Response", "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg := apiErrorMessage(body)
		c.logger.Error("API error", "status", resp.StatusCode, "response", msg)
		return nil, &Error{Kind: models.KindStatus, Status: resp.StatusCode, Message: msg, URL: u.String()}
	}

	return body, nil
}
