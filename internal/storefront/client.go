package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/five82/nutmunch/internal/logging"
	"github.com/five82/nutmunch/internal/session"
)

// Catalog reads products from the storefront.
type Catalog interface {
	FetchProducts(ctx context.Context, query ProductQuery) ([]Product, error)
	FetchProduct(ctx context.Context, id ProductID) (*Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// Wishlist manages a session's saved products.
type Wishlist interface {
	FetchWishlist(ctx context.Context, handle session.Handle) ([]Product, error)
	AddToWishlist(ctx context.Context, handle session.Handle, id ProductID) error
	RemoveFromWishlist(ctx context.Context, handle session.Handle, id ProductID) error
}

// Ensure Client implements the read/write interfaces at compile time.
var (
	_ Catalog  = (*Client)(nil)
	_ Wishlist = (*Client)(nil)
)

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	log       *zap.Logger
}

// Options tune a Client. The zero value is usable.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64 // zero disables client-side pacing
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

const (
	defaultAPIURL    = "http://localhost:8000"
	defaultUserAgent = "nutmunch/0.1"
	requestTimeout   = 5 * time.Second
	maxErrorBody     = 512

	// SessionCookie and SessionHeader carry the session handle.
	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"
)

// NewClient builds a Client for the API rooted at apiURL.
func NewClient(apiURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		limiter:   limiter,
		log:       logging.OrNop(opts.Logger),
	}, nil
}

// BaseURL returns the API root the client resolves requests against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchProducts lists the catalog, optionally filtered and sorted.
func (c *Client) FetchProducts(ctx context.Context, query ProductQuery) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if category := strings.TrimSpace(query.Category); category != "" {
		values.Set("category", category)
	}
	if sortBy := strings.TrimSpace(query.SortBy); sortBy != "" {
		values.Set("sort_by", sortBy)
	}
	if query.MinPrice != nil {
		values.Set("min_price", strconv.FormatFloat(*query.MinPrice, 'f', -1, 64))
	}
	if query.MaxPrice != nil {
		values.Set("max_price", strconv.FormatFloat(*query.MaxPrice, 'f', -1, 64))
	}
	rel := &url.URL{Path: "/api/products", RawQuery: values.Encode()}
	var payload []Product
	if err := c.doURL(ctx, http.MethodGet, rel, "", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchProduct retrieves a single product.
func (c *Client) FetchProduct(ctx context.Context, id ProductID) (*Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id.String()) == "" {
		return nil, fmt.Errorf("product id required")
	}
	var payload Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), "", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchProducts runs a free-text catalog search. Ranking belongs to the
// server; an empty query returns nil without a request.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	values := url.Values{}
	values.Set("q", query)
	rel := &url.URL{Path: "/api/search", RawQuery: values.Encode()}
	var payload []Product
	if err := c.doURL(ctx, http.MethodGet, rel, "", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchCart returns every cart row for the session, including tombstoned
// rows whose quantity has reached zero.
func (c *Client) FetchCart(ctx context.Context, handle session.Handle) ([]CartItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []CartItem
	if err := c.do(ctx, http.MethodGet, "/api/cart", handle, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ApplyCartDelta adds delta (which may be negative) to the product's remote
// quantity.
func (c *Client) ApplyCartDelta(ctx context.Context, handle session.Handle, id ProductID, delta int) (CartItem, error) {
	if c == nil {
		return CartItem{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id.String()) == "" {
		return CartItem{}, fmt.Errorf("product id required")
	}
	var payload CartItem
	body := deltaRequest{ProductID: id, Quantity: delta}
	if err := c.do(ctx, http.MethodPost, "/api/cart", handle, body, &payload); err != nil {
		return CartItem{}, err
	}
	return payload, nil
}

// FetchWishlist returns the products saved by the session.
func (c *Client) FetchWishlist(ctx context.Context, handle session.Handle) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []WishlistItem
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", handle, nil, &payload); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(payload))
	for _, item := range payload {
		if item.Product == nil {
			products = append(products, Product{ID: item.ProductID})
			continue
		}
		products = append(products, *item.Product)
	}
	return products, nil
}

// AddToWishlist saves a product for the session.
func (c *Client) AddToWishlist(ctx context.Context, handle session.Handle, id ProductID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/wishlist", handle, wishlistRequest{ProductID: id}, nil)
}

// RemoveFromWishlist drops a saved product.
func (c *Client) RemoveFromWishlist(ctx context.Context, handle session.Handle, id ProductID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+id.String(), handle, nil, nil)
}

// Checkout places an order for the session's cart. The server computes the
// charged total and clears the cart.
func (c *Client) Checkout(ctx context.Context, handle session.Handle, req CheckoutRequest) (*Order, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req = req.Normalize()
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	var payload Order
	if err := c.do(ctx, http.MethodPost, "/api/checkout", handle, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Subscribe adds an email to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	req := subscribeRequest{Email: strings.TrimSpace(email)}
	if err := ValidateStruct(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/subscribe", "", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, handle session.Handle, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, handle, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, handle session.Handle, body, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if handle != "" {
		req.Header.Set(SessionHeader, handle.String())
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: handle.String()})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("storefront request",
		zap.String("method", method),
		zap.String("path", rel.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return &APIError{
			Op:     method + " " + rel.Path,
			Status: resp.StatusCode,
			Body:   readErrorBody(resp.Body),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorBody extracts a short message from an error response, preferring
// the "detail" or "error" field of a JSON body.
func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var shaped struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(raw, &shaped) == nil {
		if shaped.Detail != "" {
			return shaped.Detail
		}
		if shaped.Error != "" {
			return shaped.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
