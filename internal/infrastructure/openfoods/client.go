package openfoods

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfoods/openfoods/internal/domain"
	"github.com/openfoods/openfoods/internal/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "OpenFoods/1.0"
	requestIDHeader  = "X-Request-ID"

	foodsPath  = "/food"
	likePath   = "/food/{id}/like"
	unlikePath = "/food/{id}/unlike"
)

// Config holds the settings for an OpenFoods API client.
type Config struct {
	BaseURL string
	// RequestTimeout bounds connecting, sending and waiting for response headers.
	RequestTimeout time.Duration
	// ResourceTimeout bounds the whole exchange including reading the body.
	ResourceTimeout time.Duration
	UserAgent       string
}

// Client handles communication with the OpenFoods API.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	http    *resty.Client
	baseURL string
	log     *zap.SugaredLogger
}

var _ domain.FoodAPI = (*Client)(nil)

// NewClient creates a new OpenFoods API client. Zero timeouts fall back to 30s.
func NewClient(cfg Config, log *zap.SugaredLogger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute, got %q", cfg.BaseURL)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.ResourceTimeout <= 0 {
		cfg.ResourceTimeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	log = logger.OrNop(log)

	dialer := &net.Dialer{
		Timeout:   cfg.RequestTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.RequestTimeout,
		ResponseHeaderTimeout: cfg.RequestTimeout,
	}

	rc := resty.NewWithClient(&http.Client{
		Transport: transport,
		Timeout:   cfg.ResourceTimeout,
	})
	rc.SetBaseURL(cfg.BaseURL)
	rc.SetHeader("User-Agent", cfg.UserAgent)
	rc.SetHeader("Accept", "application/json")
	rc.SetLogger(log)

	return &Client{
		http:    rc,
		baseURL: rc.BaseURL,
		log:     log,
	}, nil
}

// BaseURL returns the origin all requests are relative to.
func (c *Client) BaseURL() string { return c.baseURL }

// GetFoods fetches the full food list.
func (c *Client) GetFoods(ctx context.Context) ([]domain.Food, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, foodsPath, nil)
	if err != nil {
		return nil, err
	}

	foods, err := decodeFoods(resp.Body())
	if err != nil {
		c.log.Debugw("food list decode failed", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debugw("food list fetched", "count", len(foods))
	return foods, nil
}

// Like marks food as liked. The API does not return the updated food; callers
// re-fetch the list to observe the change.
func (c *Client) Like(ctx context.Context, food domain.Food) error {
	ok, err := c.toggle(ctx, likePath, food)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.CouldNotLikeFoodError{Food: food}
	}
	return nil
}

// Unlike clears the liked state of food.
func (c *Client) Unlike(ctx context.Context, food domain.Food) error {
	ok, err := c.toggle(ctx, unlikePath, food)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.CouldNotUnlikeFoodError{Food: food}
	}
	return nil
}

// toggle issues a like/unlike PUT and returns the server's success flag.
func (c *Client) toggle(ctx context.Context, path string, food domain.Food) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, path, map[string]string{
		"id": strconv.Itoa(food.ID),
	})
	if err != nil {
		return false, err
	}

	success, err := decodeSuccess(resp.Body())
	if err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return success, nil
}

// doRequest executes a single attempt and rejects any status outside 2xx
// without looking at the body.
func (c *Client) doRequest(ctx context.Context, method, path string, pathParams map[string]string) (*resty.Response, error) {
	requestID := uuid.NewString()

	req := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID)
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Debugw("openfoods request failed",
			"request_id", requestID,
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	c.log.Debugw("openfoods response",
		"request_id", requestID,
		"method", method,
		"url", resp.Request.URL,
		"status", status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if status < 200 || status > 299 {
		return nil, &domain.InvalidStatusCodeError{Code: status}
	}
	return resp, nil
}
