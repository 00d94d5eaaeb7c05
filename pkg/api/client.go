// Copyright (c) 2025, Wattline.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wattline/emporia/pkg/defaults"
	"github.com/wattline/emporia/pkg/emporia"
	emperrors "github.com/wattline/emporia/pkg/errors"
	"github.com/wattline/emporia/pkg/server"
)

const (
	clientUserAgent = "emporia-client/1.0"

	// maxResponseBodyBytes caps how much of a response the client reads.
	maxResponseBodyBytes = 1 << 20
)

// ClientOption configures a Client. Options apply in order, later options
// override earlier ones.
type ClientOption func(*Client)

// WithTimeout overrides the total request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.hc.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely. Transport
// tuning becomes the caller's responsibility.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// Client is a typed HTTP client for the service's operational endpoints.
// It is used by the status subcommand and is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	hc        *http.Client
}

// NewClient creates a Client for the service at baseURL, for example
// "http://localhost:8080". The underlying transport pools connections and
// bounds dial, TLS handshake, and response header waits.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, emperrors.New(emperrors.ErrCodeInvalidRequest, "base URL is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, emperrors.Wrap(emperrors.ErrCodeInvalidRequest, "invalid base URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, emperrors.NewWithContext(emperrors.ErrCodeInvalidRequest,
			"base URL must use http or https", map[string]any{"url": baseURL})
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: clientUserAgent,
		hc: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newClientTransport(),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func newClientTransport() *http.Transport {
	return &http.Transport{
		// Connection pooling
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,

		// Timeouts
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		// Connection reuse
		IdleConnTimeout:   defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2: true,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Info fetches the service build and runtime description.
func (c *Client) Info(ctx context.Context) (*InfoResponse, error) {
	var info InfoResponse
	if err := c.getJSON(ctx, "/api/v1/emporia/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Health fetches the resource health report. Healthy and unhealthy reports
// both decode without error, callers inspect Status. An error means the
// service could not be reached or answered with something other than a
// health report.
func (c *Client) Health(ctx context.Context) (*emporia.HealthStatus, error) {
	resp, body, err := c.get(ctx, "/api/v1/emporia/health")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, errorFromResponse(resp.StatusCode, body)
	}

	var health emporia.HealthStatus
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, emperrors.Wrap(emperrors.ErrCodeInternal, "malformed health response", err)
	}
	return &health, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return emperrors.Wrap(emperrors.ErrCodeInternal, "malformed response body", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, emperrors.Wrap(emperrors.ErrCodeInvalidRequest, "building request failed", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, emperrors.Wrap(emperrors.ErrCodeUnavailable, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, nil, emperrors.Wrap(emperrors.ErrCodeInternal, "reading response failed", err)
	}
	return resp, body, nil
}

// errorFromResponse turns an unexpected API response into a structured
// error, recovering the service's error code when the body carries the
// standard error envelope.
func errorFromResponse(status int, body []byte) error {
	var envelope server.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Code == "" {
		return emperrors.NewWithContext(emperrors.ErrCodeInternal,
			fmt.Sprintf("unexpected response status %d", status),
			map[string]any{"status": status})
	}

	return emperrors.NewWithContext(emperrors.ErrorCode(envelope.Code), envelope.Message,
		map[string]any{"status": status, "requestId": envelope.RequestID})
}
