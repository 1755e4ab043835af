// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"fmt"
	"net/http"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// CheckStatus returns a *StatusError unless resp carries a 2xx status.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
}

// userAgentTransport sets a fixed User-Agent on every outgoing request,
// including the ones the client issues while following redirects.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// NewClient returns an HTTP client with the configured timeout that sends
// cfg.UserAgent on every request. Redirects follow the net/http defaults.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: cfg.UserAgent,
		},
	}
}
