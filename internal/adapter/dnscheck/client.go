// Package dnscheck asks an external verification service whether a domain
// publishes a listing's ownership token.
package dnscheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

const maxAttempts = 3

var ErrNotConfigured = errors.New("dns verification endpoint is not configured")

type verifyRequest struct {
	Domain string `json:"domain"`
	Token  string `json:"token"`
}

type verifyResponse struct {
	Verified bool `json:"verified"`
}

// Client implements domain.DomainVerifier. Requests are throttled to rps and
// retried with exponential backoff on transport errors and 5xx answers.
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	backoff time.Duration
	logger  *logger.Logger
}

func NewClient(url string, rps float64, log *logger.Logger) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		backoff: 200 * time.Millisecond,
		logger:  log.Named("DNSCheck"),
	}
}

func (c *Client) Verify(ctx context.Context, domainName, token string) (bool, error) {
	if c.url == "" {
		return false, ErrNotConfigured
	}
	body, err := json.Marshal(verifyRequest{Domain: domainName, Token: token})
	if err != nil {
		return false, err
	}

	var verified bool
	b := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(c.backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		ok, err := c.call(ctx, body)
		if err != nil {
			c.logger.Warn("Verification call failed", zap.String("domain", domainName), zap.Error(err))
			return err
		}
		verified = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	return verified, nil
}

func (c *Client) call(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return false, retry.RetryableError(fmt.Errorf("verifier returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}
	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode verifier response: %w", err)
	}
	return out.Verified, nil
}
