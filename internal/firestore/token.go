// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package firestore

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/metrics"
)

const (
	// DatastoreScope grants read access to Firestore documents.
	DatastoreScope = "https://www.googleapis.com/auth/datastore"

	// DefaultTokenURL is Google's OAuth 2.0 token endpoint.
	DefaultTokenURL = "https://oauth2.googleapis.com/token"

	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour

	// refreshSkew renews a cached token this long before it expires.
	refreshSkew = time.Minute
)

// ErrTokenExchange is returned when the token endpoint rejects an assertion.
var ErrTokenExchange = errors.New("service account token exchange failed")

// ServiceAccount holds the fields of a service account key file this
// package needs.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
}

// ParseServiceAccount decodes a service account key. The value may be the
// key file's JSON or its base64 encoding.
func ParseServiceAccount(value string) (*ServiceAccount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("service account is empty")
	}

	raw := []byte(value)
	if !strings.HasPrefix(value, "{") {
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("decode service account base64: %w", err)
		}
		raw = decoded
	}

	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("decode service account JSON: %w", err)
	}
	if sa.ClientEmail == "" {
		return nil, errors.New("service account has no client_email")
	}
	if sa.PrivateKey == "" {
		return nil, errors.New("service account has no private_key")
	}
	return &sa, nil
}

// TokenProvider supplies OAuth access tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSource exchanges RS256-signed service account assertions for access
// tokens and caches each token until shortly before it expires.
// It is safe for concurrent use.
type TokenSource struct {
	account    *ServiceAccount
	key        *rsa.PrivateKey
	tokenURL   string
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource creates a token source for account. An empty tokenURL uses
// DefaultTokenURL.
func NewTokenSource(account *ServiceAccount, tokenURL string, httpClient *http.Client) (*TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(account.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account private key: %w", err)
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &TokenSource{
		account:    account,
		key:        key,
		tokenURL:   tokenURL,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// Token returns a valid access token, exchanging a new assertion when the
// cached one is missing or about to expire.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.token != "" && now.Before(ts.expiry.Add(-refreshSkew)) {
		return ts.token, nil
	}

	token, lifetime, err := ts.exchange(ctx, now)
	if err != nil {
		metrics.FirestoreTokenRefreshes.WithLabelValues("failure").Inc()
		return "", err
	}
	metrics.FirestoreTokenRefreshes.WithLabelValues("success").Inc()

	ts.token = token
	ts.expiry = now.Add(lifetime)

	logging.Debug().
		Str("client_email", ts.account.ClientEmail).
		Time("expires_at", ts.expiry).
		Msg("Obtained Firestore access token")

	return token, nil
}

// Assertion returns a signed JWT bearer assertion issued at now.
func (ts *TokenSource) Assertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   ts.account.ClientEmail,
		"sub":   ts.account.ClientEmail,
		"aud":   ts.tokenURL,
		"scope": DatastoreScope,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if ts.account.PrivateKeyID != "" {
		token.Header["kid"] = ts.account.PrivateKeyID
	}

	signed, err := token.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (ts *TokenSource) exchange(ctx context.Context, now time.Time) (string, time.Duration, error) {
	assertion, err := ts.Assertion(now)
	if err != nil {
		return "", 0, err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", 0, fmt.Errorf("read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("%w: status %d: %s", ErrTokenExchange, resp.StatusCode, truncate(body))
	}
	if resp.StatusCode != http.StatusOK || tr.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: status %d: %s %s", ErrTokenExchange, resp.StatusCode, tr.Error, tr.ErrorDescription)
	}

	lifetime := time.Duration(tr.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = assertionLifetime
	}
	return tr.AccessToken, lifetime, nil
}
