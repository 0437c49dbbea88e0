// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package firestore reads users' tag rating analyses from Cloud Firestore.
//
// Analyses live under users/{uid}/analysis, one document per analysis run,
// each carrying a tagStats map field. The client lists the newest documents
// over the Firestore REST API, authenticating with a service account
// assertion exchanged for an OAuth access token (see TokenSource).
package firestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cocktailmaestro/internal/config"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
)

const (
	// DefaultBaseURL is the Firestore REST API root.
	DefaultBaseURL = "https://firestore.googleapis.com/v1"

	// DefaultPageSize is how many of the newest analyses are read per user.
	DefaultPageSize = 3

	maxBodySize = 4 << 20
)

var (
	// ErrInvalidUID is returned for user IDs that cannot name a document.
	ErrInvalidUID = errors.New("invalid user id")

	// ErrUnexpectedStatus is returned when Firestore answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status from firestore")
)

// Client lists user analyses. It is safe for concurrent use.
type Client struct {
	baseURL    string
	projectID  string
	pageSize   int
	tokens     TokenProvider
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a client from configuration, parsing the service account
// and creating its TokenSource. The project ID defaults to the service
// account's project.
func NewClient(cfg *config.FirestoreConfig) (*Client, error) {
	account, err := ParseServiceAccount(cfg.ServiceAccount)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	tokens, err := NewTokenSource(account, cfg.TokenURL, httpClient)
	if err != nil {
		return nil, err
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = account.ProjectID
	}
	if projectID == "" {
		return nil, errors.New("firestore project id is not set and the service account has none")
	}

	return NewClientWithTokens(cfg.BaseURL, projectID, cfg.AnalysisPageSize, tokens, httpClient), nil
}

// NewClientWithTokens builds a client around an existing token provider.
// Empty or non-positive values fall back to the package defaults.
func NewClientWithTokens(baseURL, projectID string, pageSize int, tokens TokenProvider, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		projectID:  projectID,
		pageSize:   pageSize,
		tokens:     tokens,
		httpClient: httpClient,
		logger:     logging.WithComponent("firestore"),
	}
}

// document is the subset of a Firestore REST document read here.
type document struct {
	Name   string                     `json:"name"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type listResponse struct {
	Documents []document `json:"documents"`
}

// LatestTagStats returns the tagStats field of the user's newest analyses,
// newest first. Each element is the raw Firestore value
// ({"mapValue": {"fields": ...}}). Documents without tagStats are skipped.
// A user with no analyses yields an empty slice.
func (c *Client) LatestTagStats(ctx context.Context, uid string) ([]json.RawMessage, error) {
	if uid == "" || strings.ContainsAny(uid, "/?#") || uid == "." || uid == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUID, uid)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.analysisURL(uid), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read analyses: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(body))
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode analyses: %w", err)
	}

	stats := make([]json.RawMessage, 0, len(list.Documents))
	for _, doc := range list.Documents {
		raw, ok := doc.Fields["tagStats"]
		if !ok || len(raw) == 0 {
			c.logger.Debug().Str("document", doc.Name).Msg("Analysis has no tagStats")
			continue
		}
		stats = append(stats, raw)
	}

	c.logger.Debug().
		Str("uid", uid).
		Int("documents", len(list.Documents)).
		Int("with_tag_stats", len(stats)).
		Msg("Fetched user analyses")

	return stats, nil
}

func (c *Client) analysisURL(uid string) string {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	q.Set("orderBy", "uploadedAt desc")

	return fmt.Sprintf("%s/projects/%s/databases/(default)/documents/users/%s/analysis?%s",
		c.baseURL, url.PathEscape(c.projectID), url.PathEscape(uid), q.Encode())
}

// truncate shortens a response body for error messages.
func truncate(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "... (truncated)"
	}
	return string(body)
}
