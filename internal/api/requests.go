// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/metrics"
	"github.com/tomtom215/cocktailmaestro/internal/models"
	"github.com/tomtom215/cocktailmaestro/internal/validation"
)

// APIKeyHeader is an alternative to the apiKey body field.
const APIKeyHeader = "X-API-Key"

// maxRequestBodySize bounds request bodies; uploads carry base64 images.
const maxRequestBodySize = 16 << 20

// UploadRequest is the body of POST /upload.
type UploadRequest struct {
	ImageBase64 string            `json:"imageBase64" validate:"required,base64"`
	FileName    string            `json:"fileName" validate:"required,filename,max=255"`
	APIKey      string            `json:"apiKey"`
	RecipeInfo  models.RecipeInfo `json:"recipeInfo" validate:"required"`
}

// DeleteRequest is the body of POST /delete.
type DeleteRequest struct {
	RecipeID string `json:"recipeId" validate:"required,max=100"`
	APIKey   string `json:"apiKey"`
}

// EditRequest is the body of POST /edit. The image is replaced only when
// both ImageBase64 and FileName are set.
type EditRequest struct {
	RecipeID    string            `json:"recipeId" validate:"required,max=100"`
	APIKey      string            `json:"apiKey"`
	RecipeInfo  models.RecipeInfo `json:"recipeInfo" validate:"required"`
	ImageBase64 string            `json:"imageBase64,omitempty" validate:"omitempty,base64"`
	FileName    string            `json:"fileName,omitempty" validate:"omitempty,filename,max=255"`
}

// replacesImage reports whether the edit carries a new image.
func (req *EditRequest) replacesImage() bool {
	return req.ImageBase64 != "" && req.FileName != ""
}

// MaterialRegisterRequest is the body of POST /material/register.
type MaterialRegisterRequest struct {
	ID           string `json:"id" validate:"required,max=200"`
	Name         string `json:"name" validate:"required,max=200"`
	CategoryMain string `json:"categoryMain" validate:"max=100"`
	CategorySub  string `json:"categorySub" validate:"max=100"`
	APIKey       string `json:"apiKey"`
}

// material returns the index entry for the request.
func (req *MaterialRegisterRequest) material() models.Material {
	return models.Material{
		ID:           req.ID,
		Name:         req.Name,
		CategoryMain: req.CategoryMain,
		CategorySub:  req.CategorySub,
	}
}

// RecommendRequest is the body of POST /recommend. TagStats is decoded by
// the recommendation engine, which accepts both the flat and the typed
// value encodings.
type RecommendRequest struct {
	TagStats json.RawMessage `json:"tagStats"`
}

// RecommendResponse carries ranked recipe keys, best first.
type RecommendResponse struct {
	Recommendations []string `json:"recommendations"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Message  string `json:"message"`
	FileID   string `json:"fileId"`
	RecipeID string `json:"recipeId"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// DeleteResponse is returned by POST /delete. GasResult is the raw answer
// of the image script, or null when no image was deleted.
type DeleteResponse struct {
	Message   string          `json:"message"`
	RecipeID  string          `json:"recipeId"`
	GasResult json.RawMessage `json:"gasResult"`
	Warning   string          `json:"warning,omitempty"`
}

// EditResponse is returned by POST /edit.
type EditResponse struct {
	Message  string `json:"message"`
	RecipeID string `json:"recipeId"`
	FileID   string `json:"fileId"`
	Warning  string `json:"warning,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("read request body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.New("request body is empty")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// decodeAndAuthorize decodes the body, checks the API key and validates the
// request, writing the error response itself. It reports whether the handler
// may proceed. The key is checked before validation so unauthenticated
// callers learn nothing about the expected shape.
func (h *Handler) decodeAndAuthorize(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst interface{}, bodyKey func() string) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		rw.BadRequest(err.Error())
		return false
	}

	if !h.authorized(r, bodyKey()) {
		metrics.APIUnauthorized.WithLabelValues(r.URL.Path).Inc()
		logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Rejected request with invalid API key")
		rw.Unauthorized("Unauthorized")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// authorized compares the supplied key with the configured one in constant
// time. The body field wins over the header. An unconfigured key rejects
// every request.
func (h *Handler) authorized(r *http.Request, bodyKey string) bool {
	supplied := bodyKey
	if supplied == "" {
		supplied = r.Header.Get(APIKeyHeader)
	}
	if h.apiKey == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(h.apiKey)) == 1
}
