// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package firestore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

const testClientEmail = "maestro@test-project.iam.gserviceaccount.com"

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

// rsaKey returns a shared 2048-bit test key; generating one per test is slow.
func rsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

func testAccountJSON(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey(t))
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	data, err := json.Marshal(ServiceAccount{
		Type:         "service_account",
		ProjectID:    "test-project",
		PrivateKeyID: "kid-1",
		PrivateKey:   string(keyPEM),
		ClientEmail:  testClientEmail,
	})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func testAccount(t *testing.T) *ServiceAccount {
	t.Helper()
	sa, err := ParseServiceAccount(string(testAccountJSON(t)))
	if err != nil {
		t.Fatalf("ParseServiceAccount() error = %v", err)
	}
	return sa
}

// tokenServer is a fake OAuth token endpoint that validates assertions.
type tokenServer struct {
	t         *testing.T
	exchanges atomic.Int32
	expiresIn int64
	fail      bool
}

func (ts *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ts.exchanges.Add(1)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("grant_type") != jwtBearerGrantType {
		http.Error(w, `{"error": "unsupported_grant_type"}`, http.StatusBadRequest)
		return
	}

	token, err := jwt.Parse(r.PostForm.Get("assertion"), func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &rsaKey(ts.t).PublicKey, nil
	})
	if err != nil || ts.fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid JWT Signature."}`))
		return
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["iss"] != testClientEmail || claims["sub"] != testClientEmail || claims["scope"] != DatastoreScope {
		http.Error(w, `{"error": "invalid_claims"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"access_token": "token-%d", "expires_in": %d, "token_type": "Bearer"}`, ts.exchanges.Load(), ts.expiresIn)
}

func newTestTokenSource(t *testing.T, fake *tokenServer) *TokenSource {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	src, err := NewTokenSource(testAccount(t), srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewTokenSource() error = %v", err)
	}
	return src
}

func TestParseServiceAccount(t *testing.T) {
	t.Parallel()

	raw := testAccountJSON(t)

	fromJSON, err := ParseServiceAccount(string(raw))
	if err != nil {
		t.Fatalf("raw JSON: %v", err)
	}
	fromB64, err := ParseServiceAccount(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	if *fromJSON != *fromB64 {
		t.Error("raw and base64 forms decoded differently")
	}
	if fromJSON.ClientEmail != testClientEmail || fromJSON.ProjectID != "test-project" {
		t.Errorf("decoded = %+v", fromJSON)
	}

	bad := []string{
		"",
		"!!!not-base64!!!",
		base64.StdEncoding.EncodeToString([]byte("not json")),
		`{"private_key": "x"}`,
		`{"client_email": "a@b"}`,
	}
	for _, v := range bad {
		if _, err := ParseServiceAccount(v); err == nil {
			t.Errorf("ParseServiceAccount(%q) succeeded, want error", v)
		}
	}
}

func TestNewTokenSource_BadKey(t *testing.T) {
	t.Parallel()

	_, err := NewTokenSource(&ServiceAccount{ClientEmail: "a@b", PrivateKey: "not a pem"}, "", nil)
	if err == nil {
		t.Error("expected private key parse error")
	}
}

func TestTokenSource_Assertion(t *testing.T) {
	t.Parallel()

	src, err := NewTokenSource(testAccount(t), "", nil)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().Truncate(time.Second)
	signed, err := src.Assertion(now)
	if err != nil {
		t.Fatalf("Assertion() error = %v", err)
	}

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return &rsaKey(t).PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		t.Fatalf("parse assertion: %v", err)
	}

	if token.Header["kid"] != "kid-1" {
		t.Errorf("kid = %v, want kid-1", token.Header["kid"])
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["aud"] != DefaultTokenURL {
		t.Errorf("aud = %v, want %s", claims["aud"], DefaultTokenURL)
	}
	iat, _ := claims.GetIssuedAt()
	exp, _ := claims.GetExpirationTime()
	if iat == nil || exp == nil || exp.Sub(iat.Time) != time.Hour {
		t.Errorf("iat/exp = %v/%v, want one hour apart", iat, exp)
	}
}

func TestTokenSource_CachesUntilNearExpiry(t *testing.T) {
	t.Parallel()

	fake := &tokenServer{t: t, expiresIn: 3600}
	src := newTestTokenSource(t, fake)

	current := time.Now()
	src.now = func() time.Time { return current }
	ctx := context.Background()

	first, err := src.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if first != "token-1" {
		t.Errorf("first token = %q", first)
	}

	current = current.Add(58 * time.Minute)
	if tok, _ := src.Token(ctx); tok != first {
		t.Errorf("token refreshed early: %q", tok)
	}
	if n := fake.exchanges.Load(); n != 1 {
		t.Errorf("exchanges = %d, want 1", n)
	}

	// Inside the final minute the token is renewed.
	current = current.Add(90 * time.Second)
	second, err := src.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if second == first {
		t.Error("token not refreshed near expiry")
	}
	if n := fake.exchanges.Load(); n != 2 {
		t.Errorf("exchanges = %d, want 2", n)
	}
}

func TestTokenSource_ExchangeFailure(t *testing.T) {
	t.Parallel()

	src := newTestTokenSource(t, &tokenServer{t: t, fail: true})

	_, err := src.Token(context.Background())
	if !errors.Is(err, ErrTokenExchange) {
		t.Errorf("error = %v, want ErrTokenExchange", err)
	}
}

func TestTokenSource_DefaultLifetime(t *testing.T) {
	t.Parallel()

	fake := &tokenServer{t: t, expiresIn: 0}
	src := newTestTokenSource(t, fake)

	if _, err := src.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := src.expiry.Sub(src.now()); got < 59*time.Minute {
		t.Errorf("lifetime = %v, want about one hour", got)
	}
}
