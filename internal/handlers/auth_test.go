package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CHOJUNGHO96/algo-reference/internal/metrics"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func doRequest(r *gin.Engine, method, path, body string, hdr http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error body %q: %v", w.Body.String(), err)
	}
	return out.Error
}

func TestAuthHandlers_Login(t *testing.T) {
	ts := newTestServices()
	ts.auth.loginPair = &service.TokenPair{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer", ExpiresIn: 900}
	reg := prometheus.NewRegistry()
	r := newTestRouter(ts.service(), Options{Metrics: metrics.NewCollector(reg)})

	// success
	w := doRequest(r, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@algoref.com","password":"admin123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var pair service.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pair.AccessToken != "acc" || pair.RefreshToken != "ref" || pair.TokenType != "bearer" || pair.ExpiresIn != 900 {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if ts.auth.lastLoginEmail != "admin@algoref.com" || ts.auth.lastLoginPassword != "admin123" {
		t.Fatalf("login got %q/%q", ts.auth.lastLoginEmail, ts.auth.lastLoginPassword)
	}

	// wrong credentials → 401, generic message
	ts.auth.loginErr = service.ErrInvalidCredentials
	w = doRequest(r, http.MethodPost, "/api/v1/auth/login", `{"email":"nobody@x.io","password":"nope"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("WWW-Authenticate = %q", got)
	}
	if msg := errorBody(t, w); msg != errBadCredentials {
		t.Fatalf("error = %q", msg)
	}

	// missing password → 400
	w = doRequest(r, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@algoref.com"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}

	want := `
# HELP algoref_login_attempts_total Login attempts by outcome.
# TYPE algoref_login_attempts_total counter
algoref_login_attempts_total{outcome="failure"} 1
algoref_login_attempts_total{outcome="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "algoref_login_attempts_total"); err != nil {
		t.Fatal(err)
	}
}

func TestAuthHandlers_Refresh(t *testing.T) {
	ts := newTestServices()
	ts.auth.refreshPair = &service.TokenPair{AccessToken: "acc2", RefreshToken: "ref2", TokenType: "bearer", ExpiresIn: 900}
	r := newTestRouter(ts.service(), Options{})

	w := doRequest(r, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"ref"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status=%d, body=%s", w.Code, w.Body.String())
	}
	if ts.auth.lastRefreshToken != "ref" {
		t.Fatalf("refresh token passed = %q", ts.auth.lastRefreshToken)
	}

	cases := []struct {
		name string
		err  error
		msg  string
	}{
		{"expired", fmt.Errorf("%w: %w", service.ErrUnauthenticated, service.ErrTokenExpired), errTokenExpired},
		{"malformed", fmt.Errorf("%w: %w", service.ErrUnauthenticated, service.ErrTokenMalformed), errCouldNotValidate},
		{"user gone", service.ErrUserNotFound, errCouldNotValidate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts.auth.refreshErr = tc.err
			w := doRequest(r, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"x"}`, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", w.Code)
			}
			if msg := errorBody(t, w); msg != tc.msg {
				t.Fatalf("error = %q, want %q", msg, tc.msg)
			}
		})
	}

	w = doRequest(r, http.MethodPost, "/api/v1/auth/refresh", `{}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", w.Code)
	}
}

func TestAuthHandlers_Me(t *testing.T) {
	ts := newTestServices()
	r := newTestRouter(ts.service(), Options{})

	cases := []struct {
		name   string
		header string
		code   int
		errMsg string
	}{
		{name: "missing header", code: http.StatusUnauthorized, errMsg: "missing Authorization header"},
		{name: "invalid scheme", header: "Token abc", code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		{name: "bearer without token", header: "Bearer", code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		{name: "unknown token", header: "Bearer nope", code: http.StatusUnauthorized, errMsg: errCouldNotValidate},
		{name: "valid", header: "Bearer " + adminToken, code: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + editorToken, code: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := http.Header{}
			if tc.header != "" {
				hdr.Set("Authorization", tc.header)
			}
			w := doRequest(r, http.MethodGet, "/api/v1/auth/me", "", hdr)
			if w.Code != tc.code {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.code, w.Body.String())
			}
			if tc.code == http.StatusUnauthorized {
				if w.Header().Get("WWW-Authenticate") != "Bearer" {
					t.Fatalf("missing WWW-Authenticate header")
				}
				if msg := errorBody(t, w); msg != tc.errMsg {
					t.Fatalf("error message: got %q, want %q", msg, tc.errMsg)
				}
				return
			}
			var u struct {
				ID           int    `json:"id"`
				Email        string `json:"email"`
				Role         string `json:"role"`
				PasswordHash string `json:"password_hash"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if u.Email == "" || u.Role == "" || u.PasswordHash != "" {
				t.Fatalf("unexpected user body: %s", w.Body.String())
			}
		})
	}
}
