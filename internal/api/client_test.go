package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook/internal/session"
)

// interceptorServer is a minimal backend recording what the client
// actually sends: refresh hits and the Authorization header of each
// request.
type interceptorServer struct {
	*httptest.Server

	refreshToken  string      // access token handed out by /users/refresh/
	refreshStatus atomic.Int32 // 0 means 200

	refreshCalls atomic.Int32
	lastAuth     atomic.Value // Authorization header of the last non-refresh request
}

func newInterceptorServer(t *testing.T) *interceptorServer {
	t.Helper()
	s := &interceptorServer{refreshToken: "refreshed-token"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/refresh/", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)
		if code := int(s.refreshStatus.Load()); code != 0 {
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid refresh token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access": s.refreshToken})
	})
	mux.HandleFunc("GET /movies/", func(w http.ResponseWriter, r *http.Request) {
		s.lastAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"count": 0, "results": []any{}})
	})
	mux.HandleFunc("GET /users/profile/", func(w http.ResponseWriter, r *http.Request) {
		s.lastAuth.Store(r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "authentication required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "a", "email": "a@b.c"})
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *interceptorServer) authHeader() string {
	v, _ := s.lastAuth.Load().(string)
	return v
}

func newTestClient(t *testing.T, srv *interceptorServer) (*Client, *session.Store) {
	t.Helper()
	sess := session.New()
	c, err := New(srv.URL, sess)
	require.NoError(t, err)
	return c, sess
}

func TestPublicOperationSkipsAuth(t *testing.T) {
	srv := newInterceptorServer(t)
	c, sess := newTestClient(t, srv)

	// Even a visibly stale token must not trigger anything on a
	// public operation.
	sess.Login(mintToken(t, time.Now().Add(-time.Minute)))

	_, err := c.Movies(context.Background(), MovieFilters{}, 1)
	require.NoError(t, err)

	assert.Equal(t, int32(0), srv.refreshCalls.Load())
	assert.Empty(t, srv.authHeader())
}

func TestEmptySessionRefreshesOnce(t *testing.T) {
	srv := newInterceptorServer(t)
	c, sess := newTestClient(t, srv)

	_, err := c.UserDetails(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.refreshCalls.Load())
	assert.Equal(t, "Bearer refreshed-token", srv.authHeader())
	assert.Equal(t, "refreshed-token", sess.Token())
}

func TestFreshTokenNotRefreshed(t *testing.T) {
	srv := newInterceptorServer(t)
	c, sess := newTestClient(t, srv)

	tok := mintToken(t, time.Now().Add(60*time.Second))
	sess.Login(tok)

	_, err := c.UserDetails(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(0), srv.refreshCalls.Load())
	assert.Equal(t, "Bearer "+tok, srv.authHeader())
}

func TestNearExpiryTokenRefreshed(t *testing.T) {
	srv := newInterceptorServer(t)
	c, sess := newTestClient(t, srv)

	sess.Login(mintToken(t, time.Now().Add(10*time.Second)))

	_, err := c.UserDetails(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.refreshCalls.Load())
	assert.Equal(t, "Bearer refreshed-token", srv.authHeader())
	assert.Equal(t, "refreshed-token", sess.Token())
}

func TestFailedRefreshLogsOutAndStillSends(t *testing.T) {
	srv := newInterceptorServer(t)
	srv.refreshStatus.Store(http.StatusUnauthorized)
	c, sess := newTestClient(t, srv)

	sess.Login(mintToken(t, time.Now().Add(-time.Minute)))

	_, err := c.UserDetails(context.Background())
	require.Error(t, err)

	// The refresh failure demoted the session; the original request
	// still went out, bare, and surfaced the server's own rejection.
	assert.Equal(t, int32(1), srv.refreshCalls.Load())
	assert.Empty(t, srv.authHeader())
	assert.Empty(t, sess.Token())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsAuthError())
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRefreshWithEmptyAccessLogsOut(t *testing.T) {
	srv := newInterceptorServer(t)
	srv.refreshToken = ""
	c, sess := newTestClient(t, srv)

	sess.Login(mintToken(t, time.Now().Add(-time.Minute)))

	_, err := c.UserDetails(context.Background())
	require.Error(t, err)
	assert.Empty(t, sess.Token())
}

func TestAPIErrorMessageFields(t *testing.T) {
	for _, tc := range []struct {
		body string
		want string
	}{
		{`{"message":"tickets booked successfully"}`, "tickets booked successfully"},
		{`{"error":"seat already booked"}`, "seat already booked"},
		{`{"detail":"authentication required"}`, "authentication required"},
		{`not json`, ""},
	} {
		e := newAPIError(http.StatusBadRequest, []byte(tc.body))
		assert.Equal(t, tc.want, e.Message, tc.body)
	}

	e := &APIError{StatusCode: http.StatusConflict, Message: "seat already booked"}
	assert.Equal(t, "api: Conflict: seat already booked", e.Error())
	assert.False(t, e.IsAuthError())
}

func TestEncodeMultipartSkipsEmptyFields(t *testing.T) {
	buf, ct, err := encodeMultipart(map[string][]string{
		"name":         {"Asha"},
		"phone_number": {""},
	}, []file{{field: "profile_pic", name: "pic.png", data: []byte("png")}})
	require.NoError(t, err)
	assert.Contains(t, ct, "multipart/form-data")

	body := buf.String()
	assert.Contains(t, body, `name="name"`)
	assert.NotContains(t, body, "phone_number")
	assert.Contains(t, body, `filename="pic.png"`)
}
