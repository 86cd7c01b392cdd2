// Package api implements the HTTP client core and the auth
// interceptor. Every call is described by an operation name plus a
// request descriptor; the interceptor decides per operation whether to
// attach a bearer token and whether to refresh it first.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cinebook/cinebook/internal/model"
	"github.com/cinebook/cinebook/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client issues REST calls against one backend. The embedded
// http.Client carries a cookie jar so the long-lived refresh
// credential (an http-only cookie set at login) travels with every
// request; the short-lived bearer token is managed per request by the
// interceptor.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *session.Store
	logger  *log.Logger
}

// New builds a client for baseURL. The session store is injected so
// several components can share one view of the token.
func New(baseURL string, sess *session.Store) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
		session: sess,
		logger:  log.New(log.Writer(), "api: ", log.LstdFlags),
	}, nil
}

// SetTimeout overrides the default per-request timeout.
func (c *Client) SetTimeout(d time.Duration) { c.http.Timeout = d }

// Session exposes the injected store for callers that need to read
// auth state (the CLI prompts for login when it is empty).
func (c *Client) Session() *session.Store { return c.session }

// file is an uploaded attachment in a multipart request.
type file struct {
	field string
	name  string
	data  []byte
}

// request describes one outgoing call before the interceptor runs.
type request struct {
	op     Operation
	method string
	path   string
	query  url.Values
	json   any        // JSON body, nil when absent
	form   url.Values // multipart fields, nil when absent
	files  []file
}

// do runs the interceptor and issues the request.
//
// Public operations are forwarded untouched: no token inspection, no
// refresh. Authenticated operations first get a synchronous refresh
// when the session is empty or the token expires within refreshMargin,
// then are sent with the current token attached, even when the
// refresh just failed and the token is empty. In that case the request
// goes out without a bearer header and fails like any other request;
// the interceptor never invents a synthetic error.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if authOperations[r.op] {
		c.ensureFreshToken(ctx)
	}

	req, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return err
	}
	if authOperations[r.op] {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", r.method, r.path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp.StatusCode, body)
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", r.method, r.path, err)
		}
	}
	return nil
}

// ensureFreshToken is the refresh half of the interceptor. It mutates
// the session at most once: Login on a successful refresh, Logout on a
// failed one, nothing when the token is still fresh. Concurrent
// authenticated calls may each trigger their own refresh; the refresh
// endpoint is idempotent per cookie so the duplicate is wasted work,
// not a hazard.
func (c *Client) ensureFreshToken(ctx context.Context) {
	tok := c.session.Token()
	if tok == "" || tokenExpiresBefore(tok, time.Now().Add(refreshMargin)) {
		c.refreshToken(ctx)
	}
}

// refreshToken exchanges the ambient cookie credential for a new
// access token. Failure (transport error, non-2xx, or a body without a
// token) demotes to logged out and is not retried; the triggering
// request still proceeds and surfaces its own error.
func (c *Client) refreshToken(ctx context.Context) {
	var out model.RefreshResponse
	err := c.do(ctx, request{op: OpRefreshToken, method: http.MethodPost, path: routeRefresh}, &out)
	if err != nil || out.Access == "" {
		if err != nil {
			c.logger.Printf("token refresh failed: %v", err)
		}
		c.session.Logout()
		return
	}
	c.session.Login(out.Access)
}

func (c *Client) newHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case r.json != nil:
		buf, err := json.Marshal(r.json)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.path, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	case r.form != nil:
		buf, ct, err := encodeMultipart(r.form, r.files)
		if err != nil {
			return nil, fmt.Errorf("encode %s form: %w", r.path, err)
		}
		body = buf
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// encodeMultipart packs fields and attachments into a multipart/form-data
// body. Empty field values are skipped so optional fields stay absent
// instead of arriving as empty strings.
func encodeMultipart(fields url.Values, files []file) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for key, vals := range fields {
		for _, v := range vals {
			if v == "" {
				continue
			}
			if err := w.WriteField(key, v); err != nil {
				return nil, "", err
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// pageQuery returns a query carrying the 1-based page number; page 0
// means "first page" and omits the parameter.
func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	return q
}
