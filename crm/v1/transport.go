package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Response struct {
	Data []byte
}

// Session is the immutable request context the CRM hands the page: base
// URL, CSRF token and session cookie. It replaces the page-global
// constants of the web client.
type Session struct {
	BaseURL   string
	CSRFToken string
	SessionID string
	Timeout   time.Duration
}

// DefaultTimeout bounds every upstream round trip. A visible failure beats
// an indefinitely pending request.
const DefaultTimeout = 15 * time.Second

// Transport handles low-level HTTP, CSRF and session headers.
type Transport struct {
	Session    Session
	HTTPClient *http.Client
}

func NewTransport(session Session) *Transport {
	timeout := session.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		Session:    session,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// helper: build full URL with query params
func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.Session.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (t *Transport) decorate(req *http.Request) {
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if t.Session.CSRFToken != "" {
		req.Header.Set("X-CSRFToken", t.Session.CSRFToken)
	}
	if t.Session.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: t.Session.SessionID})
	}
}

// PostJSON sends a POST request with a JSON body.
func (t *Transport) PostJSON(ctx context.Context, path string, data any) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return t.post(ctx, path, "application/json", bytes.NewBuffer(body))
}

// PostForm sends a POST request with a form-encoded body, the shape the
// CRM's form endpoints expect.
func (t *Transport) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	return t.post(ctx, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (t *Transport) post(ctx context.Context, path, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.buildURL(path, nil), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	t.decorate(req)

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("POST %s failed with status code %d: %s", path, resp.StatusCode, string(b))
	}

	resdata, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{Data: resdata}, nil
}

// Get sends a GET request and returns the raw body. Modal fragment
// endpoints return server-rendered HTML that is passed through verbatim.
func (t *Transport) Get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.buildURL(path, query), nil)
	if err != nil {
		return nil, err
	}
	t.decorate(req)

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GET %s failed with status code %d: %s", path, resp.StatusCode, string(b))
	}

	return io.ReadAll(resp.Body)
}
