package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lineage/pkg/logging"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPStore forwards record-store operations to a remote genealogy
// service over HTTP. Non-2xx upstream responses are surfaced as *Error
// so callers keep the upstream status and reason.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates a store client for the given base URL.
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (s *HTTPStore) Trees(ctx context.Context) (string, error) {
	return s.do(ctx, http.MethodGet, "/trees", nil, "")
}

func (s *HTTPStore) Version(ctx context.Context) (string, error) {
	return s.do(ctx, http.MethodGet, "/version", nil, "")
}

func (s *HTTPStore) GetRecord(ctx context.Context, tree, xref, format string) (string, error) {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	return s.do(ctx, http.MethodGet, fmt.Sprintf("/trees/%s/records/%s", url.PathEscape(tree), url.PathEscape(xref)), q, "")
}

func (s *HTTPStore) Search(ctx context.Context, tree, query, format string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	if format != "" {
		q.Set("format", format)
	}
	return s.do(ctx, http.MethodGet, fmt.Sprintf("/trees/%s/search", url.PathEscape(tree)), q, "")
}

func (s *HTTPStore) ModifyRecord(ctx context.Context, tree, xref, gedcom string) (string, error) {
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/trees/%s/records/%s", url.PathEscape(tree), url.PathEscape(xref)), nil, gedcom)
}

func (s *HTTPStore) CreateRecord(ctx context.Context, tree, recordType, gedcom string) (string, error) {
	q := url.Values{}
	q.Set("type", recordType)
	return s.do(ctx, http.MethodPost, fmt.Sprintf("/trees/%s/records", url.PathEscape(tree)), q, gedcom)
}

func (s *HTTPStore) Link(ctx context.Context, op, tree string, params map[string]string) (string, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("/trees/%s/%s", url.PathEscape(tree), url.PathEscape(op)), q, "")
}

func (s *HTTPStore) RunCommand(ctx context.Context, command string) (string, error) {
	q := url.Values{}
	q.Set("command", command)
	return s.do(ctx, http.MethodPost, "/cli", q, "")
}

// do issues one request against the upstream store and reads the body.
func (s *HTTPStore) do(ctx context.Context, method, path string, query url.Values, body string) (string, error) {
	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", fmt.Errorf("failed to build upstream request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "text/plain; charset=UTF-8")
	}

	logging.Debug("Backend", "Forwarding %s %s", method, path)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Status: resp.StatusCode, Reason: strings.TrimSpace(string(data))}
	}
	return string(data), nil
}

// HTTPGedbas talks to the public GEDBAS service.
type HTTPGedbas struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGedbas creates a GEDBAS client for the given base URL.
func NewHTTPGedbas(baseURL string) *HTTPGedbas {
	return &HTTPGedbas{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (g *HTTPGedbas) SearchSimple(ctx context.Context, lastname, firstname, place string) (string, error) {
	q := url.Values{}
	q.Set("lastname", lastname)
	if firstname != "" {
		q.Set("firstname", firstname)
	}
	if place != "" {
		q.Set("placename", place)
	}
	return g.do(ctx, "/search/simple", q)
}

func (g *HTTPGedbas) PersonData(ctx context.Context, id string) (string, error) {
	return g.do(ctx, "/person/"+url.PathEscape(id), nil)
}

func (g *HTTPGedbas) do(ctx context.Context, path string, query url.Values) (string, error) {
	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build GEDBAS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logging.Debug("Gedbas", "Querying %s", path)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GEDBAS request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read GEDBAS response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Status: resp.StatusCode, Reason: strings.TrimSpace(string(data))}
	}
	return string(data), nil
}
