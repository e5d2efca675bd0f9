// Package backend is the HTTP client for the Aurelis storefront REST API.
// It owns the wire formats and translates every transport or server failure
// into a coded error before anything reaches the cart or checkout cores.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	"github.com/angelmondragon/aurelis-storefront/pkg/credentials"
	pkgerrors "github.com/angelmondragon/aurelis-storefront/pkg/errors"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
)

const maxErrorBodyBytes = 8 << 10

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client speaks to the storefront backend. All request paths are rewritten
// under the configured API prefix, so callers may pass "/cart/" and
// "/api/cart/" interchangeably.
type Client struct {
	http    httpDoer
	baseURL string
	prefix  string
	creds   credentials.Provider
	logg    *logger.Logger
	images  imageResolver
}

// NewClient builds a backend client from configuration.
func NewClient(backendCfg config.BackendConfig, imagesCfg config.ImagesConfig, creds credentials.Provider, logg *logger.Logger) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("credentials provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := backendCfg.Validate(); err != nil {
		return nil, fmt.Errorf("backend config: %w", err)
	}
	return &Client{
		http:    &http.Client{Timeout: backendCfg.Timeout},
		baseURL: strings.TrimRight(backendCfg.BaseURL, "/"),
		prefix:  normalizePrefix(backendCfg.APIPrefix),
		creds:   creds,
		logg:    logg,
		images:  newImageResolver(imagesCfg),
	}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// joinPath strips any duplicate API prefix from the caller's path and
// re-applies the configured one exactly once.
func (c *Client) joinPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if c.prefix != "" {
		trimmed = strings.TrimPrefix(trimmed, strings.TrimPrefix(c.prefix, "/"))
		trimmed = strings.TrimPrefix(trimmed, "/")
	}
	return c.baseURL + c.prefix + "/" + trimmed
}

// do performs one request and decodes the JSON response into out when out is
// non-nil. Failures come back as coded errors: transport problems as
// NETWORK_ERROR, HTTP 401 as AUTH_EXPIRED (after dropping the stored
// credential), HTTP 404 as NOT_FOUND, and every other non-2xx status as
// REQUEST_REJECTED carrying the server's own message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.joinPath(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.creds.Credential(); ok {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyStatus(ctx, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRequestRejected, err, "decode backend response")
	}
	return nil
}

func (c *Client) classifyStatus(ctx context.Context, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	httpErr := &httpError{status: resp.StatusCode, body: string(raw)}
	httpErr.serverMsg = extractServerMessage(raw)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.creds.Clear()
		c.logg.Warn(ctx, "backend credential expired")
		return pkgerrors.Wrap(pkgerrors.CodeAuthExpired, httpErr, "credential rejected by backend")
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, httpErr, "resource not found")
	default:
		msg := httpErr.serverMsg
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return pkgerrors.Wrap(pkgerrors.CodeRequestRejected, httpErr, msg)
	}
}

// extractServerMessage digs the human-readable message out of the backend's
// error body. Django serializers use several shapes: {"error": ...},
// {"detail": ...}, {"non_field_errors": [...]}, or a field-to-errors map.
func extractServerMessage(raw []byte) string {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail"} {
		if msg, ok := decoded[key]; ok {
			var text string
			if json.Unmarshal(msg, &text) == nil && text != "" {
				return text
			}
		}
	}
	if msg, ok := decoded["non_field_errors"]; ok {
		var parts []string
		if json.Unmarshal(msg, &parts) == nil && len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	keys := make([]string, 0, len(decoded))
	for key := range decoded {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var fields []string
	for _, key := range keys {
		var parts []string
		if json.Unmarshal(decoded[key], &parts) == nil && len(parts) > 0 {
			fields = append(fields, fmt.Sprintf("%s: %s", key, strings.Join(parts, ", ")))
		}
	}
	return strings.Join(fields, "; ")
}

// httpError preserves the raw HTTP outcome for diagnostics. It satisfies the
// detail interface consumed by the error dump helper.
type httpError struct {
	status    int
	serverMsg string
	body      string
}

func (e *httpError) Error() string {
	if e.serverMsg != "" {
		return fmt.Sprintf("http %d: %s", e.status, e.serverMsg)
	}
	return fmt.Sprintf("http %d", e.status)
}

func (e *httpError) StatusCode() int       { return e.status }
func (e *httpError) ServerMessage() string { return e.serverMsg }
