package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/relate15/internal/client/credentials"
	"github.com/dmitrijs2005/relate15/internal/common"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

// Navigator moves the user to another view.
type Navigator interface {
	// ToLogin is called after the credential was rejected.
	ToLogin()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

type Config struct {
	// BaseURL of the backend, e.g. "https://relate15-be.onrender.com".
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient  *http.Client
	Credentials credentials.Store
	// Navigator is told to show the login view on 401. May be nil.
	Navigator Navigator
	Logger    logging.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credentials.Store
	nav        Navigator
	log        logging.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Credentials == nil {
		return nil, errors.New("api: Credentials is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	nav := cfg.Navigator
	if nav == nil {
		nav = NavigatorFunc(func() {})
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		creds:      cfg.Credentials,
		nav:        nav,
		log:        log.With("component", "api"),
	}, nil
}

// request describes one call. public requests neither carry the credential
// nor trigger the 401 logout path (login and register).
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	public      bool
}

func jsonRequest(method, path string, in any) (request, error) {
	r := request{method: method, path: path}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return r, fmt.Errorf("api: encode %s: %w", path, err)
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r and decodes a JSON answer into out (when out is non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", r.method, r.path, err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	if !r.public {
		token, err := c.creds.Load(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.FormatBearer(token))
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api call", "method", r.method, "path", r.path, "status", resp.StatusCode)

	if fresh := common.ParseBearer(resp.Header.Get(common.AuthorizationHeader)); fresh != "" {
		if err := c.creds.Save(ctx, fresh); err != nil {
			c.log.Warn(ctx, "failed to persist refreshed credential", "error", err)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrUnavailable, r.path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !r.public {
		if err := c.creds.Clear(ctx); err != nil {
			c.log.Warn(ctx, "failed to clear credential", "error", err)
		}
		c.log.Info(ctx, "credential rejected, returning to login", "path", r.path)
		c.nav.ToLogin()
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: serverMessage(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decode %s: %w", r.path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	r, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// Health probes the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: Endpoints.Health, public: true}, nil)
}
