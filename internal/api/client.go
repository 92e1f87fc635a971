// Package api is the Wishline REST client and the per-resource services on top
// of it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://192.168.1.5:3000/api"
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 4 << 20
)

// TokenStore supplies the bearer token and forgets the session on 401.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenStore
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client issues one HTTP attempt per call and normalizes every failure to *Error.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     *slog.Logger
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Debug("api client initialized", "base_url", base)
	return &Client{baseURL: base, http: hc, tokens: opts.Tokens, log: logger}
}

func (c *Client) BaseURL() string { return c.baseURL }

// errorBody is what the backend sends on failure.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Do sends body as JSON and decodes a 2xx response into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	reqID := uuid.NewString()
	log := c.log.With("method", method, "path", path, "request_id", reqID)

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			log.Warn("read auth token", "err", err)
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(err)
		log.Warn("api request failed", "kind", apiErr.Kind, "err", err)
		return apiErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		apiErr := transportError(err)
		log.Warn("api read failed", "status", resp.StatusCode, "err", err)
		return apiErr
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		apiErr := &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Code:    eb.Code,
			Message: httpMessage(resp.StatusCode, eb.Message, ""),
		}
		log.Warn("api error", "status", resp.StatusCode, "code", eb.Code, "message", apiErr.Message)
		if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
			if err := c.tokens.Clear(ctx); err != nil {
				log.Error("clear session after 401", "err", err)
			}
		}
		return apiErr
	}

	log.Debug("api success", "status", resp.StatusCode, "elapsed", time.Since(start))
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// call decodes the response envelope and returns its data.
func (c *Client) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	var env envelope
	if err := c.Do(ctx, method, path, body, &env); err != nil {
		return nil, err
	}
	if env.Success != nil && !*env.Success {
		return nil, &Error{Kind: KindHTTP, Status: http.StatusOK, Message: httpMessage(0, env.Message, MsgFallback)}
	}
	return &env, nil
}

func transportError(err error) *Error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Message: MsgTimeout, Err: err}
	}
	msg := MsgNetwork
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		msg = ue.Err.Error()
	} else if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func pathID(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
