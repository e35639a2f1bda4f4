package records

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

	"github.com/google/uuid"
	"github.com/lachiem1/monthlens/internal/errs"
	"github.com/lachiem1/monthlens/internal/logger"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// TokenSource supplies the bearer credential for each request.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed credential.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client talks to the expense service over HTTP.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	requestID  func() string
}

// New creates a client. A zero timeout uses the default of 15s.
func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestID: uuid.NewString,
	}
}

// envelope is the service's response wrapper.
type envelope struct {
	Success     *bool           `json:"success"`
	Message     string          `json:"message"`
	Error       string          `json:"error"`
	Data        json.RawMessage `json:"data"`
	TotalAmount json.RawMessage `json:"total_amount"`
	Count       *int            `json:"count"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (c *Client) token() (string, error) {
	if c.tokens == nil {
		return "", errs.NewUnauthorizedError("no credential configured", nil)
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return "", errs.NewUnauthorizedError("load credential", err)
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", errs.NewUnauthorizedError("no credential configured", nil)
	}
	return tok, nil
}

// do sends one request and returns the decoded envelope of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	reqID := c.requestID()
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logger.FromContext(ctx).With(
		logger.FieldComponent, logger.ComponentRecords,
		logger.FieldMethod, method,
		logger.FieldPath, path,
		logger.FieldRequestID, reqID,
	)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", logger.FieldError, err)
		return nil, errs.NewNetworkError("call "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.NewNetworkError("read "+path+" response", err)
	}
	log.Debug("request done",
		logger.FieldStatusCode, resp.StatusCode,
		logger.FieldDuration, time.Since(started).Milliseconds(),
	)

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		msg := "credential rejected"
		if decodeErr == nil && env.text() != "" {
			msg = env.text()
		}
		return nil, errs.NewUnauthorizedError(msg, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("%s failed with status %d", path, resp.StatusCode)
		if decodeErr == nil && env.text() != "" {
			msg = env.text()
		}
		return nil, errs.NewStatusError(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		log.Error("malformed response", logger.FieldError, decodeErr)
		return nil, errs.NewMalformedError("decode "+path+" response", decodeErr)
	}
	if env.Success != nil && !*env.Success {
		msg := env.text()
		if msg == "" {
			msg = path + " reported failure"
		}
		return nil, errs.NewStatusError(resp.StatusCode, msg)
	}
	return &env, nil
}

// decodeData unmarshals the envelope payload. A missing or null payload
// leaves out untouched.
func decodeData(env *envelope, path string, out any) error {
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errs.NewMalformedError("decode "+path+" payload", err)
	}
	return nil
}
