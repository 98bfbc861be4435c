// Package api is the client of the employee REST backend.  Authenticated
// calls take the caller's session explicitly; every authenticated response
// passes through one interceptor that clears the session on 401/403.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/employee-portal/internal/session"
)

// maxErrorBody bounds how much of an error body is read for its message.
const maxErrorBody = 64 << 10

// Credentials is the part of a session the client needs.
type Credentials interface {
	Get(key string) (string, bool)
	ClearAll(ctx context.Context) error
}

// Client talks to the backend at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL.  A zero timeout leaves requests bounded
// only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// send issues one request.  A non-empty token is sent as a bearer credential.
func (c *Client) send(ctx context.Context, method, path string, body any, token string) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "%s %s: %v", method, path, err)
	}
	return resp, nil
}

// authed runs an authenticated call.  Without a token nothing is sent.  On
// success the JSON body is decoded into out when out is non-nil.
func (c *Client) authed(ctx context.Context, creds Credentials, method, path string, body, out any) error {
	token, ok := creds.Get(session.KeyToken)
	if !ok {
		return ErrNoSession
	}
	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := intercept(ctx, creds, resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decode(resp, out)
}

// intercept is the shared response check for authenticated calls: 401 and
// 403 clear the session whatever the endpoint, other non-2xx answers become
// a StatusError.
func intercept(ctx context.Context, creds Credentials, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		_ = creds.ClearAll(ctx)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	return nil
}

type messageBody struct {
	Message string `json:"message"`
}

func statusError(resp *http.Response) error {
	var mb messageBody
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(b, &mb)
	return &StatusError{Status: resp.StatusCode, Message: strings.TrimSpace(mb.Message)}
}

func decode(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrTransport, "decode %s: %v", resp.Request.URL.Path, err)
	}
	return nil
}
