package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/iliyamo/employee-portal/internal/model"
)

// LoginResult is the backend's answer to POST /auth/login.
type LoginResult struct {
	StatusCode   int    `json:"statusCode"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	Message      string `json:"message"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for tokens.  A login only succeeds when the
// HTTP status is 2xx and the body reports statusCode 200; anything else is
// a StatusError carrying the backend message when there is one.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/auth/login", loginReq{Email: email, Password: password}, "")
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()

	var res LoginResult
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return LoginResult{}, errors.Wrapf(ErrTransport, "read login response: %v", err)
	}
	decodeErr := json.Unmarshal(b, &res)
	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if ok && decodeErr != nil {
		return LoginResult{}, errors.Wrapf(ErrTransport, "decode login response: %v", decodeErr)
	}
	if !ok || res.StatusCode != http.StatusOK || res.Token == "" {
		status := resp.StatusCode
		if ok && res.StatusCode != 0 {
			status = res.StatusCode
		}
		return LoginResult{}, &StatusError{Status: status, Message: res.Message}
	}
	return res, nil
}

type checkEmailResp struct {
	Exists bool `json:"exists"`
}

// CheckEmailExists asks whether an email is already registered.  Any
// failure answers false so a broken lookup never blocks registration; the
// backend still rejects real duplicates on register.
func (c *Client) CheckEmailExists(ctx context.Context, email string) bool {
	resp, err := c.send(ctx, http.MethodGet, "/auth/check-email?email="+url.QueryEscape(email), nil, "")
	if err != nil {
		log.Warnf("check-email failed open: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("check-email failed open: status %d", resp.StatusCode)
		return false
	}
	var out checkEmailResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warnf("check-email failed open: %v", err)
		return false
	}
	return out.Exists
}

// Register creates an employee from a registration draft, password included.
func (c *Client) Register(ctx context.Context, e model.Employee) error {
	resp, err := c.send(ctx, http.MethodPost, "/auth/register", e, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
