package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	errs "github.com/vetcare/vetportal/errors"
	"github.com/vetcare/vetportal/session"
	"go.uber.org/zap"
)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// refreshAccessToken obtains a new access token with the refresh token from the store.
// When the refresh token is missing or the refresh fails the session is cleared
// and errors.SessionExpired is returned.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	refreshToken, err := c.store.Get(session.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("unable to read refresh token: %w", err)
	}
	if refreshToken == "" {
		c.logger.Infow("refresh token is missing, clearing session")
		return c.expireSession(nil)
	}

	accessToken, err := c.requestAccessToken(ctx, refreshToken)
	if err != nil {
		c.logger.Infow("unable to refresh access token, clearing session", zap.Error(err))
		return c.expireSession(err)
	}

	if err := c.store.Set(session.KeyAccessToken, accessToken); err != nil {
		return fmt.Errorf("unable to persist access token: %w", err)
	}
	return nil
}

// requestAccessToken calls the refresh endpoint directly. It never goes through
// the retry logic of the client.
func (c *Client) requestAccessToken(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.refreshURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set(contentTypeHeader, mimeJSON)
	req.Header.Set(acceptHeader, mimeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{
			Method:     http.MethodPost,
			URL:        c.refreshURL,
			StatusCode: resp.StatusCode,
			Body:       payload,
		}
	}

	result := refreshResponse{}
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("unable to decode refresh response: %w", err)
	}
	if result.Access == "" {
		return "", fmt.Errorf("refresh response doesn't contain an access token")
	}

	return result.Access, nil
}

func (c *Client) expireSession(cause error) error {
	if err := c.store.Clear(); err != nil {
		c.logger.Errorw("unable to clear session", zap.Error(err))
	}
	if cause != nil {
		return fmt.Errorf("%w: %w", errs.SessionExpired, cause)
	}
	return errs.SessionExpired
}
