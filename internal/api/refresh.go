package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// ErrNoRefreshToken is returned when a refresh is attempted without a
// stored refresh token.
var ErrNoRefreshToken = errors.New("no refresh token available")

// refreshCall is the shared handle for one in-flight refresh exchange.
// Concurrent callers block on done and read the same outcome.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. At most one exchange is in flight at a time: callers arriving
// while one is pending await its result instead of issuing their own.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	if call := c.refresh; call != nil {
		c.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.refresh = call
	c.refreshMu.Unlock()

	call.token, call.err = c.exchangeRefreshToken(ctx)
	close(call.done)

	c.refreshMu.Lock()
	c.refresh = nil
	c.refreshMu.Unlock()

	return call.token, call.err
}

// exchangeRefreshToken performs the actual /auth/refresh call. It bypasses
// the 401 recovery path entirely, so a failing refresh can never recurse.
func (c *Client) exchangeRefreshToken(ctx context.Context) (string, error) {
	refreshToken := c.creds.RefreshToken()
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	log.Debug().
		Str("refresh_token", TokenFingerprint(refreshToken)).
		Msg("exchanging refresh token")

	var out models.RefreshResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh",
		models.RefreshRequest{RefreshToken: refreshToken}, &out,
		skipAuthRetry(), withoutAuth())
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{Message: "refresh response missing access token", Err: ErrServer}
	}

	// The server may rotate the refresh token; keep the old one otherwise.
	newRefresh := out.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}
	if err := c.creds.SetTokens(out.AccessToken, newRefresh); err != nil {
		return "", err
	}

	log.Debug().
		Str("access_token", TokenFingerprint(out.AccessToken)).
		Bool("rotated", out.RefreshToken != "").
		Msg("access token refreshed")

	return out.AccessToken, nil
}
