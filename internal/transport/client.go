// Package transport implements the authenticated request pipeline:
// bearer attachment, a single refresh-and-replay on 401, and the
// session/keystore bookkeeping that keeps both in step.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/keystore"
	"github.com/asgsolar/luxclient/internal/security"
	"github.com/asgsolar/luxclient/internal/session"
)

// Client is the authenticated API client. It is safe for concurrent
// use; simultaneous 401 recoveries share a single refresh call.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	keys    keystore.Store
	log     zerolog.Logger
	refresh singleflight.Group
}

// NewClient creates a client over the given session container and
// credential store.
func NewClient(baseURL string, timeout time.Duration, sess *session.Store, keys keystore.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		session: sess,
		keys:    keys,
		log:     log,
	}
}

// Session returns the shared session container.
func (c *Client) Session() *session.Store {
	return c.session
}

// Do sends the request with the current bearer token. On a 401 it
// performs exactly one refresh attempt and, if that succeeds, replays
// the original request exactly once with the new token. An
// unrecoverable 401 ends in a clean logout: credentials cleared,
// session reset.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.send(ctx, req, c.accessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	token, err := c.recoverAuth(ctx)
	if err != nil {
		if errors.Is(err, ErrNoRefreshToken) {
			// Nothing to retry with. The original 401 is the result.
			return resp, nil
		}
		return nil, err
	}

	c.log.Debug().Str("path", req.Path).Msg("replaying request after token refresh")
	return c.send(ctx, req, token.Access)
}

// recoverAuth exchanges the refresh token for a new pair. Concurrent
// callers share one exchange; each replays its own request afterwards.
func (c *Client) recoverAuth(ctx context.Context) (domain.AuthToken, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		refresh := ""
		if t := c.session.Get().Token; t != nil {
			refresh = t.Refresh
		}
		if refresh == "" {
			if stored, err := c.keys.Load(ctx); err == nil && stored != nil {
				refresh = stored.Refresh
			}
		}
		if refresh == "" {
			c.forceLogout(ctx)
			return nil, ErrNoRefreshToken
		}

		token, err := c.exchangeRefresh(ctx, refresh)
		if err != nil {
			c.forceLogout(ctx)
			return nil, fmt.Errorf("token refresh failed: %w", err)
		}

		if err := c.keys.Save(ctx, *token); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
		}
		c.session.TokenRefreshed(*token)
		c.log.Debug().Msg("access token refreshed")
		return *token, nil
	})
	if err != nil {
		return domain.AuthToken{}, err
	}
	return v.(domain.AuthToken), nil
}

// exchangeRefresh calls /auth/refresh and normalizes the returned
// pair, backfilling expires_at from the JWT when the server omits it.
func (c *Client) exchangeRefresh(ctx context.Context, refresh string) (*domain.AuthToken, error) {
	resp, err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Body:   map[string]string{"refresh": refresh},
	}, c.accessToken())
	if err != nil {
		return nil, err
	}

	token, err := Decode[domain.AuthToken](resp)
	if err != nil {
		return nil, err
	}
	if token.Access == "" {
		return nil, errors.New("refresh response carried no access token")
	}
	if token.ExpiresAt == 0 {
		if exp, err := security.TokenExpiry(token.Access); err == nil {
			token.ExpiresAt = exp.Unix()
		}
	}
	return &token, nil
}

// Bootstrap is the startup token check: Unknown -> Checking ->
// {Authenticated, Unauthenticated}. A persisted pair is never trusted
// directly; it is exchanged for a fresh one first, so the session
// never presents itself as authenticated with an unverified token.
// Every exit leaves Loading false.
func (c *Client) Bootstrap(ctx context.Context) error {
	c.session.SetLoading(true)
	defer c.session.SetLoading(false)

	stored, err := c.keys.Load(ctx)
	if err != nil || stored == nil {
		c.log.Debug().Msg("no persisted credentials, starting unauthenticated")
		return nil
	}

	// A refresh token we can already see is expired is not worth a
	// round trip. Opaque tokens still go to the server.
	if security.TokenExpired(stored.Refresh, time.Now()) {
		c.log.Info().Msg("persisted refresh token expired, clearing credentials")
		c.forceLogout(ctx)
		return nil
	}

	token, err := c.exchangeRefresh(ctx, stored.Refresh)
	if err != nil {
		c.log.Info().Err(err).Msg("bootstrap refresh rejected, clearing credentials")
		c.forceLogout(ctx)
		return nil
	}

	if err := c.keys.Save(ctx, *token); err != nil {
		return fmt.Errorf("failed to persist bootstrap token: %w", err)
	}

	// Minimal identity until the profile query lands.
	c.session.Login(domain.User{
		FirstName:               "Homeowner",
		NotificationPreferences: domain.DefaultNotificationPreferences(),
	}, *token)
	c.log.Info().Msg("session restored from persisted credentials")
	return nil
}

// Login persists the pair and installs the authenticated session.
// Exposed to the UI collaborator together with Logout and
// RefreshSession.
func (c *Client) Login(ctx context.Context, user domain.User, token domain.AuthToken) error {
	if err := c.keys.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	c.session.Login(user, token)
	return nil
}

// Logout clears persisted credentials and resets the session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.keys.Clear(ctx)
	c.session.Logout()
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// RefreshSession proactively exchanges the persisted refresh token,
// keeping the current user record. No-op while logged out or without
// persisted credentials.
func (c *Client) RefreshSession(ctx context.Context) error {
	snap := c.session.Get()
	if snap.User == nil {
		return nil
	}
	stored, err := c.keys.Load(ctx)
	if err != nil || stored == nil {
		return nil
	}

	token, err := c.exchangeRefresh(ctx, stored.Refresh)
	if err != nil {
		return fmt.Errorf("session refresh failed: %w", err)
	}
	if err := c.keys.Save(ctx, *token); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	c.session.Login(*snap.User, *token)
	return nil
}

// forceLogout clears credentials and resets the session after an
// unrecoverable auth failure. A failed clear is logged, not returned:
// the session must not stay authenticated-looking with a broken token.
func (c *Client) forceLogout(ctx context.Context) {
	if err := c.keys.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("failed to clear credential store during logout")
	}
	c.session.Logout()
}

func (c *Client) accessToken() string {
	if t := c.session.Get().Token; t != nil {
		return t.Access
	}
	return ""
}
