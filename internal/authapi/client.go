// Package authapi is a thin client for the external authentication API that
// owns user accounts.
package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	"github.com/enoturismo/recorridos/internal/storage"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	bus        *events.Bus
	sessions   *storage.SessionStore
	logger     *slog.Logger
}

func NewClient(baseURL string, bus *events.Bus, sessions *storage.SessionStore, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		bus:      bus,
		sessions: sessions,
		logger:   logger,
	}
}

// Me resolves the user behind token. Successful lookups are cached in the
// session store until a logout or unauthorized event for the token arrives.
func (c *Client) Me(ctx context.Context, token string) Result[domain.User] {
	if user, err := c.sessions.GetSession(ctx, token); err != nil {
		c.logger.Warn("failed to read cached session", "error", err)
	} else if user != nil {
		return Ok(*user)
	}

	var user domain.User

	apiErr := c.do(ctx, http.MethodGet, "/auth/me", token, &user)
	if apiErr != nil {
		return Fail[domain.User](apiErr)
	}

	if err := c.sessions.SetSession(ctx, token, &user); err != nil {
		c.logger.Warn("failed to cache session", "error", err)
	}

	return Ok(user)
}

// Watch drops cached sessions when the bus reports them as no longer valid.
// It returns when ctx is done or the bus is closed.
func (c *Client) Watch(ctx context.Context) {
	sub := c.bus.Subscribe(events.TopicLogout, events.TopicUnauthorized)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.C:
			if !ok {
				return
			}

			if e.Token == "" {
				continue
			}

			if err := c.sessions.RemoveSession(ctx, e.Token); err != nil {
				c.logger.Warn("failed to drop cached session", "error", err, "topic", e.Topic)
			}
		}
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, dst any) *APIError {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		c.logger.Error("failed to build auth api request", "error", err)
		return NetworkError(0)
	}

	requestId := middleware.GetReqID(ctx)
	if requestId == "" {
		requestId = uuid.NewString()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-Id", requestId)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("auth api request failed", "error", err, "path", path)
		return NetworkError(0)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := parseAPIError(res)
		c.publish(apiErr, token)

		return apiErr
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		c.logger.Error("failed to decode auth api response", "error", fmt.Errorf("%s %s: %w", method, path, err))
		return NetworkError(res.StatusCode)
	}

	return nil
}

func (c *Client) publish(apiErr *APIError, token string) {
	switch apiErr.Key {
	case KeyInvalidOrExpiredCode:
		c.bus.Publish(events.Event{Topic: events.TopicLogout, Token: token})
	case KeyUnauthorized:
		c.bus.Publish(events.Event{Topic: events.TopicUnauthorized, Token: token})
	}
}
