package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/pkg/ident"
	"agora-forum/internal/resilience/circuitbreaker"
	"agora-forum/internal/resilience/retry"
)

// listPageSize is the per_page value used when paging through admin users.
const listPageSize = 100

// EphemeralAccount is an entry from the admin user listing, carrying just
// what the reaper needs.
type EphemeralAccount struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Client is an HTTP client for a GoTrue-compatible auth service.
type Client struct {
	httpClient     *http.Client
	config         Config
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	adminLimiter   *rate.Limiter
	now            func() time.Time
}

// NewClient creates an auth client with circuit breaker, retry logic, and
// admin rate limiting configured.
func NewClient(cfg Config) *Client {
	slog.Info("Initialized auth client",
		slog.String("base_url", cfg.BaseURL),
		slog.Duration("timeout", cfg.Timeout),
		slog.Float64("admin_rps", cfg.AdminRequestsPerSecond))

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		config:         cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.AuthAdminConfig()),
		retryConfig:    retry.AuthAdminConfig(),
		adminLimiter:   rate.NewLimiter(rate.Limit(cfg.AdminRequestsPerSecond), 1),
		now:            time.Now,
	}
}

// Breaker exposes the underlying circuit breaker for health reporting.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}

// gotrueUser is the user object shape shared by the /user and /admin/users
// endpoints.
type gotrueUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UserMetadata struct {
		Username string `json:"username"`
	} `json:"user_metadata"`
}

// ResolveToken resolves a bearer token to the account it belongs to.
// Expired or malformed tokens fail locally without a network round trip;
// everything else is verified against the provider, which holds the signing
// key. Every failure returns ErrAuthFailed: a caller holding only a bearer
// token can do nothing but ask the user to sign in again, whether the
// provider rejected the token or was unreachable. The detail is logged here.
// The exchange is not retried; a prompt 401 beats a slow one, and the
// client retries by resubmitting.
func (c *Client) ResolveToken(ctx context.Context, token string) (*entity.Identity, error) {
	if err := checkTokenExpiry(token, c.now()); err != nil {
		metrics.RecordIdentityRequest("resolve_token", false)
		return nil, err
	}

	var user gotrueUser
	err := c.executeOnce(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/user", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("apikey", c.config.AnonKey)

		return c.doJSON(req, &user)
	})

	if err != nil {
		metrics.RecordIdentityRequest("resolve_token", false)
		var httpErr *retry.HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
			slog.InfoContext(ctx, "token rejected by auth provider",
				slog.Int("status", httpErr.StatusCode))
			return nil, ErrAuthFailed
		}
		slog.WarnContext(ctx, "token exchange failed",
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: token exchange: %w", ErrAuthFailed, err)
	}

	metrics.RecordIdentityRequest("resolve_token", true)

	// Accounts created outside this pipeline may have no username; give
	// them an anonymous-style handle rather than exposing their email.
	displayName := user.UserMetadata.Username
	if displayName == "" {
		displayName = "anonymous-" + ident.RandomHex(4)
	}

	return &entity.Identity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: displayName,
		Ephemeral:   strings.HasSuffix(user.Email, "@"+EphemeralEmailDomain),
	}, nil
}

// CreateEphemeral provisions a throwaway account for one anonymous
// submission. The account gets a random anonymous-<8 hex> username, a
// synthetic email under the ephemeral domain, and a random password nobody
// ever learns.
func (c *Client) CreateEphemeral(ctx context.Context) (*entity.Identity, error) {
	name := "anonymous-" + ident.RandomHex(4)
	email := name + "@" + EphemeralEmailDomain
	password := ident.RandomHex(16)

	payload := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"username": name},
	}

	var user gotrueUser
	err := c.adminExecute(ctx, func() error {
		body, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+"/admin/users", bytes.NewReader(body))
		if err != nil {
			return err
		}
		c.setAdminHeaders(req)
		req.Header.Set("Content-Type", "application/json")

		return c.doJSON(req, &user)
	})

	if err != nil {
		metrics.RecordIdentityRequest("create_ephemeral", false)
		return nil, fmt.Errorf("create ephemeral account: %w", err)
	}

	metrics.RecordIdentityRequest("create_ephemeral", true)

	slog.InfoContext(ctx, "created ephemeral account",
		slog.String("account_id", user.ID),
		slog.String("username", name))

	return &entity.Identity{
		ID:          user.ID,
		Email:       email,
		DisplayName: name,
		Ephemeral:   true,
	}, nil
}

// DeleteUser removes an account from the auth provider. Deleting an account
// that is already gone is treated as success so reaper runs can overlap
// with explicit account deletion.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	err := c.adminExecute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			c.config.BaseURL+"/admin/users/"+userID, nil)
		if err != nil {
			return err
		}
		c.setAdminHeaders(req)

		return c.doJSON(req, nil)
	})

	if err != nil {
		var httpErr *retry.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			slog.InfoContext(ctx, "account already deleted",
				slog.String("account_id", userID))
			metrics.RecordIdentityRequest("delete_user", true)
			return nil
		}
		metrics.RecordIdentityRequest("delete_user", false)
		return fmt.Errorf("delete user %s: %w", userID, err)
	}

	metrics.RecordIdentityRequest("delete_user", true)
	return nil
}

// ListEphemeralBefore returns every ephemeral account created before the
// cutoff. It pages through the admin user listing and filters by the
// ephemeral email domain.
func (c *Client) ListEphemeralBefore(ctx context.Context, cutoff time.Time) ([]EphemeralAccount, error) {
	var accounts []EphemeralAccount

	for page := 1; ; page++ {
		var result struct {
			Users []gotrueUser `json:"users"`
		}

		err := c.adminExecute(ctx, func() error {
			url := fmt.Sprintf("%s/admin/users?page=%d&per_page=%d", c.config.BaseURL, page, listPageSize)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			c.setAdminHeaders(req)

			result.Users = nil
			return c.doJSON(req, &result)
		})

		if err != nil {
			metrics.RecordIdentityRequest("list_ephemeral", false)
			return nil, fmt.Errorf("list users page %d: %w", page, err)
		}

		for _, user := range result.Users {
			if !strings.HasSuffix(user.Email, "@"+EphemeralEmailDomain) {
				continue
			}
			if !user.CreatedAt.Before(cutoff) {
				continue
			}
			accounts = append(accounts, EphemeralAccount{
				ID:        user.ID,
				Email:     user.Email,
				CreatedAt: user.CreatedAt,
			})
		}

		if len(result.Users) < listPageSize {
			break
		}
	}

	metrics.RecordIdentityRequest("list_ephemeral", true)
	return accounts, nil
}

// setAdminHeaders attaches the service-role credentials.
func (c *Client) setAdminHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceRoleKey)
	req.Header.Set("apikey", c.config.ServiceRoleKey)
}

// adminExecute runs an admin call through the rate limiter, then the usual
// retry and circuit breaker stack.
func (c *Client) adminExecute(ctx context.Context, fn func() error) error {
	if err := c.adminLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("admin rate limiter: %w", err)
	}
	return c.execute(ctx, fn)
}

// execute runs fn with retry and circuit breaker protection.
func (c *Client) execute(ctx context.Context, fn func() error) error {
	return retry.WithBackoff(ctx, c.retryConfig, func() error {
		return c.executeOnce(fn)
	})
}

// executeOnce runs fn through the circuit breaker with no retry. Token
// resolution uses this directly so dead sessions get their 401 on the
// first round trip.
func (c *Client) executeOnce(fn func() error) error {
	_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("auth provider circuit breaker open, request rejected",
				slog.String("service", "auth-admin"),
				slog.String("state", c.circuitBreaker.State().String()))
			return fmt.Errorf("auth provider unavailable: circuit breaker open")
		}
		return err
	}
	return nil
}

// doJSON sends the request and decodes a 2xx response body into out when
// out is non-nil. Non-2xx statuses become *retry.HTTPError so the retry
// layer can distinguish transient provider failures from rejections.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bound the body read: error payloads are small and anything
		// larger is garbage.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode auth provider response: %w", err)
	}
	return nil
}

// checkTokenExpiry rejects tokens that are structurally invalid or already
// expired without contacting the provider. Signature verification stays
// with the provider; this is a fast path, not a trust decision.
func checkTokenExpiry(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ErrAuthFailed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return ErrAuthFailed
	}
	if exp != nil && exp.Before(now) {
		return ErrAuthFailed
	}
	return nil
}
