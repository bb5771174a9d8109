package auth

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-maryme/pkg/gateway"
)

// Backend paths.
const (
	PathRequestCode  = "user/auth/token"
	PathVerifyCode   = "user/auth/login"
	PathOfficerLogin = "officier/login"
	PathAdminLogin   = "user/auth/admin/login"
	PathAdminCreate  = "user/auth/admin/create"
)

// CodeTTL is how long a one-time code stays valid on the backend.
const CodeTTL = 5 * time.Minute

type tokenResponse struct {
	Token string `json:"token"`
}

type Option func(*Client)

// WithResendInterval sets the minimum delay between two code requests for
// the same address.
func WithResendInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client runs the one-time-code flow and the officer and administrator
// logins. Successful logins store the bearer token in the shared store.
type Client struct {
	gw       *gateway.Client
	tokens   *gateway.TokenStore
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	requesting atomic.Bool
	verifying  atomic.Bool
}

// New builds an auth client. tokens may be nil when only code requests are
// needed.
func New(gw *gateway.Client, tokens *gateway.TokenStore, opts ...Option) *Client {
	c := &Client{
		gw:       gw,
		tokens:   tokens,
		interval: 30 * time.Second,
		logger:   zap.NewNop(),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.logger = c.logger.Named("auth")
	return c
}

// RequestCode asks the backend to e-mail a one-time code.
func (c *Client) RequestCode(ctx context.Context, email string) error {
	if !c.requesting.CompareAndSwap(false, true) {
		return &Error{Op: "request", Message: BusyMessage, Err: ErrBusy}
	}
	defer c.requesting.Store(false)

	email = strings.TrimSpace(email)
	limiter := c.limiter(email)
	if limiter.Tokens() < 1 {
		return &Error{Op: "request", Message: ThrottledMessage, Err: ErrThrottled}
	}

	_, err := gateway.Post[any](ctx, c.gw, PathRequestCode, map[string]string{"email": email})
	if err != nil {
		msg := RequestMessages.Resolve(err, FallbackMessage)
		c.logger.Info("code request rejected", zap.String("code", gateway.Code(err)), zap.Error(err))
		return &Error{Op: "request", Code: gateway.Code(err), Message: msg, Err: err}
	}
	// Only successful requests start the resend delay.
	limiter.Allow()
	c.logger.Debug("code requested")
	return nil
}

// limiter returns the resend limiter of one address.
func (c *Client) limiter(email string) *rate.Limiter {
	key := strings.ToLower(email)
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(c.interval), 1)
		c.limiters[key] = l
	}
	return l
}

// VerifyCode exchanges the code for a bearer token and stores it.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", &Error{Op: "verify", Message: MissingEmailMessage, Err: ErrMissingEmail}
	}
	if !c.verifying.CompareAndSwap(false, true) {
		return "", &Error{Op: "verify", Message: BusyMessage, Err: ErrBusy}
	}
	defer c.verifying.Store(false)

	env, err := gateway.Post[tokenResponse](ctx, c.gw, PathVerifyCode, map[string]string{
		"email": email,
		"otp":   strings.TrimSpace(code),
	})
	if err != nil {
		msg := VerifyMessages.Resolve(err, FallbackMessage)
		c.logger.Info("code verification rejected", zap.String("code", gateway.Code(err)))
		return "", &Error{Op: "verify", Code: gateway.Code(err), Message: msg, Err: err}
	}
	return c.storeToken("verify", env.Data.Token)
}

// OfficerLogin authenticates a civil-status officer.
func (c *Client) OfficerLogin(ctx context.Context, email, password string) (string, error) {
	return c.login(ctx, "officer-login", PathOfficerLogin, email, password)
}

// AdminLogin authenticates an administrator.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (string, error) {
	return c.login(ctx, "admin-login", PathAdminLogin, email, password)
}

// AdminCreate registers a new administrator and stores the returned token.
func (c *Client) AdminCreate(ctx context.Context, email, password string) (string, error) {
	return c.login(ctx, "admin-create", PathAdminCreate, email, password)
}

// Logout forgets the stored token.
func (c *Client) Logout() {
	if c.tokens != nil {
		c.tokens.Clear()
	}
}

func (c *Client) login(ctx context.Context, op, path, email, password string) (string, error) {
	env, err := gateway.Post[tokenResponse](ctx, c.gw, path, map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	})
	if err != nil {
		msg := Messages(nil).Resolve(err, FallbackMessage)
		return "", &Error{Op: op, Code: gateway.Code(err), Message: msg, Err: err}
	}
	return c.storeToken(op, env.Data.Token)
}

func (c *Client) storeToken(op, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", &Error{Op: op, Message: FallbackMessage, Err: ErrMissingToken}
	}
	if c.tokens != nil {
		c.tokens.Set(token)
	}
	c.logger.Debug("token stored", zap.String("op", op))
	return token, nil
}
