package officer

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/gateway"
)

// Backend paths.
const (
	PathProfile    = "officier/me"
	PathList       = "declaration/get"
	PathTransition = "declaration/traitement"
	PathPublish    = "declaration/publier"
	PathMessage    = "declaration/message/send"
	PathBoard      = "declaration/publier"
)

// Profile is the signed-in officer.
type Profile struct {
	ID        int                    `json:"id_officier"`
	Nom       string                 `json:"nom"`
	Prenom    string                 `json:"prenom"`
	Email     string                 `json:"email"`
	CommuneID int                    `json:"id_commune"`
	Commune   declaration.CommuneRef `json:"Commune"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.Prenom + " " + p.Nom)
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client runs the officer dashboard operations. The gateway must carry the
// officer bearer token.
type Client struct {
	gw     *gateway.Client
	logger *zap.Logger
}

func New(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.logger = c.logger.Named("officer")
	return c
}

// Me returns the officer profile.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	env, err := gateway.Get[Profile](ctx, c.gw, PathProfile, nil)
	if err != nil {
		return Profile{}, failure("me", err)
	}
	return env.Data, nil
}

// List returns declarations matching q.
func (c *Client) List(ctx context.Context, q Query) ([]declaration.Record, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	env, err := gateway.Get[[]declaration.Record](ctx, c.gw, PathList, q.Values())
	if err != nil {
		return nil, failure("list", err)
	}
	c.logger.Debug("declarations listed", zap.String("status", string(q.Status)), zap.Int("count", len(env.Data)))
	return env.Data, nil
}

// Approve accepts a pending declaration.
func (c *Client) Approve(ctx context.Context, rec declaration.Record) error {
	return c.transition(ctx, rec, declaration.StatusAccepted)
}

// Reject refuses a pending declaration.
func (c *Client) Reject(ctx context.Context, rec declaration.Record) error {
	return c.transition(ctx, rec, declaration.StatusRejected)
}

func (c *Client) transition(ctx context.Context, rec declaration.Record, to declaration.Status) error {
	if rec.ID <= 0 {
		return ErrInvalidID
	}
	if !rec.Pending() {
		return fmt.Errorf("%w: %d is %s", ErrNotPending, rec.ID, rec.Status)
	}
	query := url.Values{"status": []string{string(to)}}
	_, err := gateway.Do[any](ctx, c.gw, http.MethodPost, idPath(PathTransition, rec.ID), query, nil)
	if err != nil {
		return failure("transition", err)
	}
	c.logger.Info("declaration reviewed", zap.Int("id", rec.ID), zap.String("status", string(to)))
	return nil
}

// Publish posts the banns of an accepted declaration.
func (c *Client) Publish(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if _, err := gateway.Post[any](ctx, c.gw, idPath(PathPublish, id), nil); err != nil {
		return failure("publish", err)
	}
	c.logger.Info("declaration published", zap.Int("id", id))
	return nil
}

// SendMessage e-mails the declarant. Markup is stripped; a message that is
// empty afterwards is refused locally.
func (c *Client) SendMessage(ctx context.Context, id int, message string) error {
	if id <= 0 {
		return ErrInvalidID
	}
	text := sanitizeMessage(message)
	if text == "" {
		return &Error{Op: "message", Message: EmptyMessageText, Err: ErrEmptyMessage}
	}
	if _, err := gateway.Post[any](ctx, c.gw, idPath(PathMessage, id), map[string]string{"message": text}); err != nil {
		return failure("message", err)
	}
	return nil
}

func idPath(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}

func failure(op string, err error) error {
	return &Error{Op: op, Code: gateway.Code(err), Message: gateway.Message(err, FallbackMessage), Err: err}
}

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

func sanitizeMessage(raw string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(strings.TrimSpace(raw))))
}
