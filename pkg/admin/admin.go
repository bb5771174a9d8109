// Package admin holds administrator operations on the commune registry.
package admin

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/contract"
	"github.com/goliatone/go-maryme/pkg/gateway"
	"github.com/goliatone/go-maryme/pkg/location"
)

// PathCreateCommune is the commune creation endpoint.
const PathCreateCommune = "commune/create"

// Field messages for commune creation.
const (
	MessageRegion     = "Veuillez choisir une region"
	MessageDepartment = "Veuillez choisir un departement"
	MessageName       = "Le nom doit contenir au moins 2 caracteres"
	FallbackMessage   = "Oups quelque chose a mal fonctionne"
)

var (
	ErrInvalidCommune = errors.New("admin: invalid commune")
)

// InvalidError lists per-field problems of a commune request.
type InvalidError struct {
	Fields map[string]string
}

func (e *InvalidError) Error() string { return "admin: invalid commune" }

func (e *InvalidError) Unwrap() error { return ErrInvalidCommune }

// Error is a backend rejection; Message is the user-facing copy.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// CommuneRequest is the creation body.
type CommuneRequest struct {
	RegionID     int    `json:"id_region"`
	DepartmentID int    `json:"id_departement"`
	Nom          string `json:"nom"`
}

// Validate checks the request locally.
func (r CommuneRequest) Validate() error {
	fields := map[string]string{}
	if r.RegionID <= 0 {
		fields[location.FieldRegion] = MessageRegion
	}
	if r.DepartmentID <= 0 {
		fields[location.FieldDepartment] = MessageDepartment
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Nom)) < 2 {
		fields["nom"] = MessageName
	}
	if len(fields) > 0 {
		return &InvalidError{Fields: fields}
	}
	return nil
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContract checks request bodies against the backend description.
func WithContract(c *contract.Contract) Option {
	return func(cl *Client) { cl.contract = c }
}

// Client runs administrator operations. The gateway must carry an
// administrator token.
type Client struct {
	gw       *gateway.Client
	contract *contract.Contract
	logger   *zap.Logger
}

func New(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.logger = c.logger.Named("admin")
	return c
}

// CreateCommune registers a commune under a department.
func (c *Client) CreateCommune(ctx context.Context, req CommuneRequest) (location.Commune, error) {
	req.Nom = strings.TrimSpace(req.Nom)
	if err := req.Validate(); err != nil {
		return location.Commune{}, err
	}
	if c.contract != nil {
		issues, err := c.contract.CheckRequest(contract.OpCreateCommune, req)
		if err != nil {
			return location.Commune{}, err
		}
		if len(issues) > 0 {
			fields, _ := contract.FieldErrors(issues)
			return location.Commune{}, &InvalidError{Fields: fields}
		}
	}

	env, err := gateway.Post[location.Commune](ctx, c.gw, PathCreateCommune, req)
	if err != nil {
		return location.Commune{}, &Error{Code: gateway.Code(err), Message: gateway.Message(err, FallbackMessage), Err: err}
	}
	c.logger.Info("commune created", zap.Int("id", env.Data.ID), zap.String("nom", env.Data.Nom))
	return env.Data, nil
}
