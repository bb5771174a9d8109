package submission

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/contract"
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/gateway"
)

// PathCreate is the creation endpoint.
const PathCreate = "declaration/create"

// Checker validates a request body before it is sent. *contract.Contract
// satisfies it.
type Checker interface {
	CheckRequest(operationID string, body any) ([]contract.Issue, error)
}

// Lockout is flipped once the backend accepted the declaration.
// *wizard.Coordinator satisfies it.
type Lockout interface {
	MarkSubmitted() error
}

type Option func(*Orchestrator)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithChecker validates payloads against the backend description before the
// network call.
func WithChecker(c Checker) Option {
	return func(o *Orchestrator) { o.checker = c }
}

// WithLockout registers the wizard state flipped on success.
func WithLockout(l Lockout) Option {
	return func(o *Orchestrator) { o.lockout = l }
}

// WithPath overrides the creation endpoint.
func WithPath(path string) Option {
	return func(o *Orchestrator) {
		if path != "" {
			o.path = path
		}
	}
}

// Orchestrator sends the aggregate payload exactly once per session. After a
// successful call the receipt is kept and further submissions are refused on
// the client side.
type Orchestrator struct {
	gw      *gateway.Client
	checker Checker
	lockout Lockout
	logger  *zap.Logger
	path    string

	inflight atomic.Bool

	mu      sync.Mutex
	receipt *declaration.Receipt
	payload declaration.Payload
}

func New(gw *gateway.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gw:     gw,
		logger: zap.NewNop(),
		path:   PathCreate,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.logger = o.logger.Named("submission")
	return o
}

// Submit creates the declaration. A second call after success returns the
// stored receipt with ErrAlreadySubmitted and performs no request; a call made
// while another is outstanding returns ErrInFlight. Backend rejections leave
// the orchestrator ready for another attempt.
func (o *Orchestrator) Submit(ctx context.Context, payload declaration.Payload) (declaration.Receipt, error) {
	if r, ok := o.Receipt(); ok {
		return r, ErrAlreadySubmitted
	}
	if !o.inflight.CompareAndSwap(false, true) {
		return declaration.Receipt{}, ErrInFlight
	}
	defer o.inflight.Store(false)
	if r, ok := o.Receipt(); ok {
		return r, ErrAlreadySubmitted
	}

	if o.checker != nil {
		issues, err := o.checker.CheckRequest(contract.OpCreateDeclaration, payload)
		if err != nil {
			return declaration.Receipt{}, err
		}
		if len(issues) > 0 {
			o.logger.Info("payload rejected by contract", zap.Int("issues", len(issues)))
			return declaration.Receipt{}, &ContractError{Issues: issues}
		}
	}

	env, err := gateway.Post[declaration.Receipt](ctx, o.gw, o.path, payload)
	if err != nil {
		code := gateway.Code(err)
		o.logger.Info("submission rejected", zap.String("code", code), zap.Error(err))
		return declaration.Receipt{}, &Error{Code: code, Message: gateway.Message(err, FallbackMessage), Err: err}
	}
	if env.Data.ID <= 0 {
		return declaration.Receipt{}, &Error{Message: FallbackMessage, Err: ErrMissingID}
	}

	receipt := env.Data
	o.mu.Lock()
	if err := ctx.Err(); err != nil {
		o.mu.Unlock()
		o.logger.Warn("late receipt discarded", zap.Int("id", receipt.ID), zap.Error(err))
		return declaration.Receipt{}, err
	}
	o.receipt = &receipt
	o.payload = payload
	o.mu.Unlock()

	if o.lockout != nil {
		if err := o.lockout.MarkSubmitted(); err != nil {
			o.logger.Warn("lockout not applied", zap.Error(err))
		}
	}
	o.logger.Info("declaration created", zap.Int("id", receipt.ID))
	return receipt, nil
}

// Receipt returns the stored receipt once a submission succeeded.
func (o *Orchestrator) Receipt() (declaration.Receipt, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.receipt == nil {
		return declaration.Receipt{}, false
	}
	return *o.receipt, true
}

// Payload returns the submitted payload, zero until Receipt reports true.
func (o *Orchestrator) Payload() declaration.Payload {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.payload
}

// Submitted reports whether a submission succeeded.
func (o *Orchestrator) Submitted() bool {
	_, ok := o.Receipt()
	return ok
}

// InFlight reports whether a submission is outstanding.
func (o *Orchestrator) InFlight() bool {
	return o.inflight.Load()
}
