package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/artifact"
	"github.com/goliatone/go-maryme/pkg/auth"
	"github.com/goliatone/go-maryme/pkg/contract"
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/gateway"
	"github.com/goliatone/go-maryme/pkg/location"
	"github.com/goliatone/go-maryme/pkg/submission"
	"github.com/goliatone/go-maryme/pkg/validation"
	"github.com/goliatone/go-maryme/pkg/wizard"
)

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuth replaces the one-time-code client.
func WithAuth(client *auth.Client) Option {
	return func(s *Session) { s.auth = client }
}

// WithLoader shares a region tree loader between sessions.
func WithLoader(loader *location.Loader) Option {
	return func(s *Session) { s.loader = loader }
}

// WithContract checks the payload against the backend description before
// submitting.
func WithContract(c *contract.Contract) Option {
	return func(s *Session) { s.contract = c }
}

// WithRenderer replaces the artifact renderer.
func WithRenderer(r *artifact.Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// Session is one declaration wizard.
type Session struct {
	id     string
	logger *zap.Logger

	gw        *gateway.Client
	auth      *auth.Client
	loader    *location.Loader
	contract  *contract.Contract
	renderer  *artifact.Renderer
	validator *validation.Validator

	mu        sync.Mutex
	draft     *declaration.Draft
	chain     *location.Chain
	coord     *wizard.Coordinator
	submitter *submission.Orchestrator

	closed  atomic.Bool
	loading atomic.Bool
	// done is cancelled by Close so calls in flight stop before committing.
	done context.Context
	stop context.CancelFunc
}

// New starts an empty session. tokens receives the bearer token obtained at
// the verification step and should back the gateway's token source.
func New(gw *gateway.Client, tokens *gateway.TokenStore, opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		gw:        gw,
		logger:    zap.NewNop(),
		validator: validation.New(),
		draft:     declaration.NewDraft(),
		chain:     location.NewChain(location.NewTree(nil)),
	}
	s.done, s.stop = context.WithCancel(context.Background())
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	if s.auth == nil {
		s.auth = auth.New(gw, tokens, auth.WithLogger(s.logger))
	}
	if s.loader == nil {
		s.loader = location.NewLoader(gw, s.logger)
	}
	if s.renderer == nil {
		r, err := artifact.NewRenderer(artifact.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.renderer = r
	}

	coord, err := wizard.New(s.buildSteps(), wizard.WithValidator(s.validator), wizard.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.coord = coord

	subOpts := []submission.Option{submission.WithLogger(s.logger), submission.WithLockout(coord)}
	if s.contract != nil {
		subOpts = append(subOpts, submission.WithChecker(s.contract))
	}
	s.submitter = submission.New(gw, subOpts...)

	s.logger.Debug("session started")
	return s, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Close ends the session. Responses still in flight are discarded.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.stop()
		s.logger.Debug("session closed")
	}
}

func (s *Session) checkOpen() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// bind derives a context that is also cancelled when the session closes.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.done, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// closedOr replaces err with ErrClosed once the session is closed.
func (s *Session) closedOr(err error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return err
}

// CurrentStep returns the active step index.
func (s *Session) CurrentStep() int { return s.coord.CurrentStep() }

// TerminalStep returns the last step index.
func (s *Session) TerminalStep() int { return s.coord.TerminalStep() }

// Step returns the step at index.
func (s *Session) Step(index int) (wizard.Step, bool) { return s.coord.Step(index) }

// Progress returns the progress segments.
func (s *Session) Progress() []wizard.Segment { return s.coord.Progress() }

// Submitted reports the read-only state.
func (s *Session) Submitted() bool { return s.coord.Submitted() }

// Values returns a copy of the current step values.
func (s *Session) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Current().Values()
}

// Set edits a field of the current step and returns its inline validation
// message, empty when the value is acceptable.
func (s *Session) Set(field, value string) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.coord.Set(field, value); err != nil {
		return "", err
	}
	step := s.coord.Current()
	return s.validator.ValidateField(step.Form, field, value), nil
}

// Validate checks the current step without moving.
func (s *Session) Validate() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Validate(s.coord.CurrentStep())
}

// Next advances one step when the current step validates and its gate passes.
func (s *Session) Next(ctx context.Context) (wizard.Transition, error) {
	if err := s.checkOpen(); err != nil {
		return wizard.Transition{}, err
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()
	tr, err := s.coord.Next(ctx)
	return tr, s.closedOr(err)
}

// Previous moves one step back.
func (s *Session) Previous() (wizard.Transition, error) {
	if err := s.checkOpen(); err != nil {
		return wizard.Transition{}, err
	}
	return s.coord.Previous()
}

// GoTo jumps to index, validating the current step when moving forward.
func (s *Session) GoTo(ctx context.Context, index int) (wizard.Transition, error) {
	if err := s.checkOpen(); err != nil {
		return wizard.Transition{}, err
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()
	tr, err := s.coord.GoTo(ctx, index)
	return tr, s.closedOr(err)
}

// Verified reports whether the current e-mail passed code verification.
func (s *Session) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Account.Verified()
}

// requestCode gates the e-mail step. An address already verified in this
// session is not sent a new code.
func (s *Session) requestCode(ctx context.Context) error {
	s.mu.Lock()
	email, verified := s.draft.Account.Email, s.draft.Account.Verified()
	s.mu.Unlock()
	if verified {
		return nil
	}
	return s.sendCode(ctx, email)
}

func (s *Session) sendCode(ctx context.Context, email string) error {
	err := s.auth.RequestCode(ctx, email)
	return s.closedOr(err)
}

// verifyCode gates the code step and records the verified address.
func (s *Session) verifyCode(ctx context.Context) error {
	s.mu.Lock()
	account := s.draft.Account
	s.mu.Unlock()
	if account.Verified() {
		return nil
	}
	_, err := s.auth.VerifyCode(ctx, account.Email, account.Code)
	if err = s.closedOr(err); err != nil {
		return err
	}
	s.mu.Lock()
	s.draft.Account.MarkVerified(account.Email)
	s.mu.Unlock()
	return nil
}

// ResendCode asks for a new code from the verification step.
func (s *Session) ResendCode(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.mu.Lock()
	email := s.draft.Account.Email
	s.mu.Unlock()
	return s.sendCode(ctx, email)
}

// LoadRegions fetches the region tree and resets the location chain.
func (s *Session) LoadRegions(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.loading.Store(false)

	tree, err := s.loader.Load(ctx)
	if err = s.closedOr(err); err != nil {
		return err
	}
	s.mu.Lock()
	if s.chain.Tree() != tree {
		s.chain.SetTree(tree)
	}
	s.mu.Unlock()
	return nil
}

// RegionOptions lists selectable regions.
func (s *Session) RegionOptions() []location.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain.RegionOptions()
}

// DepartmentOptions lists departments of the selected region, nil until a
// region is selected.
func (s *Session) DepartmentOptions() []location.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain.DepartmentOptions()
}

// CommuneOptions lists communes of the selected department, nil until a
// department is selected.
func (s *Session) CommuneOptions() []location.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain.CommuneOptions()
}

// Payload builds the aggregate from the slices and the selected commune.
func (s *Session) Payload() (declaration.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloadLocked()
}

func (s *Session) payloadLocked() (declaration.Payload, error) {
	leaf, err := s.chain.Leaf()
	if err != nil {
		return declaration.Payload{}, err
	}
	return s.draft.Payload(leaf.Commune.ID, leaf.Commune.Nom)
}

// Submit validates every step, then creates the declaration. It is only
// available on the confirmation step and succeeds at most once.
func (s *Session) Submit(ctx context.Context) (declaration.Receipt, error) {
	if err := s.checkOpen(); err != nil {
		return declaration.Receipt{}, err
	}
	if r, ok := s.submitter.Receipt(); ok {
		return r, submission.ErrAlreadySubmitted
	}
	if s.coord.CurrentStep() != s.coord.TerminalStep() {
		return declaration.Receipt{}, wizard.ErrNotTerminal
	}

	s.mu.Lock()
	if idx, res := s.coord.ValidateAll(); idx >= 0 {
		s.mu.Unlock()
		step, _ := s.coord.Step(idx)
		return declaration.Receipt{}, &ValidationError{Step: idx, Key: step.Key(), Result: res}
	}
	if !s.draft.Account.Verified() {
		s.mu.Unlock()
		step, _ := s.coord.Step(StepVerification)
		return declaration.Receipt{}, &ValidationError{Step: StepVerification, Key: step.Key(), Result: validation.Result{
			Errors: map[string]string{declaration.FieldCode: MessageUnverified},
		}}
	}
	payload, err := s.payloadLocked()
	s.mu.Unlock()
	if err != nil {
		return declaration.Receipt{}, err
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()
	receipt, err := s.submitter.Submit(ctx, payload)
	if errors.Is(err, submission.ErrInFlight) {
		return declaration.Receipt{}, ErrBusy
	}
	if err = s.closedOr(err); err != nil {
		return declaration.Receipt{}, err
	}
	return receipt, nil
}

// Receipt returns the creation receipt once submitted.
func (s *Session) Receipt() (declaration.Receipt, bool) {
	return s.submitter.Receipt()
}

// Document builds the confirmation document.
func (s *Session) Document() (artifact.Document, error) {
	receipt, ok := s.submitter.Receipt()
	if !ok {
		return artifact.Document{}, ErrNotSubmitted
	}
	return artifact.NewDocument(receipt, s.submitter.Payload())
}

// Artifact renders the confirmation document and its download name.
func (s *Session) Artifact(ctx context.Context, format artifact.Format) ([]byte, string, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.Render(ctx, doc, format)
	if err != nil {
		return nil, "", err
	}
	return data, doc.FileName(format), nil
}

// WriteArtifact renders the document into dir.
func (s *Session) WriteArtifact(ctx context.Context, dir string, format artifact.Format) (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	return s.renderer.WriteFile(ctx, dir, doc, format)
}
