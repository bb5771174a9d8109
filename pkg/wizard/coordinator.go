package wizard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/model"
	"github.com/goliatone/go-maryme/pkg/validation"
)

// Validator checks step values. *validation.Validator satisfies it.
type Validator interface {
	Validate(form model.FormModel, values map[string]string) validation.Result
}

type Option func(*Coordinator)

func WithValidator(v Validator) Option {
	return func(c *Coordinator) {
		if v != nil {
			c.validator = v
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Transition describes the outcome of a navigation request. Moved is false
// when the wizard stayed where it was; Validation then holds the failing
// result of the step that blocked the move.
type Transition struct {
	From       int
	To         int
	Moved      bool
	Validation validation.Result
}

// Segment is one entry of the progress indicator.
type Segment struct {
	Index   int
	Key     string
	Label   string
	Filled  bool
	Current bool
}

// Coordinator owns the active step index of a linear wizard. Moving forward
// requires the current step to validate and its gate to pass; moving back is
// never guarded.
type Coordinator struct {
	mu        sync.Mutex
	steps     []Step
	current   int
	submitted bool
	moving    bool

	validator Validator
	logger    *zap.Logger
}

// New builds a coordinator positioned on the first step.
func New(steps []Step, opts ...Option) (*Coordinator, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	c := &Coordinator{
		steps:     append([]Step(nil), steps...),
		validator: validation.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.logger = c.logger.Named("wizard")
	return c, nil
}

// CurrentStep returns the active index.
func (c *Coordinator) CurrentStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Current returns the active step.
func (c *Coordinator) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps[c.current]
}

// Step returns the step at index.
func (c *Coordinator) Step(index int) (Step, bool) {
	if index < 0 || index >= len(c.steps) {
		return Step{}, false
	}
	return c.steps[index], true
}

// TerminalStep returns the index of the last step.
func (c *Coordinator) TerminalStep() int {
	return len(c.steps) - 1
}

// Len returns the number of steps.
func (c *Coordinator) Len() int {
	return len(c.steps)
}

// Submitted reports whether the declaration was submitted.
func (c *Coordinator) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// Terminal reports the read-only state: terminal step and submitted.
func (c *Coordinator) Terminal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted && c.current == len(c.steps)-1
}

// Validate runs the validator for the step at index.
func (c *Coordinator) Validate(index int) validation.Result {
	step, ok := c.Step(index)
	if !ok {
		return validation.Result{Valid: false}
	}
	return c.validator.Validate(step.Form, step.Values())
}

// ValidateAll validates every step and returns the first failing index, or
// -1 when all steps are valid.
func (c *Coordinator) ValidateAll() (int, validation.Result) {
	for i := range c.steps {
		if res := c.Validate(i); !res.Valid {
			return i, res
		}
	}
	return -1, validation.Result{Valid: true}
}

// Set writes a field on the current step's slice. Edits are refused while a
// forward move is validating or gated.
func (c *Coordinator) Set(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return ErrSubmitted
	}
	if c.moving {
		return ErrBusy
	}
	step := c.steps[c.current]
	if step.Slice == nil {
		return ErrNoSlice
	}
	return step.Slice.Set(field, value)
}

// Next moves one step forward.
func (c *Coordinator) Next(ctx context.Context) (Transition, error) {
	return c.GoTo(ctx, c.CurrentStep()+1)
}

// Previous moves one step back, staying on the first step.
func (c *Coordinator) Previous() (Transition, error) {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()
	if cur == 0 {
		return Transition{From: 0, To: 0, Validation: validation.Result{Valid: true}}, c.rejectIfSubmitted()
	}
	return c.GoTo(context.Background(), cur-1)
}

func (c *Coordinator) rejectIfSubmitted() error {
	if c.Submitted() {
		return ErrSubmitted
	}
	return nil
}

// GoTo jumps to index. Indices outside [0, terminal] are rejected without
// clamping. Forward jumps validate the current step, then run its gate.
func (c *Coordinator) GoTo(ctx context.Context, index int) (Transition, error) {
	c.mu.Lock()
	from := c.current
	stay := Transition{From: from, To: from, Validation: validation.Result{Valid: true}}
	switch {
	case c.submitted:
		c.mu.Unlock()
		return stay, ErrSubmitted
	case c.moving:
		c.mu.Unlock()
		return stay, ErrBusy
	case index < 0 || index >= len(c.steps):
		c.mu.Unlock()
		return stay, fmt.Errorf("%w: %d not in [0, %d]", ErrStepOutOfRange, index, len(c.steps)-1)
	case index == from:
		c.mu.Unlock()
		return stay, nil
	case index < from:
		c.current = index
		c.mu.Unlock()
		c.logger.Debug("step back", zap.Int("from", from), zap.Int("to", index))
		return Transition{From: from, To: index, Moved: true, Validation: stay.Validation}, nil
	}
	step := c.steps[from]
	c.moving = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.moving = false
		c.mu.Unlock()
	}()

	res := c.validator.Validate(step.Form, step.Values())
	if !res.Valid {
		c.logger.Debug("step blocked by validation", zap.Int("step", from), zap.Int("errors", len(res.Errors)))
		stay.Validation = res
		return stay, nil
	}
	stay.Validation = res

	if step.Gate != nil {
		if err := step.Gate(ctx); err != nil {
			c.logger.Info("step blocked by gate", zap.Int("step", from), zap.Error(err))
			return stay, err
		}
	}
	c.mu.Lock()
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return stay, err
	}
	c.current = index
	c.mu.Unlock()
	c.logger.Debug("step forward", zap.Int("from", from), zap.Int("to", index))
	return Transition{From: from, To: index, Moved: true, Validation: res}, nil
}

// MarkSubmitted flips the submitted flag. It is only valid on the terminal
// step and only once.
func (c *Coordinator) MarkSubmitted() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return ErrSubmitted
	}
	if c.current != len(c.steps)-1 {
		return ErrNotTerminal
	}
	c.submitted = true
	return nil
}

// Progress returns one segment per step; segment k is filled iff
// k <= current.
func (c *Coordinator) Progress() []Segment {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()
	out := make([]Segment, 0, len(c.steps))
	for i, step := range c.steps {
		out = append(out, Segment{
			Index:   i,
			Key:     step.Key(),
			Label:   step.Label(),
			Filled:  i <= cur,
			Current: i == cur,
		})
	}
	return out
}
