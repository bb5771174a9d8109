package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maryme/pkg/model"
)

type mapSlice map[string]string

func (m mapSlice) Values() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m mapSlice) Set(field, value string) error {
	if _, ok := m[field]; !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	m[field] = value
	return nil
}

func requiredStep(key string, slice mapSlice) Step {
	form := model.FormModel{Key: key, Title: "Step " + key}
	for name := range slice {
		form.Fields = append(form.Fields, model.Field{Name: name, Required: true})
	}
	return Step{Form: form, Slice: slice}
}

func newWizard(t *testing.T, steps ...Step) *Coordinator {
	t.Helper()
	c, err := New(steps)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return c
}

func threeSteps() (*mapSlice, []Step) {
	a := mapSlice{"a": ""}
	b := mapSlice{"b": ""}
	z := mapSlice{"z": ""}
	return &a, []Step{requiredStep("a", a), requiredStep("b", b), requiredStep("z", z)}
}

func TestGoTo_ForwardRequiresValidCurrentStep(t *testing.T) {
	_, steps := threeSteps()
	c := newWizard(t, steps...)

	tr, err := c.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if tr.Moved || c.CurrentStep() != 0 {
		t.Fatalf("invalid step must block, got %+v", tr)
	}
	if tr.Validation.Valid || tr.Validation.Error("a") == "" {
		t.Fatalf("expected reported validation failure, got %+v", tr.Validation)
	}

	if err := c.Set("a", "filled"); err != nil {
		t.Fatalf("set: %v", err)
	}
	tr, err = c.GoTo(context.Background(), 2)
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	if !tr.Moved || c.CurrentStep() != 2 {
		t.Fatalf("valid step should allow jump, got %+v", tr)
	}
}

func TestGoTo_BackwardIsUnguarded(t *testing.T) {
	a, steps := threeSteps()
	(*a)["a"] = "x"
	c := newWizard(t, steps...)
	if _, err := c.Next(context.Background()); err != nil {
		t.Fatalf("next: %v", err)
	}
	(*a)["a"] = ""

	tr, err := c.Previous()
	if err != nil || !tr.Moved || c.CurrentStep() != 0 {
		t.Fatalf("previous should land on 0 even with invalid data, got %+v %v", tr, err)
	}

	tr, err = c.Previous()
	if err != nil || tr.Moved {
		t.Fatalf("previous on first step must be a floored no-op, got %+v %v", tr, err)
	}
}

func TestGoTo_OutOfRangeIsNoOp(t *testing.T) {
	_, steps := threeSteps()
	c := newWizard(t, steps...)

	for _, idx := range []int{-1, c.TerminalStep() + 1, 99} {
		_, err := c.GoTo(context.Background(), idx)
		if !errors.Is(err, ErrStepOutOfRange) {
			t.Fatalf("index %d: expected ErrStepOutOfRange, got %v", idx, err)
		}
		if c.CurrentStep() != 0 {
			t.Fatalf("index %d: current step changed to %d", idx, c.CurrentStep())
		}
	}
}

func TestGate_FailureKeepsStep(t *testing.T) {
	gateErr := errors.New("Votre code a expire")
	calls := 0
	s := mapSlice{"otp": "123456"}
	steps := []Step{
		{Form: model.FormModel{Key: "otp", Fields: []model.Field{{Name: "otp", Required: true}}}, Slice: s, Gate: func(context.Context) error {
			calls++
			if calls == 1 {
				return gateErr
			}
			return nil
		}},
		requiredStep("next", mapSlice{"n": ""}),
	}
	c := newWizard(t, steps...)

	_, err := c.Next(context.Background())
	if !errors.Is(err, gateErr) || c.CurrentStep() != 0 {
		t.Fatalf("gate error must keep step, err=%v step=%d", err, c.CurrentStep())
	}
	if _, err := c.Next(context.Background()); err != nil || c.CurrentStep() != 1 {
		t.Fatalf("second attempt should pass, err=%v step=%d", err, c.CurrentStep())
	}
}

func TestGate_CancelledDuringGateKeepsStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	steps := []Step{
		{Form: model.FormModel{Key: "email", Fields: []model.Field{{Name: "email", Required: true}}}, Slice: mapSlice{"email": "a@example.sn"}, Gate: func(context.Context) error {
			cancel()
			return nil
		}},
		requiredStep("b", mapSlice{"b": ""}),
	}
	c := newWizard(t, steps...)

	tr, err := c.Next(ctx)
	if !errors.Is(err, context.Canceled) || tr.Moved || c.CurrentStep() != 0 {
		t.Fatalf("cancelled move must not commit, moved=%v err=%v step=%d", tr.Moved, err, c.CurrentStep())
	}
}

func TestGate_NotRunWhenInvalid(t *testing.T) {
	ran := false
	steps := []Step{
		{Form: model.FormModel{Key: "email", Fields: []model.Field{{Name: "email", Required: true}}}, Slice: mapSlice{"email": ""}, Gate: func(context.Context) error {
			ran = true
			return nil
		}},
		requiredStep("b", mapSlice{"b": ""}),
	}
	c := newWizard(t, steps...)
	_, _ = c.Next(context.Background())
	if ran {
		t.Fatalf("gate must not run for an invalid step")
	}
}

func TestMarkSubmitted_LocksNavigation(t *testing.T) {
	_, steps := threeSteps()
	c := newWizard(t, steps...)

	if err := c.MarkSubmitted(); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
	_ = c.Set("a", "x")
	if _, err := c.GoTo(context.Background(), c.TerminalStep()); err != nil {
		t.Fatalf("jump to terminal: %v", err)
	}
	if err := c.MarkSubmitted(); err != nil {
		t.Fatalf("mark submitted: %v", err)
	}
	if !c.Terminal() {
		t.Fatalf("expected terminal state")
	}
	if err := c.MarkSubmitted(); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("second mark should fail, got %v", err)
	}
	if _, err := c.Previous(); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("previous after submit: %v", err)
	}
	if _, err := c.GoTo(context.Background(), 0); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("goto after submit: %v", err)
	}
	if err := c.Set("z", "edit"); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("edit after submit: %v", err)
	}
	if c.CurrentStep() != c.TerminalStep() {
		t.Fatalf("step moved after submit")
	}
}

func TestProgress_FillsUpToCurrent(t *testing.T) {
	a, steps := threeSteps()
	(*a)["a"] = "x"
	c := newWizard(t, steps...)
	_, _ = c.Next(context.Background())

	var filled []bool
	for _, seg := range c.Progress() {
		filled = append(filled, seg.Filled)
	}
	if diff := cmp.Diff([]bool{true, true, false}, filled); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if seg := c.Progress()[1]; !seg.Current || seg.Label != "Step b" {
		t.Fatalf("unexpected current segment %+v", seg)
	}
}

func TestCompose_RoutesToOwner(t *testing.T) {
	first := mapSlice{"x": "1"}
	second := mapSlice{"y": "2"}
	s := Compose(first, nil, second)

	if err := s.Set("y", "3"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"x": "1", "y": "3"}, s.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if err := s.Set("z", "0"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestNew_RequiresSteps(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}
