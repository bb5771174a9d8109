package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/artifact"
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/location"
	"github.com/goliatone/go-maryme/pkg/model"
	"github.com/goliatone/go-maryme/pkg/session"
	"github.com/goliatone/go-maryme/pkg/validation"
	"github.com/goliatone/go-maryme/pkg/wizard"
)

// Wizard is the session surface the runner drives. *session.Session
// satisfies it.
type Wizard interface {
	CurrentStep() int
	Step(index int) (wizard.Step, bool)
	Progress() []wizard.Segment
	Values() map[string]string
	Set(field, value string) (string, error)
	Next(ctx context.Context) (wizard.Transition, error)
	Previous() (wizard.Transition, error)
	GoTo(ctx context.Context, index int) (wizard.Transition, error)
	Verified() bool
	ResendCode(ctx context.Context) error
	LoadRegions(ctx context.Context) error
	RegionOptions() []location.Option
	DepartmentOptions() []location.Option
	CommuneOptions() []location.Option
	Payload() (declaration.Payload, error)
	Submit(ctx context.Context) (declaration.Receipt, error)
	Artifact(ctx context.Context, format artifact.Format) ([]byte, string, error)
}

// Confirmation step actions.
const (
	ActionSubmit = "Envoyer la declaration"
	ActionEdit   = "Modifier une etape"
	ActionQuit   = "Abandonner"
)

var confirmActions = []string{ActionSubmit, ActionEdit, ActionQuit}

// Step actions.
const (
	ActionContinue = "Continuer"
	ActionBack     = "Retour"
	ActionRetry    = "Saisir un autre code"
	ActionResend   = "Recevoir un nouveau code"
)

var (
	stepActions = []string{ActionContinue, ActionBack}
	codeActions = []string{ActionRetry, ActionResend, ActionBack}
)

// Runner walks a Wizard from its current step to submission.
type Runner struct {
	wizard   Wizard
	driver   PromptDriver
	theme    Theme
	format   artifact.Format
	progress bool
	logger   *zap.Logger
}

// New builds a runner over w with the survey driver by default.
func New(w Wizard, opts ...Option) *Runner {
	r := &Runner{
		wizard:   w,
		theme:    DefaultTheme,
		format:   artifact.FormatTerminal,
		progress: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	r.logger = r.logger.Named("tui")
	return r
}

// Run prompts until the declaration is accepted, the user quits or ctx ends.
func (r *Runner) Run(ctx context.Context) (declaration.Receipt, error) {
	for {
		if err := ctx.Err(); err != nil {
			return declaration.Receipt{}, err
		}
		if r.progress {
			if err := r.driver.Info(ctx, ProgressBar(r.wizard.Progress())); err != nil {
				return declaration.Receipt{}, err
			}
		}

		index := r.wizard.CurrentStep()
		step, _ := r.wizard.Step(index)
		if index == session.StepConfirmation {
			receipt, done, err := r.confirm(ctx, step)
			if err != nil || done {
				return receipt, err
			}
			continue
		}

		// A verified address keeps its code on revisits.
		if index != session.StepVerification || !r.wizard.Verified() {
			if err := r.fill(ctx, step); err != nil {
				return declaration.Receipt{}, err
			}
		}
		if index > session.StepAuthentication {
			back, err := r.chooseBack(ctx, step)
			if err != nil {
				return declaration.Receipt{}, err
			}
			if back {
				continue
			}
		}
		tr, err := r.wizard.Next(ctx)
		if err != nil {
			if fatal(err) {
				return declaration.Receipt{}, err
			}
			if err := r.fail(ctx, err.Error()); err != nil {
				return declaration.Receipt{}, err
			}
			if index == session.StepVerification {
				if err := r.recoverCode(ctx); err != nil {
					return declaration.Receipt{}, err
				}
			}
			continue
		}
		if !tr.Moved {
			if err := r.reportValidation(ctx, step.Form, tr.Validation); err != nil {
				return declaration.Receipt{}, err
			}
		}
	}
}

// fill prompts every field of a data step, repeating a field until its
// inline message clears.
func (r *Runner) fill(ctx context.Context, step wizard.Step) error {
	if step.Form.Description != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+step.Form.Description); err != nil {
			return err
		}
	}
	for _, field := range step.Form.Fields {
		for {
			value, err := r.ask(ctx, field, r.wizard.Values()[field.Name])
			if err != nil {
				return err
			}
			msg, err := r.wizard.Set(field.Name, value)
			if err != nil {
				return err
			}
			if msg == "" {
				break
			}
			if err := r.fail(ctx, fmt.Sprintf("%s: %s", displayLabel(field), msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, field model.Field, current string) (string, error) {
	cfg := InputConfig{Message: displayLabel(field), Default: current, Help: displayHelp(field)}
	switch field.Format {
	case model.FormatCode, model.FormatPassword:
		return r.driver.Password(ctx, cfg)
	}
	return r.driver.Input(ctx, cfg)
}

// chooseBack asks whether to continue or return to the previous step, and
// moves back when asked.
func (r *Runner) chooseBack(ctx context.Context, step wizard.Step) (bool, error) {
	choice, err := r.driver.Select(ctx, SelectConfig{Message: step.Label(), Options: stepActions})
	if err != nil {
		return false, err
	}
	switch pick(stepActions, choice) {
	case ActionContinue:
		return false, nil
	case ActionBack:
		_, err := r.wizard.Previous()
		return err == nil, err
	}
	return false, ErrNoSelection
}

// recoverCode follows a rejected code: type another one, ask for a new one,
// or go back to correct the address.
func (r *Runner) recoverCode(ctx context.Context) error {
	choice, err := r.driver.Select(ctx, SelectConfig{Message: "Code refuse", Options: codeActions})
	if err != nil {
		return err
	}
	switch pick(codeActions, choice) {
	case ActionRetry:
		return nil
	case ActionResend:
		return r.resend(ctx)
	case ActionBack:
		_, err := r.wizard.Previous()
		return err
	}
	return ErrNoSelection
}

func (r *Runner) resend(ctx context.Context) error {
	if err := r.wizard.ResendCode(ctx); err != nil {
		if fatal(err) {
			return err
		}
		return r.fail(ctx, err.Error())
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+"Un nouveau code a ete envoye.")
}

// confirm runs the location selectors, shows the summary and performs the
// chosen action. done is true once the declaration is accepted.
func (r *Runner) confirm(ctx context.Context, step wizard.Step) (declaration.Receipt, bool, error) {
	if err := r.wizard.LoadRegions(ctx); err != nil {
		if fatal(err) {
			return declaration.Receipt{}, false, err
		}
		return declaration.Receipt{}, false, r.retryOrAbort(ctx, err)
	}
	if err := r.selectLocation(ctx); err != nil {
		return declaration.Receipt{}, false, err
	}
	payload, err := r.wizard.Payload()
	if err != nil {
		return declaration.Receipt{}, false, err
	}
	if err := r.summarize(ctx, payload); err != nil {
		return declaration.Receipt{}, false, err
	}

	choice, err := r.driver.Select(ctx, SelectConfig{Message: step.Label(), Options: confirmActions})
	if err != nil {
		return declaration.Receipt{}, false, err
	}
	switch pick(confirmActions, choice) {
	case ActionSubmit:
		return r.submit(ctx)
	case ActionEdit:
		return declaration.Receipt{}, false, r.edit(ctx)
	case ActionQuit:
		return declaration.Receipt{}, false, ErrAborted
	}
	return declaration.Receipt{}, false, ErrNoSelection
}

func (r *Runner) retryOrAbort(ctx context.Context, cause error) error {
	if err := r.fail(ctx, cause.Error()); err != nil {
		return err
	}
	again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Reessayer ?", Default: true})
	if err != nil {
		return err
	}
	if !again {
		return ErrAborted
	}
	return nil
}

func (r *Runner) submit(ctx context.Context) (declaration.Receipt, bool, error) {
	receipt, err := r.wizard.Submit(ctx)
	var invalid *session.ValidationError
	switch {
	case errors.As(err, &invalid):
		r.logger.Info("submission blocked by step", zap.Int("step", invalid.Step))
		if _, err := r.wizard.GoTo(ctx, invalid.Step); err != nil {
			return declaration.Receipt{}, false, err
		}
		step, _ := r.wizard.Step(invalid.Step)
		return declaration.Receipt{}, false, r.reportValidation(ctx, step.Form, invalid.Result)
	case err != nil && !fatal(err):
		return declaration.Receipt{}, false, r.fail(ctx, err.Error())
	case err != nil:
		return declaration.Receipt{}, false, err
	}

	out, name, err := r.wizard.Artifact(ctx, r.format)
	if err != nil {
		return receipt, true, err
	}
	r.logger.Debug("confirmation rendered", zap.String("file", name))
	return receipt, true, r.driver.Info(ctx, string(out))
}

// edit jumps back to a data step.
func (r *Runner) edit(ctx context.Context) error {
	var labels []string
	var indices []int
	for i := session.StepSpouses; i < session.StepConfirmation; i++ {
		step, ok := r.wizard.Step(i)
		if !ok {
			continue
		}
		labels = append(labels, step.Label())
		indices = append(indices, i)
	}
	choice, err := r.driver.Select(ctx, SelectConfig{Message: ActionEdit, Options: labels})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(indices) {
		return ErrNoSelection
	}
	_, err = r.wizard.GoTo(ctx, indices[choice])
	return err
}

// selectLocation prompts the region, then the department, then the commune.
// Each list comes from the selection above it.
func (r *Runner) selectLocation(ctx context.Context) error {
	levels := []struct {
		field   string
		label   string
		options func() []location.Option
	}{
		{location.FieldRegion, "Region", r.wizard.RegionOptions},
		{location.FieldDepartment, "Departement", r.wizard.DepartmentOptions},
		{location.FieldCommune, "Commune", r.wizard.CommuneOptions},
	}
	for _, level := range levels {
		options := level.options()
		if len(options) == 0 {
			return ErrNoCommunes
		}
		labels := make([]string, len(options))
		current := -1
		selected := r.wizard.Values()[level.field]
		for i, o := range options {
			labels[i] = o.Label
			if strconv.Itoa(o.ID) == selected {
				current = i
			}
		}
		choice, err := r.driver.Select(ctx, SelectConfig{Message: level.label, Options: labels, DefaultIndex: current, PageSize: 10})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(options) {
			return ErrNoSelection
		}
		if _, err := r.wizard.Set(level.field, strconv.Itoa(options[choice].ID)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) summarize(ctx context.Context, p declaration.Payload) error {
	lines := []string{
		"Recapitulatif",
		"  Epoux: " + p.Epoux.FullName(),
		"  Epouse: " + p.Epouse.FullName(),
		"  Temoins: " + p.Temoins[0].FullName() + ", " + p.Temoins[1].FullName(),
		"  Officier celebrant: " + p.Celebrant.FullName(),
		"  Date: " + p.DateMariage,
		"  Commune: " + p.NomCommune,
	}
	if p.LieuMariage != "" {
		lines = append(lines, "  Lieu: "+p.LieuMariage)
	}
	for _, line := range lines {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

// reportValidation prints field messages in form order.
func (r *Runner) reportValidation(ctx context.Context, form model.FormModel, res validation.Result) error {
	names := res.Fields(form)
	if len(names) == 0 {
		for name := range res.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		label := name
		if field, ok := form.Field(name); ok {
			label = displayLabel(field)
		}
		if err := r.fail(ctx, fmt.Sprintf("%s: %s", label, res.Errors[name])); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

// fatal reports errors that end the run rather than being shown inline.
func fatal(err error) bool {
	return errors.Is(err, ErrAborted) ||
		errors.Is(err, session.ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func pick(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return options[index]
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}
