package wizard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-maryme/pkg/model"
)

// Slice is the step-scoped data a step edits.
type Slice interface {
	Values() map[string]string
	Set(field, value string) error
}

// Gate runs after a step validates and before the coordinator leaves it
// forward, e.g. to request or verify a one-time code. A non-nil error keeps
// the wizard on the step.
type Gate func(ctx context.Context) error

// Step binds a form to the slice it fills.
type Step struct {
	Form  model.FormModel
	Slice Slice
	Gate  Gate
}

// Key returns the form key.
func (s Step) Key() string { return s.Form.Key }

// Label returns the form title, falling back to the key.
func (s Step) Label() string {
	if s.Form.Title != "" {
		return s.Form.Title
	}
	return s.Form.Key
}

// Values returns the slice values, empty when the step has no slice.
func (s Step) Values() map[string]string {
	if s.Slice == nil {
		return map[string]string{}
	}
	return s.Slice.Values()
}

type composite []Slice

// Compose merges several slices into one. Values are merged in order and Set
// goes to the first slice that owns the field.
func Compose(slices ...Slice) Slice {
	out := make(composite, 0, len(slices))
	for _, s := range slices {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c composite) Values() map[string]string {
	out := make(map[string]string)
	for _, s := range c {
		for k, v := range s.Values() {
			out[k] = v
		}
	}
	return out
}

func (c composite) Set(field, value string) error {
	for _, s := range c {
		if _, owned := s.Values()[field]; owned {
			return s.Set(field, value)
		}
	}
	return fmt.Errorf("wizard: no slice owns field %q", field)
}
