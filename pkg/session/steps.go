package session

import (
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/wizard"
)

// Step indices of the declaration wizard.
const (
	StepAuthentication = iota
	StepVerification
	StepSpouses
	StepWitnesses
	StepCeremony
	StepConfirmation
)

func (s *Session) buildSteps() []wizard.Step {
	return []wizard.Step{
		StepAuthentication: {Form: declaration.EmailForm(), Slice: &s.draft.Account, Gate: s.requestCode},
		StepVerification:   {Form: declaration.CodeForm(), Slice: &s.draft.Account, Gate: s.verifyCode},
		StepSpouses:        {Form: declaration.SpousesForm(), Slice: &s.draft.Spouses},
		StepWitnesses:      {Form: declaration.WitnessesForm(), Slice: &s.draft.Witnesses},
		StepCeremony:       {Form: declaration.CeremonyForm(), Slice: wizard.Compose(&s.draft.Officiant, &s.draft.Venue)},
		StepConfirmation:   {Form: declaration.LocationForm(), Slice: s.chain},
	}
}
