package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maryme/pkg/artifact"
	"github.com/goliatone/go-maryme/pkg/auth"
	"github.com/goliatone/go-maryme/pkg/contract"
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/gateway"
	"github.com/goliatone/go-maryme/pkg/location"
	"github.com/goliatone/go-maryme/pkg/session"
	"github.com/goliatone/go-maryme/pkg/submission"
	"github.com/goliatone/go-maryme/pkg/testsupport"
	"github.com/goliatone/go-maryme/pkg/wizard"
)

func scriptedBackend(t *testing.T) *testsupport.Backend {
	t.Helper()
	b := testsupport.NewBackend(t)
	b.Reply(http.MethodGet, location.RegionsPath, http.StatusOK, testsupport.Data(testsupport.Regions()))
	b.Reply(http.MethodPost, "user/auth/token", http.StatusOK, testsupport.Data(nil))
	b.Handle(http.MethodPost, "user/auth/login", func(req testsupport.Request) (int, any) {
		var body map[string]string
		_ = json.Unmarshal(req.Body, &body)
		if body["otp"] == "000000" {
			return http.StatusOK, testsupport.Failure("EXPIRED TOKEN", "")
		}
		return http.StatusOK, testsupport.Data(map[string]string{"token": "jwt-abc"})
	})
	b.Reply(http.MethodPost, submission.PathCreate, http.StatusOK, testsupport.Data(map[string]int{"id": 42}))
	return b
}

func newSession(t *testing.T, b *testsupport.Backend, opts ...func(*gateway.Client, *gateway.TokenStore) session.Option) *session.Session {
	t.Helper()
	tokens := &gateway.TokenStore{}
	gw := b.Gateway(gateway.WithTokenSource(tokens))
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	sessionOpts := []session.Option{session.WithContract(c)}
	for _, opt := range opts {
		sessionOpts = append(sessionOpts, opt(gw, tokens))
	}
	s, err := session.New(gw, tokens, sessionOpts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func set(t *testing.T, s *session.Session, field, value string) {
	t.Helper()
	msg, err := s.Set(field, value)
	if err != nil {
		t.Fatalf("set %s: %v", field, err)
	}
	if msg != "" {
		t.Fatalf("set %s=%q: unexpected inline message %q", field, value, msg)
	}
}

// fillStep writes every fixture value the current step owns.
func fillStep(t *testing.T, s *session.Session) {
	t.Helper()
	step, _ := s.Step(s.CurrentStep())
	values := testsupport.StepValues()
	for _, f := range step.Form.Fields {
		if v, ok := values[f.Name]; ok {
			set(t, s, f.Name, v)
		}
	}
}

func next(t *testing.T, s *session.Session) {
	t.Helper()
	from := s.CurrentStep()
	tr, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("next from %d: %v", from, err)
	}
	if !tr.Moved {
		t.Fatalf("step %d blocked: %v", from, tr.Validation.Errors)
	}
}

func authenticate(t *testing.T, s *session.Session, code string) error {
	t.Helper()
	set(t, s, declaration.FieldEmail, "awa@example.sn")
	next(t, s)
	set(t, s, declaration.FieldCode, code)
	_, err := s.Next(context.Background())
	return err
}

// walkToConfirmation fills the data steps and selects region 1, department 2,
// commune 5.
func walkToConfirmation(t *testing.T, s *session.Session) {
	t.Helper()
	if err := authenticate(t, s, "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	for s.CurrentStep() < session.StepConfirmation {
		fillStep(t, s)
		next(t, s)
	}
	if err := s.LoadRegions(context.Background()); err != nil {
		t.Fatalf("regions: %v", err)
	}
	set(t, s, location.FieldRegion, "1")
	set(t, s, location.FieldDepartment, "2")
	set(t, s, location.FieldCommune, "5")
}

func TestSession_LocationChainFeedsPayload(t *testing.T) {
	s := newSession(t, scriptedBackend(t))
	walkToConfirmation(t, s)

	var labels []string
	for _, o := range s.CommuneOptions() {
		labels = append(labels, o.Label)
	}
	if diff := cmp.Diff([]string{"Thiaroye", "Guinaw Rails"}, labels); diff != "" {
		t.Fatalf("commune options (-want +got):\n%s", diff)
	}

	payload, err := s.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.IDCommune != 5 || payload.NomCommune != "Thiaroye" {
		t.Fatalf("unexpected commune %d %q", payload.IDCommune, payload.NomCommune)
	}

	set(t, s, location.FieldRegion, "1")
	if got := s.Values(); got[location.FieldCommune] != "" || got[location.FieldDepartment] != "" {
		t.Fatalf("reselecting the region must clear children, got %v", got)
	}
	if _, err := s.Payload(); err == nil {
		t.Fatalf("payload without commune should fail")
	}
}

func TestSession_ExpiredCodeKeepsStep(t *testing.T) {
	b := scriptedBackend(t)
	s := newSession(t, b)

	err := authenticate(t, s, "000000")
	if err == nil || err.Error() != "Votre code a expire" {
		t.Fatalf("expected expiry message, got %v", err)
	}
	if s.CurrentStep() != session.StepVerification {
		t.Fatalf("step = %d, want verification", s.CurrentStep())
	}

	set(t, s, declaration.FieldCode, "654321")
	next(t, s)
	if s.CurrentStep() != session.StepSpouses {
		t.Fatalf("step = %d, want spouses", s.CurrentStep())
	}
	if got := b.Hits(http.MethodPost, "user/auth/login"); got != 2 {
		t.Fatalf("verify hits = %d", got)
	}
}

func TestSession_InlineValidation(t *testing.T) {
	s := newSession(t, scriptedBackend(t))
	msg, err := s.Set(declaration.FieldEmail, "not-an-email")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected inline message for invalid e-mail")
	}
	tr, err := s.Next(context.Background())
	if err != nil || tr.Moved {
		t.Fatalf("invalid e-mail must block without error, got %+v %v", tr, err)
	}
}

func TestSession_SubmitOnceThenReadOnly(t *testing.T) {
	b := scriptedBackend(t)
	s := newSession(t, b)
	walkToConfirmation(t, s)

	receipt, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.ID != 42 || !s.Submitted() {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	req, ok := b.Last(http.MethodPost, submission.PathCreate)
	if !ok {
		t.Fatalf("create not called")
	}
	if got := req.Header.Get("Authorization"); got != "Bearer jwt-abc" {
		t.Fatalf("authorization = %q", got)
	}
	var sent declaration.Payload
	req.Decode(t, &sent)
	if sent.IDCommune != 5 || sent.NomCommune != "Thiaroye" || len(sent.Temoins) != 2 {
		t.Fatalf("unexpected payload %+v", sent)
	}

	again, err := s.Submit(context.Background())
	if !errors.Is(err, submission.ErrAlreadySubmitted) || again.ID != 42 {
		t.Fatalf("second submit: %+v %v", again, err)
	}
	if got := b.Hits(http.MethodPost, submission.PathCreate); got != 1 {
		t.Fatalf("create hits = %d", got)
	}

	if _, err := s.Previous(); !errors.Is(err, wizard.ErrSubmitted) {
		t.Fatalf("previous after submit: %v", err)
	}
	if _, err := s.Set(location.FieldCommune, "6"); !errors.Is(err, wizard.ErrSubmitted) {
		t.Fatalf("edit after submit: %v", err)
	}

	md, name, err := s.Artifact(context.Background(), artifact.FormatMarkdown)
	if err != nil {
		t.Fatalf("artifact: %v", err)
	}
	if name != "declaration-42.md" || !strings.Contains(string(md), "Declaration No: 42") {
		t.Fatalf("unexpected artifact %q:\n%s", name, md)
	}
}

func TestSession_SubmitRequiresTerminalStep(t *testing.T) {
	s := newSession(t, scriptedBackend(t))
	if _, err := s.Submit(context.Background()); !errors.Is(err, wizard.ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
	if _, _, err := s.Artifact(context.Background(), artifact.FormatHTML); !errors.Is(err, session.ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}
}

func TestSession_SubmitFailureAllowsRetry(t *testing.T) {
	b := scriptedBackend(t)
	fail := true
	b.Handle(http.MethodPost, submission.PathCreate, func(testsupport.Request) (int, any) {
		if fail {
			return http.StatusOK, testsupport.Failure("", "Commune fermee")
		}
		return http.StatusOK, testsupport.Data(map[string]int{"id": 7})
	})
	s := newSession(t, b)
	walkToConfirmation(t, s)

	if _, err := s.Submit(context.Background()); err == nil || err.Error() != "Commune fermee" {
		t.Fatalf("expected backend message, got %v", err)
	}
	if s.Submitted() {
		t.Fatalf("failure must not lock the wizard")
	}
	fail = false
	if r, err := s.Submit(context.Background()); err != nil || r.ID != 7 {
		t.Fatalf("retry: %+v %v", r, err)
	}
}

func TestSession_ClosedRejectsCalls(t *testing.T) {
	s := newSession(t, scriptedBackend(t))
	s.Close()

	if _, err := s.Set(declaration.FieldEmail, "a@example.sn"); !errors.Is(err, session.ErrClosed) {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Next(context.Background()); !errors.Is(err, session.ErrClosed) {
		t.Fatalf("next: %v", err)
	}
	if err := s.LoadRegions(context.Background()); !errors.Is(err, session.ErrClosed) {
		t.Fatalf("regions: %v", err)
	}
}

func TestSession_CloseDiscardsLateResponse(t *testing.T) {
	b := scriptedBackend(t)
	var s *session.Session
	b.Handle(http.MethodPost, "user/auth/token", func(testsupport.Request) (int, any) {
		s.Close()
		return http.StatusOK, testsupport.Data(nil)
	})
	s = newSession(t, b)
	set(t, s, declaration.FieldEmail, "awa@example.sn")

	if _, err := s.Next(context.Background()); !errors.Is(err, session.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if s.CurrentStep() != session.StepAuthentication {
		t.Fatalf("late response must not move the wizard")
	}
}

// fastResend lets the same address ask for codes without delay.
func fastResend(gw *gateway.Client, tokens *gateway.TokenStore) session.Option {
	return session.WithAuth(auth.New(gw, tokens, auth.WithResendInterval(time.Nanosecond)))
}

// expectedPayload is the aggregate built from testsupport.StepValues with
// commune 5.
func expectedPayload() declaration.Payload {
	return declaration.Payload{
		Email:       "awa@example.sn",
		Celebrant:   testsupport.Person("Ndiaye"),
		Epoux:       testsupport.Person("Sarr"),
		Epouse:      testsupport.Person("Fall"),
		Temoins:     []declaration.Person{testsupport.Person("Ba"), testsupport.Person("Diop")},
		DateMariage: "2026-12-12",
		LieuMariage: "Mairie de Thiaroye",
		IDCommune:   5,
		NomCommune:  "Thiaroye",
	}
}

func TestSession_RevisitingVerifiedEmailSkipsCodeFlow(t *testing.T) {
	b := scriptedBackend(t)
	s := newSession(t, b)
	if err := authenticate(t, s, "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !s.Verified() {
		t.Fatalf("expected verified session")
	}

	for range 2 {
		if _, err := s.Previous(); err != nil {
			t.Fatalf("previous: %v", err)
		}
	}
	if s.CurrentStep() != session.StepAuthentication || !s.Validate().Valid {
		t.Fatalf("step = %d valid = %v", s.CurrentStep(), s.Validate().Valid)
	}

	next(t, s)
	next(t, s)
	if s.CurrentStep() != session.StepSpouses {
		t.Fatalf("step = %d, want spouses", s.CurrentStep())
	}
	if got := b.Hits(http.MethodPost, "user/auth/token"); got != 1 {
		t.Fatalf("code requests = %d, want 1", got)
	}
	if got := b.Hits(http.MethodPost, "user/auth/login"); got != 1 {
		t.Fatalf("verifications = %d, want 1", got)
	}
}

func TestSession_EmailChangeRequiresNewCode(t *testing.T) {
	b := scriptedBackend(t)
	s := newSession(t, b, fastResend)
	if err := authenticate(t, s, "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := s.GoTo(context.Background(), session.StepAuthentication); err != nil {
		t.Fatalf("goto: %v", err)
	}
	set(t, s, declaration.FieldEmail, "fatou@example.sn")
	if s.Verified() {
		t.Fatalf("a new address must not inherit verification")
	}
	next(t, s)
	if got := b.Hits(http.MethodPost, "user/auth/token"); got != 2 {
		t.Fatalf("code requests = %d, want 2", got)
	}
	req, _ := b.Last(http.MethodPost, "user/auth/token")
	var body map[string]string
	req.Decode(t, &body)
	if body["email"] != "fatou@example.sn" {
		t.Fatalf("code sent to %q", body["email"])
	}
}

func TestSession_SubmitRequiresVerifiedEmail(t *testing.T) {
	b := scriptedBackend(t)
	s := newSession(t, b, fastResend)

	if err := authenticate(t, s, "000000"); err == nil {
		t.Fatalf("expected verification failure")
	}
	if _, err := s.Previous(); err != nil {
		t.Fatalf("previous: %v", err)
	}
	tr, err := s.GoTo(context.Background(), session.StepSpouses)
	if err != nil || !tr.Moved {
		t.Fatalf("jump: %+v %v", tr, err)
	}
	for s.CurrentStep() < session.StepConfirmation {
		fillStep(t, s)
		next(t, s)
	}
	if err := s.LoadRegions(context.Background()); err != nil {
		t.Fatalf("regions: %v", err)
	}
	set(t, s, location.FieldRegion, "1")
	set(t, s, location.FieldDepartment, "2")
	set(t, s, location.FieldCommune, "5")

	_, err = s.Submit(context.Background())
	var invalid *session.ValidationError
	if !errors.As(err, &invalid) || invalid.Step != session.StepVerification {
		t.Fatalf("expected verification step error, got %v", err)
	}
	if invalid.Result.Error(declaration.FieldCode) != session.MessageUnverified {
		t.Fatalf("unexpected result %+v", invalid.Result)
	}
	if got := b.Hits(http.MethodPost, submission.PathCreate); got != 0 {
		t.Fatalf("unverified declaration must not be sent, hits = %d", got)
	}
}

func TestSession_PayloadRoundTrip(t *testing.T) {
	b := scriptedBackend(t)
	s := newSession(t, b)
	walkToConfirmation(t, s)

	got, err := s.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if diff := cmp.Diff(expectedPayload(), got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.GoTo(context.Background(), session.StepWitnesses); err != nil {
		t.Fatalf("goto: %v", err)
	}
	set(t, s, declaration.FieldTelephone+declaration.SuffixWitness2, "781112233")
	next(t, s)
	next(t, s)

	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	req, _ := b.Last(http.MethodPost, submission.PathCreate)
	var sent declaration.Payload
	req.Decode(t, &sent)

	want := expectedPayload()
	want.Temoins[1].Telephone = "781112233"
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Fatalf("sent payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_CloseDuringSubmitKeepsDraft(t *testing.T) {
	b := scriptedBackend(t)
	var s *session.Session
	b.Handle(http.MethodPost, submission.PathCreate, func(testsupport.Request) (int, any) {
		s.Close()
		return http.StatusOK, testsupport.Data(map[string]int{"id": 42})
	})
	s = newSession(t, b)
	walkToConfirmation(t, s)

	if _, err := s.Submit(context.Background()); !errors.Is(err, session.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if s.Submitted() {
		t.Fatalf("late receipt must not lock the wizard")
	}
	if _, ok := s.Receipt(); ok {
		t.Fatalf("late receipt must not be stored")
	}
}
