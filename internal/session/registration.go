package session

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"

	"github.com/iliyamo/adsaga-console/internal/model"
)

// Step is the position of a registration wizard.
type Step int

const (
	StepAwaitingEmail Step = iota
	StepAwaitingOTP
	StepAwaitingProfile
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepAwaitingOTP:
		return "awaiting_otp"
	case StepAwaitingProfile:
		return "awaiting_profile"
	case StepComplete:
		return "complete"
	default:
		return "awaiting_email"
	}
}

func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MinPasswordLength mirrors the registration form's minLength constraint.
const MinPasswordLength = 6

var (
	// ErrStep is returned when an action does not belong to the current step.
	ErrStep = errors.New("registration: action not allowed at this step")
	// ErrBusy is returned while another step of the same wizard is in flight.
	ErrBusy = errors.New("registration: a step is already in progress")
)

// InputError reports a form constraint violation.  No request is sent to
// the backend when one is returned.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Registrar is the slice of the auth service the wizard depends on.
type Registrar interface {
	InitiateRegistration(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	CompleteRegistration(ctx context.Context, email, otp, fullname, password string) (model.AuthResult, error)
}

// WizardView is what the registration page renders.
type WizardView struct {
	Step  Step   `json:"step"`
	Email string `json:"email,omitempty"`
	Error string `json:"error,omitempty"`
}

// Wizard drives the three-round-trip registration: email, one-time code,
// then profile.  Each step is gated on the success of the one before it.
// A failed step records its error and stays where it is.  The wizard lives
// only in memory and is never persisted.
type Wizard struct {
	mu       sync.Mutex
	step     Step
	email    string
	otp      string
	err      string
	inFlight bool

	reg     Registrar
	session *Store
}

func NewWizard(reg Registrar, session *Store) *Wizard {
	return &Wizard{reg: reg, session: session}
}

// Initiate asks the backend to send a code to email.
func (w *Wizard) Initiate(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return w.reject(err)
	}
	if err := w.enter(StepAwaitingEmail); err != nil {
		return err
	}
	err := w.reg.InitiateRegistration(ctx, email)
	return w.leave(err, func() {
		w.email = email
		w.step = StepAwaitingOTP
	})
}

// Verify checks the code sent to the wizard's email.
func (w *Wizard) Verify(ctx context.Context, otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return w.reject(&InputError{Field: "otp", Message: "Verification code is required"})
	}
	if err := w.enter(StepAwaitingOTP); err != nil {
		return err
	}
	err := w.reg.VerifyOTP(ctx, w.currentEmail(), otp)
	return w.leave(err, func() {
		w.otp = otp
		w.step = StepAwaitingProfile
	})
}

// Complete creates the account and authenticates the session with it.
func (w *Wizard) Complete(ctx context.Context, fullname, password, confirm string) error {
	fullname = strings.TrimSpace(fullname)
	if err := checkProfile(fullname, password, confirm); err != nil {
		return w.reject(err)
	}
	if err := w.enter(StepAwaitingProfile); err != nil {
		return err
	}
	w.mu.Lock()
	email, otp := w.email, w.otp
	w.mu.Unlock()

	res, err := w.reg.CompleteRegistration(ctx, email, otp, fullname, password)
	if err == nil {
		if res.User.Email == "" {
			res.User.Email = email
		}
		if res.User.Fullname == "" {
			res.User.Fullname = fullname
		}
		err = w.session.RegisterUser(ctx, res)
	}
	return w.leave(err, func() {
		w.otp = ""
		w.step = StepComplete
	})
}

// Back moves one step towards the start.  Nothing is sent to the backend.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight {
		return
	}
	switch w.step {
	case StepAwaitingOTP:
		w.step = StepAwaitingEmail
	case StepAwaitingProfile:
		w.otp = ""
		w.step = StepAwaitingOTP
	}
	w.err = ""
}

// Reset discards all wizard state.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepAwaitingEmail
	w.email, w.otp, w.err = "", "", ""
}

func (w *Wizard) View() WizardView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WizardView{Step: w.step, Email: w.email, Error: w.err}
}

func (w *Wizard) currentEmail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.email
}

// enter claims the wizard for a step that must currently be at want.
func (w *Wizard) enter(want Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight {
		return ErrBusy
	}
	if w.step != want {
		return ErrStep
	}
	w.inFlight = true
	w.err = ""
	return nil
}

// leave releases the wizard, applying advance only when err is nil.
func (w *Wizard) leave(err error, advance func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		w.err = err.Error()
		return err
	}
	advance()
	return nil
}

func (w *Wizard) reject(err error) error {
	w.mu.Lock()
	w.err = err.Error()
	w.mu.Unlock()
	return err
}

// ValidateSignup checks the fields of a single-call registration the same
// way the wizard checks them across its steps.
func ValidateSignup(fullname, email, password, confirm string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	return checkProfile(strings.TrimSpace(fullname), password, confirm)
}

func checkProfile(fullname, password, confirm string) error {
	switch {
	case fullname == "":
		return &InputError{Field: "fullname", Message: "Full name is required"}
	case len(password) < MinPasswordLength:
		return &InputError{Field: "password", Message: "Password must be at least 6 characters long"}
	case password != confirm:
		return &InputError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	return nil
}

// validateEmail applies the type=email constraint: a bare address with a
// domain part.
func validateEmail(email string) error {
	if email == "" {
		return &InputError{Field: "email", Message: "Email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return &InputError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}
