package auth

import (
	"context"
	"strings"

	"github.com/PIN-11-07/Turboo/internal/backend"
)

// Form messages
const (
	MsgNameRequired  = "Enter your name to complete the sign up."
	MsgSignUpSuccess = "Sign up successful! Check your email to confirm your account."
)

// Mode is the login form mode
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// Authenticator is what the form submits to
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, name string) (bool, error)
}

// Form is the login / sign up state. The name field is only part of the
// form in signup mode.
type Form struct {
	Mode     Mode
	Email    string
	Password string
	Name     string
	Error    string
	Message  string
}

// Title is the heading for the current mode
func (f *Form) Title() string {
	if f.Mode == ModeSignup {
		return "Create an account"
	}
	return "Sign in"
}

// SubmitLabel is the label of the submit action
func (f *Form) SubmitLabel() string {
	if f.Mode == ModeSignup {
		return "Sign up"
	}
	return "Sign in"
}

// ToggleLabel is the label of the mode switch
func (f *Form) ToggleLabel() string {
	if f.Mode == ModeSignup {
		return "Already have an account? Sign in"
	}
	return "No account yet? Sign up"
}

// ShowName reports whether the name field is visible
func (f *Form) ShowName() bool {
	return f.Mode == ModeSignup
}

// Toggle switches between login and signup, clearing feedback and the name
func (f *Form) Toggle() {
	f.Error = ""
	f.Message = ""
	f.Name = ""
	if f.Mode == ModeSignup {
		f.Mode = ModeLogin
	} else {
		f.Mode = ModeSignup
	}
}

// Submit sends the form. It returns true when the user is now signed in.
func (f *Form) Submit(ctx context.Context, a Authenticator) bool {
	f.Error = ""
	f.Message = ""

	if f.Mode == ModeSignup {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			f.Error = MsgNameRequired
			return false
		}
		signedIn, err := a.SignUp(ctx, f.Email, f.Password, name)
		if err != nil {
			f.Error = backend.Message(err)
			return false
		}
		f.Message = MsgSignUpSuccess
		f.Mode = ModeLogin
		f.Password = ""
		f.Name = ""
		return signedIn
	}

	if err := a.SignIn(ctx, f.Email, f.Password); err != nil {
		f.Error = backend.Message(err)
		return false
	}
	return true
}
