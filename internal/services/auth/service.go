package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"roomadmin/internal/backend"
	"roomadmin/internal/services/svcerr"
	"roomadmin/internal/session"
)

const (
	msgLoginFailed   = "Login failed. Please try again."
	msgLoginBroken   = "Something went wrong. Please try again."
	minPasswordChars = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Authenticator exchanges admin credentials for a backend token.
type Authenticator interface {
	Login(ctx context.Context, usernameOrEmail, password string) (string, error)
}

// Service handles admin sign-in and sign-out.
type Service struct {
	backend Authenticator
	gate    *session.Gate
}

func NewService(backend Authenticator, gate *session.Gate) *Service {
	return &Service{backend: backend, gate: gate}
}

// LoginError carries the message shown on the login form.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Err }

// Login authenticates against the backend and opens a console session.
func (s *Service) Login(ctx context.Context, username, password string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return session.Session{}, &svcerr.ValidationError{Field: "username", Message: "Username is required"}
	}
	if password == "" {
		return session.Session{}, &svcerr.ValidationError{Field: "password", Message: "Password is required"}
	}

	token, err := s.backend.Login(ctx, username, password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
			msg := apiErr.Message
			if msg == "" {
				msg = msgLoginFailed
			}
			return session.Session{}, &LoginError{Message: msg, Err: err}
		}
		return session.Session{}, &LoginError{Message: msgLoginBroken, Err: err}
	}

	sess, err := s.gate.Login(ctx, token)
	if err != nil {
		return session.Session{}, &LoginError{Message: msgLoginBroken, Err: svcerr.Wrap("store_session", err)}
	}
	return sess, nil
}

// Logout forgets the session's token.
func (s *Service) Logout(ctx context.Context, sid string) error {
	return svcerr.Wrap("logout", s.gate.Logout(ctx, sid))
}

// SignUpRequest is the sign-up form. The console does not create accounts;
// a valid form only sends the visitor back to the login page.
type SignUpRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateSignUp returns per-field messages; an empty map means the form is valid.
func ValidateSignUp(req SignUpRequest) map[string]string {
	errs := map[string]string{}
	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}
	switch {
	case req.Password == "":
		errs["password"] = "Password is required"
	case len(req.Password) < minPasswordChars:
		errs["password"] = "Password must be at least 8 characters"
	}
	switch {
	case req.ConfirmPassword == "":
		errs["confirmPassword"] = "Please confirm your password"
	case req.ConfirmPassword != req.Password:
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}
