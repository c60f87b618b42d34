package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomadmin/internal/backend"
	"roomadmin/internal/services/svcerr"
	"roomadmin/internal/session"
)

type fakeAuth struct {
	token string
	err   error
	calls int
}

func (f *fakeAuth) Login(context.Context, string, string) (string, error) {
	f.calls++
	return f.token, f.err
}

func TestLoginOpensSession(t *testing.T) {
	ctx := context.Background()
	gate := session.NewGate(session.NewMemoryStore())
	svc := NewService(&fakeAuth{token: "jwt"}, gate)

	sess, err := svc.Login(ctx, " admin ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", sess.Token)
	assert.True(t, gate.IsAuthenticated(ctx, sess.ID))

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.False(t, gate.IsAuthenticated(ctx, sess.ID))
}

func TestLoginRequiresCredentials(t *testing.T) {
	fa := &fakeAuth{token: "jwt"}
	svc := NewService(fa, session.NewGate(session.NewMemoryStore()))

	_, err := svc.Login(context.Background(), "", "pw")
	assert.True(t, svcerr.IsValidation(err))
	_, err = svc.Login(context.Background(), "admin", "")
	assert.True(t, svcerr.IsValidation(err))
	assert.Zero(t, fa.calls)
}

func TestLoginErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &backend.APIError{Op: "login", StatusCode: http.StatusUnauthorized, Message: "Invalid password"}, "Invalid password"},
		{"rejected without message", &backend.APIError{Op: "login", StatusCode: http.StatusBadRequest}, msgLoginFailed},
		{"transport failure", &backend.APIError{Op: "login", Err: errors.New("dial tcp: refused")}, msgLoginBroken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeAuth{err: tc.err}, session.NewGate(session.NewMemoryStore()))
			_, err := svc.Login(context.Background(), "admin", "pw")

			var le *LoginError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tc.want, le.Message)
		})
	}
}

func TestValidateSignUp(t *testing.T) {
	assert.Empty(t, ValidateSignUp(SignUpRequest{
		Email: "admin@roomily.tech", Password: "longenough", ConfirmPassword: "longenough",
	}))

	errs := ValidateSignUp(SignUpRequest{})
	assert.Equal(t, "Email is required", errs["email"])
	assert.Equal(t, "Password is required", errs["password"])
	assert.Equal(t, "Please confirm your password", errs["confirmPassword"])

	errs = ValidateSignUp(SignUpRequest{Email: "not-an-email", Password: "short", ConfirmPassword: "other"})
	assert.Equal(t, "Please enter a valid email address", errs["email"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
	assert.Equal(t, "Passwords do not match", errs["confirmPassword"])
}
