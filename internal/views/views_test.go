package views

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomadmin/internal/session"
)

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, page := range []string{
		"login", "signup", "notfound", "dashboard", "rooms", "userreports", "users",
		"bans", "banhistory", "withdrawals", "withdrawqr", "verification", "verificationdetail",
	} {
		assert.Contains(t, r.pages, page)
	}
}

func TestRenderLayoutAndFlash(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusNotFound, "notfound", Data{
		Title:  "Page not found",
		Signed: true,
		Flash:  &session.Flash{Kind: session.FlashSuccess, Message: "Saved <ok>"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Page not found | Roomily Admin</title>")
	assert.Contains(t, body, `class="flash flash-success"`)
	assert.Contains(t, body, "Saved &lt;ok&gt;")
	assert.Contains(t, body, `action="/logout"`)
}

func TestRenderOmitsNavWhenSignedOut(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "login", Data{
		Title: "Sign in",
		Body:  map[string]any{"Username": "admin", "Error": "Wrong password", "Fields": map[string]string{}},
	}))
	body := rec.Body.String()
	assert.NotContains(t, body, `action="/logout"`)
	assert.Contains(t, body, `value="admin"`)
	assert.Contains(t, body, "Wrong password")
}

func TestRenderErrorBox(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "userreports", Data{
		Title: "User reports",
		Body: map[string]any{
			"Error":   &ErrorBox{Message: "Could not load user reports.", RetryURL: "/admin/reportUser-notification"},
			"Reports": []string{},
		},
	}))
	body := rec.Body.String()
	assert.Contains(t, body, "Could not load user reports.")
	assert.Contains(t, body, `href="/admin/reportUser-notification">Retry</a>`)
	assert.Contains(t, body, "No pending user reports")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, r.Render(rec, http.StatusOK, "missing", Data{}))
	assert.Zero(t, rec.Body.Len())
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	require.Error(t, err)
	_, err = dict(1, 2)
	require.Error(t, err)
}
