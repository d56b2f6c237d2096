package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/api/middleware"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegister(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewCookieClient(t)

	builder := testutil.NewUserBuilder().WithUsername("alice").WithPassword("s3cret-pass")
	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/register"), builder.RegisterBody())
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	cookie := testutil.SessionCookie(resp, middleware.SessionCookieName)
	require.NotNil(t, cookie, "expected session cookie on register")
	assert.True(t, cookie.HttpOnly, "session cookie must be HTTP-only")
	assert.NotEmpty(t, cookie.Value)

	body := testutil.ReadBody(t, resp)
	assert.Contains(t, body, `"username":"alice"`)
	assert.NotContains(t, strings.ToLower(body), "password", "response must not leak credentials")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().WithUsername("bob").BuildAndAuthenticate(t, ts)

	client := testutil.NewCookieClient(t)
	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/register"),
		testutil.NewUserBuilder().WithUsername("bob").RegisterBody())
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "username already taken")
}

func TestRegisterValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewCookieClient(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"name": "A", "email": "a@example.com", "phone": "5550001234", "password": "secret1"}},
		{"short password", map[string]string{"username": "carol", "name": "C", "email": "c@example.com", "phone": "5550001234", "password": "abc"}},
		{"bad email", map[string]string{"username": "carol", "name": "C", "email": "not-an-email", "phone": "5550001234", "password": "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/register"), tt.body)
			defer resp.Body.Close()
			testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
		})
	}
}

func TestLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().WithUsername("dave").Build(t, ts.DB.DB)

	client := testutil.NewCookieClient(t)
	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/login"), map[string]string{
		"username": user.Username,
		"password": rawPassword,
	})
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	require.NotNil(t, testutil.SessionCookie(resp, middleware.SessionCookieName))

	var got testutil.UserResponse
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, user.ID.String(), got.ID)
	assert.Equal(t, "dave", got.Username)
}

// A wrong password and an unknown username must be indistinguishable to the
// caller, so the API never confirms whether an account exists.
func TestLoginFailureParity(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().WithUsername("erin").Build(t, ts.DB.DB)
	client := testutil.NewCookieClient(t)

	wrongPassword := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/login"), map[string]string{
		"username": user.Username,
		"password": "not-the-password",
	})
	defer wrongPassword.Body.Close()

	unknownUser := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/login"), map[string]string{
		"username": "nobody-here",
		"password": "whatever123",
	})
	defer unknownUser.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)

	bodyA := testutil.ReadBody(t, wrongPassword)
	bodyB := testutil.ReadBody(t, unknownUser)
	assert.Equal(t, bodyA, bodyB, "failure responses must not reveal which field was wrong")
}

func TestCurrentUser(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, client := testutil.NewUserBuilder().WithUsername("frank").BuildAndAuthenticate(t, ts)

	resp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var got testutil.UserResponse
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, user.ID.String(), got.ID)
}

func TestCurrentUserWithoutSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewCookieClient(t)

	resp, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "authentication required")
}

// An expired session row must behave exactly like no session: the cookie is
// rejected with 401 and the stale row is removed on first use.
func TestExpiredSessionRejected(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithUsername("henry").Build(t, ts.DB.DB)

	expiredSession := func(token string) {
		t.Helper()
		require.NoError(t, ts.Repos.Session.Create(ctx, &domain.Session{
			ID:        uuid.New(),
			Token:     token,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt: time.Now().Add(-time.Hour),
		}))
	}

	expiredSession("stale-token-service")
	_, err := ts.Services.Auth.ResolveSession(ctx, "stale-token-service")
	assert.ErrorIs(t, err, domain.ErrNoSession)

	// The stale row was purged by the failed resolution.
	_, err = ts.Repos.Session.GetByToken(ctx, "stale-token-service")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	expiredSession("stale-token-http")
	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/me"), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "stale-token-http"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "authentication required")
}

func TestLogout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, client := testutil.NewUserBuilder().WithUsername("grace").BuildAndAuthenticate(t, ts)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/logout"), nil)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// The session is gone; authenticated endpoints reject the old cookie.
	me, err := client.Get(ts.APIURL("/auth/me"))
	require.NoError(t, err)
	defer me.Body.Close()
	testutil.AssertStatusCode(t, me, http.StatusUnauthorized)

	// Logging out again is a no-op, not an error.
	again := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/auth/logout"), nil)
	again.Body.Close()
	testutil.AssertStatusCode(t, again, http.StatusOK)
}
