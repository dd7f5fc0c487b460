package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"go.uber.org/zap"
)

const (
	testJWTSecret   = "shared-auth-secret"
	testSessionName = "session"
)

func newTestMiddleware(t *testing.T) (*Middleware, *Codec) {
	t.Helper()

	codec, err := NewCodec([]string{"key-one", "key-two"}, time.Hour)
	require.NoError(t, err)

	session := NewSession(testSessionName, time.Hour, false, codec)
	verifier := NewTokenVerifier(testJWTSecret)
	return NewMiddleware(session, verifier, zap.NewNop()), codec
}

// mintBearer выпускает токен так, как это делает auth-сервис.
func mintBearer(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()

	payload := &domain.AuthPayload{
		ID:       42,
		Username: "manny",
		Email:    "manny@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func sessionCookie(t *testing.T, codec *Codec, bearer string) *http.Cookie {
	t.Helper()

	artifact, err := codec.Encode(bearer)
	require.NoError(t, err)
	return &http.Cookie{Name: testSessionName, Value: artifact}
}

// protectedChain собирает цепочку так же, как ее собирает роутер шлюза.
func protectedChain(mw *Middleware, final http.Handler) http.Handler {
	return mw.PropagateSession(mw.VerifyUser(mw.CheckAuthentication(final)))
}

func TestVerifyUserWithoutSession(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	handlerCalled := false
	chain := protectedChain(mw, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/currentuser", nil))

	assert.False(t, handlerCalled, "handler must not run after denial")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message": "Token is not available. Please login again."}`, rec.Body.String())
}

func TestVerifyUserTamperedArtifactLooksLikeAbsence(t *testing.T) {
	mw, codec := newTestMiddleware(t)

	chain := protectedChain(mw, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cookie := sessionCookie(t, codec, mintBearer(t, testJWTSecret, time.Hour))
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/currentuser", nil)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	// Подделка неотличима от отсутствия сессии
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message": "Token is not available. Please login again."}`, rec.Body.String())
}

func TestVerifyUserExpiredBearer(t *testing.T) {
	mw, codec := newTestMiddleware(t)

	chain := protectedChain(mw, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/currentuser", nil)
	req.AddCookie(sessionCookie(t, codec, mintBearer(t, testJWTSecret, -time.Minute)))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message": "Token is not available. Please login again."}`, rec.Body.String())
}

func TestVerifyUserBearerSignedByStranger(t *testing.T) {
	mw, codec := newTestMiddleware(t)

	chain := protectedChain(mw, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/currentuser", nil)
	req.AddCookie(sessionCookie(t, codec, mintBearer(t, "wrong-secret", time.Hour)))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyUserAttachesIdentity(t *testing.T) {
	mw, codec := newTestMiddleware(t)

	chain := protectedChain(mw, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := CurrentUser(r.Context())
		require.True(t, ok)
		assert.Equal(t, 42, payload.ID)
		assert.Equal(t, "manny", payload.Username)

		token, ok := BearerToken(r.Context())
		require.True(t, ok)
		assert.NotEmpty(t, token)

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/currentuser", nil)
	req.AddCookie(sessionCookie(t, codec, mintBearer(t, testJWTSecret, time.Hour)))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckAuthenticationWithoutIdentity(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	// Цепочка без VerifyUser: второй гейт должен поймать пропущенную identity
	chain := mw.CheckAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/currentuser", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message": "Authentication is required to access this route."}`, rec.Body.String())
}

func TestPropagateSessionIgnoresBadCookieOnPublicRoute(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	chain := mw.PropagateSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := BearerToken(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", nil)
	req.AddCookie(&http.Cookie{Name: testSessionName, Value: "garbage"})

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
