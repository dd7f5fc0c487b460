package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/gigmarket-gateway/internal/domain"
	"github.com/xela07ax/gigmarket-gateway/internal/infra"
	"github.com/xela07ax/gigmarket-gateway/internal/infra/auth"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, upstream http.HandlerFunc) *AuthService {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	return NewAuthService(srv.URL, zap.NewNop(), infra.NewMetrics(nil))
}

func TestSignInHitsSigninEndpoint(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "manny", body["username"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message": "User login successfully", "token": "jwt-abc", "user": {"id": 1}}`)
	})

	resp, err := svc.SignIn(context.Background(), json.RawMessage(`{"username": "manny", "password": "pw"}`))
	require.NoError(t, err)
	assert.Equal(t, "User login successfully", resp.Message)
	assert.Equal(t, "jwt-abc", resp.Token)
	assert.JSONEq(t, `{"id": 1}`, string(resp.User))
}

func TestOperationsUseDocumentedRoutes(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		fmt.Fprint(w, `{"message": "ok"}`)
	})

	ctx := context.Background()

	calls := []struct {
		name   string
		invoke func() error
		method string
		path   string
	}{
		{"signup", func() error { _, err := svc.SignUp(ctx, json.RawMessage(`{}`)); return err }, http.MethodPost, "/api/v1/auth/signup"},
		{"forgotPassword", func() error { _, err := svc.ForgotPassword(ctx, "a@b.c"); return err }, http.MethodPut, "/api/v1/auth/forgot-password"},
		{"resetPassword", func() error { _, err := svc.ResetPassword(ctx, "tok", "p", "p"); return err }, http.MethodPut, "/api/v1/auth/reset-password/tok"},
		{"changePassword", func() error { _, err := svc.ChangePassword(ctx, "old", "new"); return err }, http.MethodPost, "/api/v1/auth/change-password"},
		{"verifyEmail", func() error { _, err := svc.VerifyEmail(ctx, "tok"); return err }, http.MethodPut, "/api/v1/auth/verify-email"},
		{"resendEmail", func() error { _, err := svc.ResendEmail(ctx, domain.ResendEmailRequest{UserID: 1, Email: "a@b.c"}); return err }, http.MethodPost, "/api/v1/auth/resend-email"},
		{"currentUser", func() error { _, err := svc.CurrentUser(ctx); return err }, http.MethodGet, "/api/v1/auth/currentuser"},
		{"refreshToken", func() error { _, err := svc.RefreshToken(ctx, "manny"); return err }, http.MethodGet, "/api/v1/auth/refresh-token/manny"},
		{"gig", func() error { _, err := svc.Gig(ctx, "gig-1"); return err }, http.MethodGet, "/api/v1/auth/search/gigs/gig-1"},
		{"gigs", func() error { _, err := svc.Gigs(ctx, "0", "10", "forward", ""); return err }, http.MethodGet, "/api/v1/auth/search/gigs/0/10/forward"},
		{"seed", func() error { _, err := svc.Seed(ctx, "25"); return err }, http.MethodGet, "/api/v1/auth/seed/25"},
	}

	for _, call := range calls {
		require.NoError(t, call.invoke(), call.name)
		assert.Equal(t, call.method, gotMethod, call.name)
		assert.Equal(t, call.path, gotPath, call.name)
	}
}

func TestGigsForwardsRawQuery(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/search/gigs/0/10/forward", r.URL.Path)
		assert.Equal(t, "query=logo+design&delivery_time=3", r.URL.RawQuery)
		fmt.Fprint(w, `{"message": "ok", "total": 2, "gigs": []}`)
	})

	resp, err := svc.Gigs(context.Background(), "0", "10", "forward", "query=logo+design&delivery_time=3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
}

func TestBearerFromContextReachesUpstream(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer caller-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"message": "ok"}`)
	})

	ctx := auth.WithBearerToken(context.Background(), "caller-token")
	_, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
}

func TestNoBearerWithoutSession(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"message": "ok"}`)
	})

	_, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
}

func TestUpstreamErrorPassesThroughVerbatim(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "Password must be at least 8 characters"}`)
	})

	_, err := svc.ChangePassword(context.Background(), "a", "b")
	require.Error(t, err)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.StatusCode)
	assert.Equal(t, "Password must be at least 8 characters", domainErr.Message)
}

func TestUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // адрес валидный, но никто не слушает

	svc := NewAuthService(srv.URL, zap.NewNop(), infra.NewMetrics(nil))

	_, err := svc.CurrentUser(context.Background())
	require.Error(t, err)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusServiceUnavailable, domainErr.StatusCode)
}

// TestConcurrentCallersKeepTheirOwnCredentials — два залогиненных пользователя
// одновременно зовут бэкенд; ни один запрос не должен уйти с чужим токеном.
func TestConcurrentCallersKeepTheirOwnCredentials(t *testing.T) {
	// Бэкенд возвращает Authorization обратно, чтобы сверить на клиенте
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		resp := domain.AuthResponse{Message: r.Header.Get("Authorization")}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	const callers = 50

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			token := fmt.Sprintf("token-of-user-%d", i)
			ctx := auth.WithBearerToken(context.Background(), token)

			resp, err := svc.CurrentUser(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			if resp.Message != "Bearer "+token {
				errs[i] = fmt.Errorf("credential leak: sent %q, upstream saw %q", token, resp.Message)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
}
