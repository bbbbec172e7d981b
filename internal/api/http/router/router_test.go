package router

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/accountd/accountd/internal/api/http/context"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/service"
	"github.com/accountd/accountd/internal/testutil"
	"github.com/accountd/accountd/internal/token"
)

// serviceStub satisfies the handler's service interface with canned
// responses; routing behavior is what is under test here.
type serviceStub struct {
	lastCaller model.Identity
}

func (s *serviceStub) Register(ctx context.Context, params service.RegisterParams) (model.User, error) {
	return model.User{ID: 1, Name: params.Name, Username: params.Username, Email: params.Email, Role: model.RoleUser}, nil
}

func (s *serviceStub) Login(ctx context.Context, email, password string) (string, error) {
	return "stub-token", nil
}

func (s *serviceStub) GetByID(ctx context.Context, caller model.Identity, id int64) (model.User, error) {
	s.lastCaller = caller
	return model.User{ID: id}, nil
}

func (s *serviceStub) List(ctx context.Context, caller model.Identity) ([]model.User, error) {
	s.lastCaller = caller
	return []model.User{}, nil
}

func (s *serviceStub) ListPage(ctx context.Context, caller model.Identity, page, limit int) (model.Page, error) {
	s.lastCaller = caller
	return model.Page{Items: []model.User{}}, nil
}

func (s *serviceStub) ListPageByUsername(ctx context.Context, caller model.Identity, page, limit int, username string) (model.Page, error) {
	s.lastCaller = caller
	return model.Page{Items: []model.User{}}, nil
}

func (s *serviceStub) UpdateProfile(ctx context.Context, caller model.Identity, targetID int64, params model.UpdateProfileParams) (model.User, error) {
	s.lastCaller = caller
	return model.User{ID: targetID}, nil
}

func (s *serviceStub) ChangeRole(ctx context.Context, caller model.Identity, targetID int64, role model.Role) (model.User, error) {
	s.lastCaller = caller
	return model.User{ID: targetID, Role: role}, nil
}

func (s *serviceStub) Delete(ctx context.Context, caller model.Identity, targetID int64) error {
	s.lastCaller = caller
	return nil
}

func (s *serviceStub) UploadProfileImage(ctx context.Context, caller model.Identity, filename string, reader io.Reader) (model.User, error) {
	s.lastCaller = caller
	return model.User{ID: caller.UserID, ProfileImage: filename}, nil
}

func (s *serviceStub) DownloadProfileImage(ctx context.Context, filename string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte("png"))), nil
}

func newTestRouter(t *testing.T) (http.Handler, *serviceStub, *token.JWT) {
	t.Helper()
	svc := &serviceStub{}
	tokens := token.NewJWT("test-secret", time.Hour)
	r := New(svc, tokens, httpctx.NewManager(), testutil.MakeNoopLogger())
	return r.Register(), svc, tokens
}

func TestRouter_PublicRoutes(t *testing.T) {
	mux, _, _ := newTestRouter(t)

	t.Run("register", func(t *testing.T) {
		body := `{"name":"Bob","username":"bob","email":"bob@example.com","password":"hunter2hunter2"}`
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		body := `{"email":"bob@example.com","password":"hunter2hunter2"}`
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("profile image download", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/profile-image/avatar-x.png", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png", w.Body.String())
	})
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	mux, _, _ := newTestRouter(t)

	requests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/1"},
		{http.MethodPut, "/users/1"},
		{http.MethodPut, "/users/1/role"},
		{http.MethodDelete, "/users/1"},
		{http.MethodPost, "/users/upload"},
	}

	for _, tt := range requests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_BearerTokenReachesService(t *testing.T) {
	mux, svc, tokens := newTestRouter(t)

	accessToken, err := tokens.Generate(model.NewIdentity(42, model.RoleAdmin))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), svc.lastCaller.UserID)
	assert.Equal(t, model.RoleAdmin, svc.lastCaller.Role)
}

func TestRouter_GarbageTokenRejected(t *testing.T) {
	mux, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	mux, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
