package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishwell/wishwell-server/internal/application"
	"github.com/wishwell/wishwell-server/internal/domain/entity"
	"github.com/wishwell/wishwell-server/internal/domain/repository"
	"github.com/wishwell/wishwell-server/internal/interface/middleware"
	"github.com/wishwell/wishwell-server/pkg/helpers"
	"github.com/wishwell/wishwell-server/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if e.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

type stubWishlistRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Wishlist
}

func cloneList(w *entity.Wishlist) *entity.Wishlist {
	b, _ := json.Marshal(w)
	cp := &entity.Wishlist{}
	_ = json.Unmarshal(b, cp)
	return cp
}

func (r *stubWishlistRepo) Create(_ context.Context, w *entity.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[w.ID] = cloneList(w)
	return nil
}

func (r *stubWishlistRepo) GetByID(_ context.Context, id string) (*entity.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneList(w), nil
}

func (r *stubWishlistRepo) ListForUser(_ context.Context, userID string) ([]*entity.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Wishlist{}
	for _, w := range r.byID {
		if w.RoleOf(userID) != entity.RoleNone {
			out = append(out, cloneList(w))
		}
	}
	return out, nil
}

func (r *stubWishlistRepo) Update(_ context.Context, w *entity.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[w.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[w.ID] = cloneList(w)
	return nil
}

func (r *stubWishlistRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var (
	_ repository.UserRepository     = (*stubUserRepo)(nil)
	_ repository.WishlistRepository = (*stubWishlistRepo)(nil)
)

type testAPI struct {
	engine *gin.Engine
	users  *application.UserService
}

// newTestAPI wires the real handlers, services and middleware over in-memory
// repositories, mirroring the production route table.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	userRepo := &stubUserRepo{byID: map[string]*entity.User{}}
	listRepo := &stubWishlistRepo{byID: map[string]*entity.Wishlist{}}
	jwt := helpers.NewJWTManager("handlers-test-secret", time.Hour)

	userSvc := &application.UserService{Repo: userRepo, JWT: jwt}
	listSvc := &application.WishlistService{Lists: listRepo, Users: userRepo}

	authH := NewAuthHandler(userSvc, nil)
	listH := NewWishlistHandler(listSvc, nil)

	e := gin.New()
	api := e.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	auth := api.Group("/")
	auth.Use(middleware.BearerAuth(jwt, userRepo))
	{
		auth.GET("/auth/me", authH.Me)
		auth.POST("/wishlists", listH.Create)
		auth.GET("/wishlists", listH.List)
		auth.GET("/wishlists/:id", listH.Get)
		auth.PUT("/wishlists/:id", listH.Update)
		auth.DELETE("/wishlists/:id", listH.Delete)
		auth.POST("/wishlists/:id/items", listH.AddItem)
		auth.PUT("/wishlists/:id/items/:itemId", listH.UpdateItem)
		auth.DELETE("/wishlists/:id/items/:itemId", listH.DeleteItem)
		auth.POST("/wishlists/:id/invite", listH.Invite)
		auth.DELETE("/wishlists/:id/collaborators/:userId", listH.RemoveCollaborator)
	}
	return &testAPI{engine: e, users: userSvc}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) registerUser(t *testing.T, username, email string) (string, string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)
	return env.Data.User.ID, env.Data.Token
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestRegisterEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestRegisterEndpointValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "al", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Contains(t, env.Error, "username")
	assert.Contains(t, env.Error, "email")
	assert.Contains(t, env.Error, "password")
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "alice", "alice@example.com")

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrongwrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestBearerAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/wishlists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	rec = api.do(t, http.MethodGet, "/api/wishlists", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestMeEndpoint(t *testing.T) {
	api := newTestAPI(t)
	id, token := api.registerUser(t, "alice", "alice@example.com")

	rec := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decodeData(t, rec, &profile)
	assert.Equal(t, id, profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestWishlistFlow(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.registerUser(t, "alice", "alice@example.com")
	bobID, bob := api.registerUser(t, "bob", "bob@example.com")

	rec := api.do(t, http.MethodPost, "/api/wishlists", owner, gin.H{
		"name": "Housewarming", "type": "collaborative",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entity.Wishlist
	decodeData(t, rec, &created)

	listPath := "/api/wishlists/" + created.ID

	// Bob cannot see the list until invited.
	rec = api.do(t, http.MethodGet, listPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, listPath+"/invite", owner, gin.H{"email": "bob@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, listPath+"/items", bob, gin.H{"name": "Kettle", "price": 39.99})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item entity.Item
	decodeData(t, rec, &item)
	assert.Equal(t, bobID, item.AddedBy)

	rec = api.do(t, http.MethodPut, listPath+"/items/"+item.ID, owner, gin.H{"is_purchased": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.Item
	decodeData(t, rec, &updated)
	assert.True(t, updated.IsPurchased)
	assert.Equal(t, "Kettle", updated.Name)

	// Metadata stays owner-only.
	rec = api.do(t, http.MethodPut, listPath, bob, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodDelete, listPath+"/collaborators/"+bobID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, listPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodDelete, listPath, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, listPath, owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlistNotFoundBeatsForbidden(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser(t, "alice", "alice@example.com")

	rec := api.do(t, http.MethodGet, "/api/wishlists/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInviteOnPrivateListRejected(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.registerUser(t, "alice", "alice@example.com")

	rec := api.do(t, http.MethodPost, "/api/wishlists", owner, gin.H{"name": "Books"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entity.Wishlist
	decodeData(t, rec, &created)
	assert.Equal(t, entity.TypePrivate, created.Type)

	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/wishlists/%s/invite", created.ID), owner, gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "wishlist must be collaborative")
}

func TestCreateWishlistValidation(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser(t, "alice", "alice@example.com")

	rec := api.do(t, http.MethodPost, "/api/wishlists", token, gin.H{"type": "collaborative"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/wishlists", token, gin.H{"name": "Books", "type": "shared"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
