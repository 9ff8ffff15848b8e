package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/inkwell/config"
	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/database"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
		Total    int64 `json:"total"`
		HasNext  bool  `json:"has_next"`
	} `json:"meta"`
}

type server struct {
	t *testing.T
	h http.Handler
}

func newServer(t *testing.T) *server {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	jwt := auth.JWT{Secret: []byte("secret"), Issuer: "inkwell", TTL: time.Hour}
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	svc := service.NewServices(db, service.Options{JWT: jwt})
	return &server{t: t, h: NewRouter(Deps{Config: cfg, DB: db, JWT: jwt, Services: svc})}
}

func (s *server) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

// register returns (token, user id).
func (s *server) register(name string) (string, string) {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)
	var sess struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &sess))
	return sess.Token, sess.User.ID
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	code, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestFollowEndpoints(t *testing.T) {
	s := newServer(t)
	aliceTok, alice := s.register("alice")
	_, bob := s.register("bob")

	code, _ := s.do(http.MethodPost, "/api/v1/relations/follow/"+bob, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(http.MethodPost, "/api/v1/relations/follow/"+alice, aliceTok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "invalid operation")

	code, _ = s.do(http.MethodPost, "/api/v1/relations/follow/nobody", aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, code)

	for i := 0; i < 2; i++ {
		code, _ = s.do(http.MethodPost, "/api/v1/relations/follow/"+bob, aliceTok, nil)
		assert.Equal(t, http.StatusOK, code)
	}

	code, env = s.do(http.MethodGet, "/api/v1/relations/"+bob+"/fans", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	code, _ = s.do(http.MethodPost, "/api/v1/relations/unfollow/"+bob, aliceTok, nil)
	assert.Equal(t, http.StatusOK, code)
	_, env = s.do(http.MethodGet, "/api/v1/relations/"+alice+"/following", "", nil)
	assert.Equal(t, int64(0), env.Meta.Total)
}

func TestPostListQueryValidation(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{
		"/api/v1/posts?ordering=nonexistent_field",
		"/api/v1/posts?page=0",
		"/api/v1/posts?page=abc",
		"/api/v1/posts?page_size=1000",
		"/api/v1/books?ordering=created_at",
	} {
		code, _ := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, code, path)
	}
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	aliceTok, alice := s.register("alice")
	bobTok, _ := s.register("bob")

	code, env := s.do(http.MethodPost, "/api/v1/posts", aliceTok, map[string]any{
		"title": "Django Basics", "content": "intro", "tags": []string{"python", "django"},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var post struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	for _, title := range []string{"Rust Intro", "Python Tips"} {
		code, _ = s.do(http.MethodPost, "/api/v1/posts", aliceTok, map[string]any{"title": title, "content": "x"})
		require.Equal(t, http.StatusCreated, code)
	}

	code, _ = s.do(http.MethodPost, "/api/v1/posts", aliceTok, map[string]any{"title": " ", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, env = s.do(http.MethodGet, "/api/v1/posts?search=python&page_size=1", "", nil)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.True(t, env.Meta.HasNext)

	_, env = s.do(http.MethodGet, "/api/v1/posts?author="+alice+"&page=9", "", nil)
	assert.Equal(t, "[]", string(env.Data))
	assert.Equal(t, int64(3), env.Meta.Total)

	_, env = s.do(http.MethodGet, "/api/v1/posts/search?q=", "", nil)
	assert.Equal(t, int64(0), env.Meta.Total)

	_, env = s.do(http.MethodGet, "/api/v1/tags/django/posts", "", nil)
	assert.Equal(t, int64(1), env.Meta.Total)

	code, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/like", bobTok, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/v1/posts/"+post.ID+"/like", bobTok, nil)
	assert.Equal(t, http.StatusConflict, code)

	_, env = s.do(http.MethodGet, "/api/v1/notifications/unread-count", aliceTok, nil)
	assert.JSONEq(t, `{"unread":1}`, string(env.Data))

	code, _ = s.do(http.MethodDelete, "/api/v1/posts/"+post.ID, aliceTok, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = s.do(http.MethodGet, "/api/v1/posts/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPostOrderingOverHTTP(t *testing.T) {
	s := newServer(t)
	tok, _ := s.register("alice")
	for _, title := range []string{"b", "a", "c"} {
		code, _ := s.do(http.MethodPost, "/api/v1/posts", tok, map[string]any{"title": title, "content": "x"})
		require.Equal(t, http.StatusCreated, code)
	}

	titles := func(path string) []string {
		code, env := s.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, code, path)
		var posts []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &posts))
		out := make([]string, len(posts))
		for i, p := range posts {
			out[i] = p.Title
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, titles("/api/v1/posts?ordering=title"))
	assert.Equal(t, []string{"c", "b", "a"}, titles("/api/v1/posts?ordering=-title"))
	assert.Equal(t, []string{"a"}, titles("/api/v1/posts?ordering=title&page_size=1"))
	assert.Equal(t, []string{"b"}, titles("/api/v1/posts?ordering=title&page=2&page_size=1"))
}

func TestHugePageOverHTTP(t *testing.T) {
	s := newServer(t)
	tok, _ := s.register("alice")
	code, _ := s.do(http.MethodPost, "/api/v1/posts", tok, map[string]any{"title": "only", "content": "x"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(http.MethodGet, "/api/v1/posts?page=922337203685477582", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", string(env.Data))
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.False(t, env.Meta.HasNext)
}

func TestFeedRequiresAuth(t *testing.T) {
	s := newServer(t)
	code, _ := s.do(http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodGet, "/api/v1/feed", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
