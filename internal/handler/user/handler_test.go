package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cinechat/backend/internal/middleware"
	authservice "github.com/cinechat/backend/internal/service/auth"
	"github.com/cinechat/backend/internal/store/memory"
)

func setupRouter(t *testing.T, registered int) (*chi.Mux, string) {
	t.Helper()

	st := memory.New()
	authSvc := authservice.NewService(st, "test-secret")

	var token string
	for i := 0; i < registered; i++ {
		_, tok, err := authSvc.Register(context.Background(), fmt.Sprintf("user%d@example.com", i), "hunter2abc")
		if err != nil {
			t.Fatalf("register user %d: %v", i, err)
		}
		token = tok
	}

	r := chi.NewRouter()
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(authSvc))
		New(st).RegisterRoutes(protected)
	})
	return r, token
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListUsersPaginated(t *testing.T) {
	r, token := setupRouter(t, 3)

	resp := get(r, "/users?page=1&limit=2", token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var env struct {
		OK   bool `json:"ok"`
		Data struct {
			Items []map[string]any `json:"items"`
			Total int64            `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Items) != 2 || env.Data.Total != 3 {
		t.Fatalf("expected 2 of 3 users, got %d of %d", len(env.Data.Items), env.Data.Total)
	}

	resp = get(r, "/users?page=2&limit=2", token)
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Items) != 1 {
		t.Fatalf("expected 1 user on the last page, got %d", len(env.Data.Items))
	}
}

func TestListUsersClampsParams(t *testing.T) {
	r, token := setupRouter(t, 1)

	resp := get(r, "/users?page=-5&limit=9999", token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestListUsersRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t, 1)

	if resp := get(r, "/users", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
