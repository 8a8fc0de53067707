package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cinechat/backend/internal/middleware"
	authservice "github.com/cinechat/backend/internal/service/auth"
	"github.com/cinechat/backend/internal/service/catalog"
	chatservice "github.com/cinechat/backend/internal/service/chat"
	"github.com/cinechat/backend/internal/store/memory"
)

type staticLookup struct {
	res *catalog.Result
	err error
}

func (f *staticLookup) Resolve(_ context.Context, _ string) (*catalog.Result, error) {
	return f.res, f.err
}

type envelope struct {
	OK      bool           `json:"ok"`
	Data    map[string]any `json:"data"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
}

func setupRouter(t *testing.T, lookup chatservice.Lookup) (*chi.Mux, string) {
	t.Helper()

	st := memory.New()
	authSvc := authservice.NewService(st, "test-secret")
	chatSvc := chatservice.NewService(st, lookup)

	_, token, err := authSvc.Register(context.Background(), "user@example.com", "hunter2abc")
	if err != nil {
		t.Fatalf("register test user: %v", err)
	}

	r := chi.NewRouter()
	r.Route("/chat", func(cr chi.Router) {
		cr.Use(middleware.RequireAuth(authSvc))
		New(chatSvc).RegisterRoutes(cr)
	})
	return r, token
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, resp.Body.String())
	}
	return env
}

func TestSendCreatesThenResumesThread(t *testing.T) {
	r, token := setupRouter(t, &staticLookup{res: &catalog.Result{
		Response: "True", Title: "Inception", Year: "2010", Type: "movie", IMDBRating: "8.8",
	}})

	resp := doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Inception 2010"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a new thread, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	if !env.OK {
		t.Fatalf("expected ok envelope: %+v", env)
	}
	threadID, _ := env.Data["threadId"].(string)
	if threadID == "" {
		t.Fatal("response must carry the thread id")
	}
	if _, ok := env.Data["user"]; !ok {
		t.Fatal("response must carry the user message")
	}
	if _, ok := env.Data["bot"]; !ok {
		t.Fatal("response must carry the bot message")
	}

	resp = doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Heat", "threadId": threadID})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for an existing thread, got %d", resp.Code)
	}
}

func TestSendRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t, &staticLookup{res: &catalog.Result{Response: "True"}})

	resp := doJSON(r, http.MethodPost, "/chat/send", "", map[string]string{"text": "Inception"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if env.OK || env.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestSendEmptyText(t *testing.T) {
	r, token := setupRouter(t, &staticLookup{res: &catalog.Result{Response: "True"}})

	resp := doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Code != "BAD_REQUEST" {
		t.Fatalf("unexpected code %q", env.Code)
	}
}

func TestSendUnknownThreadIs404(t *testing.T) {
	r, token := setupRouter(t, &staticLookup{res: &catalog.Result{Response: "True"}})

	resp := doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Heat", "threadId": "missing"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	r, token := setupRouter(t, &staticLookup{res: &catalog.Result{
		Response: "True", Title: "Heat", Year: "1995",
	}})

	resp := doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Heat 1995"})
	env := decodeEnvelope(t, resp)
	threadID := env.Data["threadId"].(string)

	resp = doJSON(r, http.MethodGet, "/chat/history?threadId="+threadID, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env = decodeEnvelope(t, resp)
	msgs, ok := env.Data["msgs"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected 2 history messages, got %v", env.Data["msgs"])
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "user" {
		t.Fatalf("history must be oldest first, got role %v", first["role"])
	}
}

func TestThreadsListing(t *testing.T) {
	r, token := setupRouter(t, &staticLookup{res: &catalog.Result{Response: "True"}})

	doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Heat"})
	doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Alien"})

	resp := doJSON(r, http.MethodGet, "/chat/threads", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	items, ok := env.Data["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 threads, got %v", env.Data["items"])
	}
	// Most recently active first.
	newest := items[0].(map[string]any)
	if newest["title"] != "Chat 2" {
		t.Fatalf("expected the newest thread first, got %v", newest["title"])
	}
}

func TestDeleteThenWipe(t *testing.T) {
	r, token := setupRouter(t, &staticLookup{res: &catalog.Result{Response: "True"}})

	env := decodeEnvelope(t, doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Heat"}))
	threadID := env.Data["threadId"].(string)
	doJSON(r, http.MethodPost, "/chat/send", token, map[string]string{"text": "Alien"})

	resp := doJSON(r, http.MethodDelete, "/chat/thread/"+threadID, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Deleting again is a 404: the thread is gone.
	if resp := doJSON(r, http.MethodDelete, "/chat/thread/"+threadID, token, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on re-delete, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodDelete, "/chat/wipe", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Data["message"] != "Wiped" {
		t.Fatalf("unexpected wipe response %+v", env.Data)
	}

	env = decodeEnvelope(t, doJSON(r, http.MethodGet, "/chat/threads", token, nil))
	if items := env.Data["items"].([]any); len(items) != 0 {
		t.Fatalf("expected no threads after wipe, got %d", len(items))
	}
}
