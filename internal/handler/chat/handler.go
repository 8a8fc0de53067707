package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinechat/backend/internal/middleware"
	chatService "github.com/cinechat/backend/internal/service/chat"
	"github.com/cinechat/backend/internal/store"
	"github.com/cinechat/backend/pkg/utils"
)

// Handler exposes the conversation endpoints.
type Handler struct {
	chatSvc *chatService.Service
}

// New builds the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat endpoints. The caller wraps them with
// the auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/send", h.handleSend)
	r.Get("/threads", h.handleThreads)
	r.Get("/history", h.handleHistory)
	r.Delete("/wipe", h.handleWipe)
	r.Delete("/thread/{id}", h.handleDelete)
}

type messageView struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	var payload struct {
		Text     string `json:"text"`
		ThreadID string `json:"threadId"`
		Title    string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondFail(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	result, err := h.chatSvc.Send(r.Context(), chatService.SendInput{
		UserID:   id.UserID,
		Text:     payload.Text,
		ThreadID: payload.ThreadID,
		Title:    payload.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, chatService.ErrTextRequired):
			utils.RespondFail(w, http.StatusBadRequest, "BAD_REQUEST", "Text required")
		case errors.Is(err, store.ErrNotFound):
			utils.RespondFail(w, http.StatusNotFound, "NOT_FOUND", "Thread not found")
		case errors.Is(err, store.ErrDuplicate):
			utils.RespondFail(w, http.StatusConflict, "CONFLICT", "Thread title already in use")
		default:
			utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	utils.RespondOK(w, status, map[string]any{
		"threadId": result.Thread.ID,
		"title":    result.Thread.Title,
		"user":     messageView{ID: result.UserMsg.ID, Text: result.UserMsg.Text, TS: result.UserMsg.CreatedAt},
		"bot":      messageView{ID: result.BotMsg.ID, Text: result.BotMsg.Text, TS: result.BotMsg.CreatedAt},
	})
}

func (h *Handler) handleThreads(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	threads, err := h.chatSvc.ListThreads(r.Context(), id.UserID)
	if err != nil {
		utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	items := make([]map[string]any, 0, len(threads))
	for _, th := range threads {
		items = append(items, map[string]any{
			"id":        th.ID,
			"title":     th.Title,
			"updatedAt": th.UpdatedAt,
		})
	}
	utils.RespondOK(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	threadID := r.URL.Query().Get("threadId")
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	th, msgs, err := h.chatSvc.History(r.Context(), threadID, id.UserID, limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondFail(w, http.StatusNotFound, "NOT_FOUND", "Thread not found")
			return
		}
		utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	views := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, map[string]any{
			"id":   m.ID,
			"role": m.Role,
			"text": m.Text,
			"ts":   m.CreatedAt,
		})
	}
	utils.RespondOK(w, http.StatusOK, map[string]any{
		"threadId": th.ID,
		"title":    th.Title,
		"msgs":     views,
	})
}

func (h *Handler) handleWipe(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	if err := h.chatSvc.Wipe(r.Context(), id.UserID); err != nil {
		utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	utils.RespondOK(w, http.StatusOK, map[string]string{"message": "Wiped"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	th, err := h.chatSvc.DeleteThread(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondFail(w, http.StatusNotFound, "NOT_FOUND", "Thread not found")
			return
		}
		utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	utils.RespondOK(w, http.StatusOK, map[string]string{"threadId": th.ID})
}
