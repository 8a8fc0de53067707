package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cinechat/backend/internal/store"
	"github.com/cinechat/backend/pkg/utils"
)

// Handler exposes the paginated user listing.
type Handler struct {
	users store.UserStore
}

// New builds the user handler.
func New(users store.UserStore) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes mounts the user endpoints. The caller wraps them with
// the auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r.URL.Query().Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := parseIntParam(r.URL.Query().Get("limit"), 15)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	items, total, err := h.users.ListUsers(r.Context(), page, limit)
	if err != nil {
		utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	utils.RespondOK(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
