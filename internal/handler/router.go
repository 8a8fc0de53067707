package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	authHandler "github.com/cinechat/backend/internal/handler/auth"
	chatHandler "github.com/cinechat/backend/internal/handler/chat"
	userHandler "github.com/cinechat/backend/internal/handler/user"
	"github.com/cinechat/backend/internal/middleware"
	authService "github.com/cinechat/backend/internal/service/auth"
	chatService "github.com/cinechat/backend/internal/service/chat"
	"github.com/cinechat/backend/internal/store"
	"github.com/cinechat/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20 // 1 MB, matches the JSON body limit of the API

// NewRouter wires HTTP routes to core services.
func NewRouter(authSvc *authService.Service, chatSvc *chatService.Service, users store.UserStore, frontOrigin string, secureCookie bool) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(frontOrigin))
	r.Use(middleware.MaxBody(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondFail(w, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	authHandler.New(authSvc, secureCookie).RegisterRoutes(r)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(authSvc))
		userHandler.New(users).RegisterRoutes(protected)
	})

	r.Route("/chat", func(chatRoutes chi.Router) {
		chatRoutes.Use(middleware.RequireAuth(authSvc))
		chatHandler.New(chatSvc).RegisterRoutes(chatRoutes)
	})

	return r
}
