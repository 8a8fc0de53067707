package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/cinechat/backend/pkg/utils"
)

// Recover converts panics into the opaque 500 envelope. The stack only
// goes to the server log.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
