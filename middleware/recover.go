package middleware

import (
	"fmt"
	"insta-marketplace/utils"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Recovery turns a panic in any handler below it into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Ctx(r.Context()).Error().
				Str("component", "Recovery").
				Str("error", fmt.Sprintf("%v", rec)).
				Str("stack", string(debug.Stack())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")
			utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse{Error: "Something went wrong!"})
		}()
		next.ServeHTTP(w, r)
	})
}
