package middlewares

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
)

func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.CurrentUser(r)
		if user == nil {
			log.Println("AdminAuthMiddleware: no user in context. Redirecting to login.")
			helpers.RedirectWithMessage(w, r, "/account/login/", "error", "You must log in to access the admin panel.")
			return
		}

		if !user.IsAdmin() || !user.IsActive {
			log.Printf("AdminAuthMiddleware: User %s (%s) attempted to access admin panel without admin role.", user.ID, user.Username)
			http.Error(w, "You do not have permission to access this page.", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
