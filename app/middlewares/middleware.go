package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/sessions"
)

type UserLoader interface {
	ActiveUser(ctx context.Context, userID string) (*models.User, error)
}

type CategoryLister interface {
	ListTopLevelCategories(ctx context.Context) ([]models.Category, error)
}

type CartCounter interface {
	CountItems(ctx context.Context, cartID string) (int, error)
}

// SessionUserMiddleware puts the session's user and cart id into the request context. A session
// pointing at a deleted or inactive account is cleared so the request continues anonymously.
func SessionUserMiddleware(store sessions.SessionStore, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cartID := store.GetCartID(r); cartID != "" {
				ctx = context.WithValue(ctx, helpers.ContextKeyCartID, cartID)
			}

			if userID := store.GetUserID(r); userID != "" {
				user, err := users.ActiveUser(ctx, userID)
				switch {
				case err == nil:
					ctx = context.WithValue(ctx, helpers.ContextKeyUserID, user.ID)
					ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
				case errors.Is(err, services.ErrUnauthorized):
					log.Printf("SessionUserMiddleware: session user %s is gone or inactive, clearing", userID)
					if clearErr := store.ClearUserID(w, r); clearErr != nil {
						log.Printf("SessionUserMiddleware: failed to clear user: %v", clearErr)
					}
				default:
					log.Printf("SessionUserMiddleware: failed to load user %s: %v", userID, err)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CategoriesMiddleware exposes the top-level categories to every page.
func CategoriesMiddleware(catalog CategoryLister) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			categories, err := catalog.ListTopLevelCategories(r.Context())
			if err != nil {
				log.Printf("CategoriesMiddleware: failed to load categories: %v", err)
				categories = []models.Category{}
			}
			ctx := context.WithValue(r.Context(), helpers.ContextKeyCategories, categories)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CartCountMiddleware(carts CartCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := helpers.CurrentCartID(r)
			count, err := carts.CountItems(r.Context(), cartID)
			if err != nil {
				log.Printf("CartCountMiddleware: Error getting cart item count for cartID %s: %v", cartID, err)
				count = 0
			}
			ctx := context.WithValue(r.Context(), helpers.CartCountKey, count)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin sends anonymous visitors to the login page, passing the requested path as next.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if helpers.CurrentUser(r) == nil {
			target := "/account/login/?next=" + url.QueryEscape(r.URL.RequestURI())
			helpers.RedirectWithMessage(w, r, target, "warning", "Please log in to continue.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LimitRequestBody answers 413 for bodies over limit bytes. It has to run before anything that
// parses the form, csrf.Protect included.
func LimitRequestBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				log.Printf("LimitRequestBody: %s %s rejected, %d bytes", r.Method, r.URL.Path, r.ContentLength)
				http.Error(w, "Request body too large.", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
