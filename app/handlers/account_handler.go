package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type AccountHandler struct {
	account      *services.AccountService
	cart         *services.CartService
	sessionStore sessions.SessionStore
	render       *render.Render
}

func NewAccountHandler(account *services.AccountService, cart *services.CartService, sessionStore sessions.SessionStore, r *render.Render) *AccountHandler {
	return &AccountHandler{
		account:      account,
		cart:         cart,
		sessionStore: sessionStore,
		render:       r,
	}
}

func (h *AccountHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, page map[string]interface{}) {
	data := helpers.GetBaseData(r, page)
	_ = h.render.HTML(w, status, name, data)
}

func (h *AccountHandler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	if helpers.CurrentUser(r) != nil {
		http.Redirect(w, r, "/account/dashboard/", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, http.StatusOK, "account/register", map[string]interface{}{
		"Title":      "Register",
		"IsAuthPage": true,
		"Form":       services.RegisterInput{},
		"Errors":     map[string]string{},
	})
}

func (h *AccountHandler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("RegisterPostHandler: Error parsing form: %v", err)
		helpers.RedirectWithMessage(w, r, "/account/register/", "error", "Could not read the form.")
		return
	}

	in := services.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password1"),
		ConfirmPassword: r.PostFormValue("password2"),
	}

	user, err := h.account.Register(r.Context(), in)
	if err != nil {
		var fieldErrs services.FieldErrors
		if errors.As(err, &fieldErrs) {
			in.Password, in.ConfirmPassword = "", ""
			h.renderPage(w, r, http.StatusOK, "account/register", map[string]interface{}{
				"Title":      "Register",
				"IsAuthPage": true,
				"Form":       in,
				"Errors":     map[string]string(fieldErrs),
			})
			return
		}
		log.Printf("RegisterPostHandler: Error registering %q: %v", in.Username, err)
		helpers.RedirectWithMessage(w, r, "/account/register/", "error", "Registration failed. Please try again.")
		return
	}

	log.Printf("RegisterPostHandler: User %s (%s) registered, verification pending.", user.Username, user.ID)
	http.Redirect(w, r, "/account/email-verification-sent/", http.StatusSeeOther)
}

func (h *AccountHandler) VerificationSentHandler(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "account/email_verification_sent", map[string]interface{}{
		"Title":      "Check your inbox",
		"IsAuthPage": true,
	})
}

func (h *AccountHandler) ResendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		helpers.RedirectWithMessage(w, r, "/account/email-verification-sent/", "error", "Could not read the form.")
		return
	}
	if err := h.account.ResendVerification(r.Context(), r.PostFormValue("email")); err != nil {
		log.Printf("ResendVerificationHandler: %v", err)
		helpers.RedirectWithMessage(w, r, "/account/email-verification-sent/", "error", "Could not send the email. Please try again later.")
		return
	}
	helpers.RedirectWithMessage(w, r, "/account/email-verification-sent/", "success",
		"If an account with that address is waiting for verification, a new link is on its way.")
}

func (h *AccountHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	user, err := h.account.Verify(r.Context(), token)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidToken) {
			log.Printf("VerifyEmailHandler: %v", err)
		}
		h.renderPage(w, r, http.StatusBadRequest, "account/email_verified", map[string]interface{}{
			"Title":    "Verification failed",
			"Verified": false,
		})
		return
	}

	log.Printf("VerifyEmailHandler: User %s (%s) activated.", user.Username, user.ID)
	h.renderPage(w, r, http.StatusOK, "account/email_verified", map[string]interface{}{
		"Title":    "Email verified",
		"Verified": true,
	})
}

func (h *AccountHandler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if helpers.CurrentUser(r) != nil {
		http.Redirect(w, r, "/shop/", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, http.StatusOK, "account/login", map[string]interface{}{
		"Title":      "Login",
		"IsAuthPage": true,
		"Next":       safeNext(r.URL.Query().Get("next")),
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Login", URL: "/account/login/"},
		},
	})
}

func (h *AccountHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("LoginPostHandler: Error parsing form: %v", err)
		helpers.RedirectWithMessage(w, r, "/account/login/", "error", "Could not read the form.")
		return
	}

	username := r.PostFormValue("username")
	user, err := h.account.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, services.ErrUnauthorized) {
			log.Printf("LoginPostHandler: Error authenticating %q: %v", username, err)
		}
		loginURL := "/account/login/"
		if next := safeNext(r.PostFormValue("next")); next != "" {
			loginURL += "?next=" + url.QueryEscape(next)
		}
		helpers.RedirectWithMessage(w, r, loginURL, "error", "Username or Password is incorrect")
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("LoginPostHandler: Error setting user session: %v", err)
		helpers.RedirectWithMessage(w, r, "/account/login/", "error", "Could not start your session.")
		return
	}

	if cartID := h.sessionStore.GetCartID(r); cartID != "" {
		if err := h.cart.ClaimCart(r.Context(), cartID, user.ID); err != nil {
			log.Printf("LoginPostHandler: Failed to attach cart %s to user %s: %v", cartID, user.ID, err)
		}
	}

	target := safeNext(r.PostFormValue("next"))
	if target == "" {
		target = "/account/dashboard/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AccountHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("LogoutHandler: Error clearing session: %v", err)
	}
	http.Redirect(w, r, "/shop/", http.StatusSeeOther)
}

func (h *AccountHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "account/dashboard", map[string]interface{}{
		"Title": "Dashboard",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Dashboard", URL: "/account/dashboard/"},
		},
	})
}

func (h *AccountHandler) ProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)
	h.renderPage(w, r, http.StatusOK, "account/profile", map[string]interface{}{
		"Title": "Manage profile",
		"Form": services.ProfileInput{
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
		"Errors": map[string]string{},
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Dashboard", URL: "/account/dashboard/"},
			{Name: "Profile", URL: "/account/profile/"},
		},
	})
}

func (h *AccountHandler) ProfilePostHandler(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)
	if err := r.ParseForm(); err != nil {
		helpers.RedirectWithMessage(w, r, "/account/profile/", "error", "Could not read the form.")
		return
	}

	in := services.ProfileInput{
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
	}

	if _, err := h.account.UpdateProfile(r.Context(), user.ID, in); err != nil {
		var fieldErrs services.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			h.renderPage(w, r, http.StatusOK, "account/profile", map[string]interface{}{
				"Title":  "Manage profile",
				"Form":   in,
				"Errors": map[string]string(fieldErrs),
			})
		case errors.Is(err, services.ErrUnauthorized):
			helpers.RedirectWithMessage(w, r, "/account/login/", "warning", "Please log in to continue.")
		default:
			log.Printf("ProfilePostHandler: Error updating user %s: %v", user.ID, err)
			helpers.RedirectWithMessage(w, r, "/account/profile/", "error", "Could not update your profile.")
		}
		return
	}

	helpers.RedirectWithMessage(w, r, "/account/dashboard/", "success", "Your profile has been updated.")
}

func (h *AccountHandler) DeleteGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "account/delete", map[string]interface{}{
		"Title": "Delete account",
	})
}

func (h *AccountHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)
	if err := h.account.DeleteAccount(r.Context(), user.ID); err != nil {
		log.Printf("DeletePostHandler: Error deleting user %s: %v", user.ID, err)
		helpers.RedirectWithMessage(w, r, "/account/delete/", "error", "Could not delete your account.")
		return
	}
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("DeletePostHandler: Error clearing session: %v", err)
	}
	helpers.RedirectWithMessage(w, r, "/shop/", "success", "Your account has been deleted.")
}

// safeNext only allows redirects to paths on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
