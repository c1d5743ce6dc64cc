package routes

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/bigcorp-shop/app/handlers"
	"github.com/Rakhulsr/bigcorp-shop/app/handlers/admin"
	"github.com/Rakhulsr/bigcorp-shop/app/middlewares"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// maxRequestBody leaves room for the other product form fields next to one image.
const maxRequestBody = services.MaxProductImageSize + 1<<20

type Dependencies struct {
	Catalog *services.CatalogService
	Account *services.AccountService
	Cart    *services.CartService
	Images  services.ImageStore

	SessionStore sessions.SessionStore
	Render       *render.Render

	CSRFKey   []byte
	Secure    bool
	StaticDir string
	MediaRoot string
}

func NewRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.Use(
		middlewares.LimitRequestBody(maxRequestBody),
		csrf.Protect(deps.CSRFKey,
			csrf.Secure(deps.Secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
		),
		middlewares.SessionUserMiddleware(deps.SessionStore, deps.Account),
		middlewares.CategoriesMiddleware(deps.Catalog),
		middlewares.CartCountMiddleware(deps.Cart),
	)

	shopHandler := handlers.NewShopHandler(deps.Catalog, deps.Render)
	accountHandler := handlers.NewAccountHandler(deps.Account, deps.Cart, deps.SessionStore, deps.Render)
	cartHandler := handlers.NewCartHandler(deps.Cart, deps.SessionStore, deps.Render)
	adminHandler := admin.NewAdminHandler(deps.Catalog, deps.Images, deps.Render)

	router.Handle("/", http.RedirectHandler("/shop/", http.StatusFound)).Methods("GET")

	shop := router.PathPrefix("/shop").Subrouter()
	shop.HandleFunc("/", shopHandler.Products).Methods("GET")
	shop.HandleFunc("/search/{slug}/", shopHandler.CategoryList).Methods("GET")
	shop.HandleFunc("/{slug}/", shopHandler.ProductDetail).Methods("GET")

	account := router.PathPrefix("/account").Subrouter()
	account.HandleFunc("/register/", accountHandler.RegisterGetHandler).Methods("GET")
	account.HandleFunc("/register/", accountHandler.RegisterPostHandler).Methods("POST")
	account.HandleFunc("/email-verification-sent/", accountHandler.VerificationSentHandler).Methods("GET")
	account.HandleFunc("/email-verification-sent/", accountHandler.ResendVerificationHandler).Methods("POST")
	account.HandleFunc("/login/", accountHandler.LoginGetHandler).Methods("GET")
	account.HandleFunc("/login/", accountHandler.LoginPostHandler).Methods("POST")
	account.HandleFunc("/logout/", accountHandler.LogoutHandler).Methods("GET")

	account.Handle("/dashboard/", middlewares.RequireLogin(http.HandlerFunc(accountHandler.DashboardHandler))).Methods("GET")
	account.Handle("/profile/", middlewares.RequireLogin(http.HandlerFunc(accountHandler.ProfileGetHandler))).Methods("GET")
	account.Handle("/profile/", middlewares.RequireLogin(http.HandlerFunc(accountHandler.ProfilePostHandler))).Methods("POST")
	account.Handle("/delete/", middlewares.RequireLogin(http.HandlerFunc(accountHandler.DeleteGetHandler))).Methods("GET")
	account.Handle("/delete/", middlewares.RequireLogin(http.HandlerFunc(accountHandler.DeletePostHandler))).Methods("POST")

	router.HandleFunc("/email/verify/{token}/", accountHandler.VerifyEmailHandler).Methods("GET")

	cart := router.PathPrefix("/cart").Subrouter()
	cart.HandleFunc("/", cartHandler.GetCart).Methods("GET")
	cart.HandleFunc("/add/", cartHandler.AddItemCart).Methods("POST")
	cart.HandleFunc("/update/", cartHandler.UpdateItemCart).Methods("POST")
	cart.HandleFunc("/delete/", cartHandler.DeleteItemCart).Methods("POST")
	cart.HandleFunc("/clear/", cartHandler.ClearCart).Methods("POST")

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.AdminAuthMiddleware)
	adminRouter.HandleFunc("/", adminHandler.Dashboard).Methods("GET")

	adminRouter.HandleFunc("/categories/", adminHandler.GetCategoriesPage).Methods("GET")
	adminRouter.HandleFunc("/categories/add/", adminHandler.AddCategoryPage).Methods("GET")
	adminRouter.HandleFunc("/categories/add/", adminHandler.AddCategoryPost).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/edit/", adminHandler.EditCategoryPage).Methods("GET")
	adminRouter.HandleFunc("/categories/{id}/edit/", adminHandler.EditCategoryPost).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/delete/", adminHandler.DeleteCategoryPost).Methods("POST")

	adminRouter.HandleFunc("/products/", adminHandler.GetProductsPage).Methods("GET")
	adminRouter.HandleFunc("/products/add/", adminHandler.AddProductPage).Methods("GET")
	adminRouter.HandleFunc("/products/add/", adminHandler.AddProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/edit/", adminHandler.EditProductPage).Methods("GET")
	adminRouter.HandleFunc("/products/{id}/edit/", adminHandler.EditProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/delete/", adminHandler.DeleteProductPost).Methods("POST")

	if deps.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}
	if deps.MediaRoot != "" {
		router.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(deps.MediaRoot))))
	}

	return router
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.Printf("csrfFailure: %s %s rejected: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	http.Error(w, "Forbidden - CSRF token missing or incorrect.", http.StatusForbidden)
}
