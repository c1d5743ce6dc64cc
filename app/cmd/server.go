package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/configs"
	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories"
	"github.com/Rakhulsr/bigcorp-shop/app/routes"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/renderer"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/sessions"
	"gorm.io/gorm"
)

type appServices struct {
	catalog *services.CatalogService
	account *services.AccountService
	cart    *services.CartService
}

func newServices(db *gorm.DB, env configs.ENV, mail services.MailEnqueuer) appServices {
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)

	tokens := services.NewTokenIssuer(env.JWTSecret, services.DefaultVerificationTTL)

	return appServices{
		catalog: services.NewCatalogService(categoryRepo, productRepo),
		account: services.NewAccountService(userRepo, tokens, mail, helpers.NewValidator(), env.APP_URL),
		cart:    services.NewCartService(cartRepo, cartItemRepo, productRepo),
	}
}

func newSessionStore(ctx context.Context, env configs.ENV, keys *configs.SessionKeys) (sessions.SessionStore, error) {
	switch env.SessionBackend {
	case "redis":
		client, err := configs.OpenRedis(ctx, env)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Redis session store at %s.", env.RedisAddr)
		return sessions.NewRedisSessionStore(client, env.IsProduction(), keys.AuthKey, keys.EncKey), nil
	case "cookie", "":
		log.Println("✅ Cookie session store initialized.")
		return sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", env.SessionBackend)
	}
}

func newImageStore(env configs.ENV) (services.ImageStore, error) {
	if env.MinioEndpoint == "" {
		log.Printf("✅ Product images stored under %s.", env.MediaRoot)
		return services.NewLocalImageStore(env.MediaRoot), nil
	}
	store, err := services.NewMinioImageStore(services.MinioConfig{
		Endpoint:  env.MinioEndpoint,
		AccessKey: env.MinioAccessKey,
		SecretKey: env.MinioSecretKey,
		Bucket:    env.MinioBucket,
		UseSSL:    env.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Product images stored in bucket %s at %s.", env.MinioBucket, env.MinioEndpoint)
	return store, nil
}

// Serve runs the storefront until SIGINT or SIGTERM, then drains in-flight requests and queued mail.
func Serve(env configs.ENV) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	log.Println("✅ Database connected.")

	sessionStore, err := newSessionStore(ctx, env, keys)
	if err != nil {
		return err
	}
	images, err := newImageStore(env)
	if err != nil {
		return err
	}

	mailQueue := services.NewMailQueue(services.NewMailer(services.Config{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	}), 100)
	mailQueue.Start()

	svc := newServices(db, env, mailQueue)

	router := routes.NewRouter(routes.Dependencies{
		Catalog:      svc.catalog,
		Account:      svc.account,
		Cart:         svc.cart,
		Images:       images,
		SessionStore: sessionStore,
		Render:       renderer.New(env.TemplateDir, !env.IsProduction()),
		CSRFKey:      keys.CSRFKey,
		Secure:       env.IsProduction(),
		StaticDir:    "static",
		MediaRoot:    env.MediaRoot,
	})

	server := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Serve: server shutdown: %v", err)
	}
	if err := mailQueue.Shutdown(shutdownCtx); err != nil {
		log.Printf("Serve: mail queue did not drain: %v", err)
	}
	log.Println("Server stopped.")
	return nil
}
