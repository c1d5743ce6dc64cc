package routes

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories/memory"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/renderer"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/sessions"
)

type discardMail struct{}

func (discardMail) Enqueue(services.Email) bool { return true }

func newTestRouter(t *testing.T) (http.Handler, *services.CatalogService, string) {
	t.Helper()
	store := memory.NewStore()
	catalog := services.NewCatalogService(store.Categories(), store.Products())
	media := t.TempDir()

	router := NewRouter(Dependencies{
		Catalog: catalog,
		Account: services.NewAccountService(store.Users(), services.NewTokenIssuer("route-secret", time.Hour), discardMail{}, helpers.NewValidator(), "http://shop.test"),
		Cart:    services.NewCartService(store.Carts(), store.CartItems(), store.Products()),
		Images:  services.NewLocalImageStore(media),
		SessionStore: sessions.NewCookieSessionStore(false,
			[]byte("0123456789abcdef0123456789abcdef"),
			[]byte("abcdef0123456789abcdef0123456789")),
		Render:    renderer.New("../../templates", true),
		CSRFKey:   []byte("fedcba9876543210fedcba9876543210"),
		MediaRoot: media,
	})
	return router, catalog, media
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRootRedirectsToShop(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := get(router, "/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/shop/" {
		t.Fatalf("expected redirect to /shop/, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestProductRoutesAndCSRFField(t *testing.T) {
	router, catalog, _ := newTestRouter(t)
	ctx := context.Background()

	category, err := catalog.CreateCategory(ctx, services.CategoryInput{Name: "Search", Slug: "search-things"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := catalog.CreateProduct(ctx, services.ProductInput{
		CategoryID: category.ID, Title: "Lamp", Brand: "Glow", Slug: "lamp", Available: true,
	}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	rec := get(router, "/shop/lamp/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected product page, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="gorilla.csrf.Token"`) {
		t.Fatalf("forms must carry the CSRF token")
	}
	if !strings.Contains(rec.Body.String(), "$99.99") {
		t.Fatalf("product without a price should default to 99.99")
	}

	if rec := get(router, "/shop/search/search-things/"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Lamp") {
		t.Fatalf("category route should win over product slug route, got %d", rec.Code)
	}
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/add/", strings.NewReader(url.Values{"product_id": {"x"}, "qty": {"1"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, target := range []string{"/account/dashboard/", "/account/profile/", "/account/delete/", "/admin/", "/admin/products/"} {
		rec := get(router, target)
		if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/account/login/") {
			t.Fatalf("%s: expected redirect to login, got %d %s", target, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestMediaFilesAreServed(t *testing.T) {
	router, _, media := newTestRouter(t)

	dir := filepath.Join(media, "products", "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rec := get(router, "/media/products/products/a.png")
	if rec.Code != http.StatusOK || rec.Body.String() != "png" {
		t.Fatalf("expected media file, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestOversizedUploadIsRejectedBeforeParsing(t *testing.T) {
	router, _, media := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Huge")
	fw, err := mw.CreateFormFile("image", "huge.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte{0}, 20<<20)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/products/add/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for a 20 MiB upload, got %d", rec.Code)
	}

	entries, err := os.ReadDir(media)
	if err != nil || len(entries) != 0 {
		t.Fatalf("nothing should reach the media root: %v %v", entries, err)
	}
}
