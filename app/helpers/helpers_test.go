package helpers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/go-playground/validator/v10"
)

type signup struct {
	Username string `form:"username" validate:"required,username"`
	Password string `form:"password1" validate:"required,min=8"`
	Confirm  string `form:"password2" validate:"required,eqfield=Password"`
}

func TestValidatorReportsFormFieldNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(&signup{Username: "bad name!", Password: "short", Confirm: "other"})

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	msgs := FormatValidationErrors(verrs)
	for _, field := range []string{"username", "password1", "password2"} {
		if msgs[field] == "" {
			t.Errorf("expected message for %s, got %v", field, msgs)
		}
	}
}

func TestValidatorAcceptsDjangoStyleUsernames(t *testing.T) {
	v := NewValidator()
	if err := v.Struct(&signup{Username: "jane.doe+shop@x-1_", Password: "longenough", Confirm: "longenough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHashAndCompare(t *testing.T) {
	hash := HashPassword("s3cret-pass")
	if hash == "" || hash == "s3cret-pass" {
		t.Fatalf("password not hashed: %q", hash)
	}
	if !PasswordCompare(hash, []byte("s3cret-pass")) {
		t.Fatalf("expected password to match")
	}
	if PasswordCompare(hash, []byte("wrong")) {
		t.Fatalf("expected mismatch")
	}
}

func TestRedirectWithMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	rec := httptest.NewRecorder()
	RedirectWithMessage(rec, req, "/cart/", "error", "Product not found")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/cart/?status=error&message=Product+not+found" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestGetBaseDataPicksUpContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/shop/?status=success&message=hi", nil)
	user := &models.User{ID: "u1", Username: "jane", Role: models.RoleCustomer}
	ctx := context.WithValue(req.Context(), ContextKeyUser, user)
	ctx = context.WithValue(ctx, CartCountKey, 3)
	ctx = context.WithValue(ctx, ContextKeyCategories, []models.Category{{Name: "Tools"}})
	req = req.WithContext(ctx)

	data := GetBaseData(req, map[string]interface{}{"Title": "Shop"})
	if data["Title"] != "Shop" {
		t.Errorf("page title overwritten: %v", data["Title"])
	}
	if data["IsLoggedIn"] != true || data["UserID"] != "u1" {
		t.Errorf("user not exposed: %v", data)
	}
	if data["CartCount"] != 3 {
		t.Errorf("unexpected cart count %v", data["CartCount"])
	}
	if cats := data["Categories"].([]models.Category); len(cats) != 1 {
		t.Errorf("unexpected categories %v", cats)
	}
	if data["Message"] != "hi" || data["MessageStatus"] != "success" {
		t.Errorf("flash not exposed: %v", data)
	}
}
