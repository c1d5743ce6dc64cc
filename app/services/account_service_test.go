package services

import (
	"errors"
	"strings"
	"testing"
)

func register(t *testing.T, f *fixture, username, email string) {
	t.Helper()
	_, err := f.account.Register(bg, RegisterInput{
		Username:        username,
		Email:           email,
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
}

func TestRegisterCreatesInactiveAccountAndQueuesMail(t *testing.T) {
	f := newFixture()
	register(t, f, "jane", "Jane@Example.com")

	user, _ := f.store.Users().FindByUsername(bg, "jane")
	if user == nil {
		t.Fatalf("user not stored")
	}
	if user.IsActive {
		t.Fatalf("new account must start inactive")
	}
	if user.Email != "jane@example.com" {
		t.Fatalf("email not normalised: %q", user.Email)
	}
	if user.Password == "correct-horse" {
		t.Fatalf("password stored in clear")
	}

	mail := f.mail.last(t)
	if mail.To != "jane@example.com" {
		t.Fatalf("mail sent to %q", mail.To)
	}
	if !strings.Contains(mail.HTMLBody, "http://shop.test/email/verify/") {
		t.Fatalf("link missing from body: %s", mail.HTMLBody)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture()
	register(t, f, "jane", "jane@example.com")

	cases := []struct {
		name, username, email, field string
	}{
		{"username", "jane", "other@example.com", "username"},
		{"email", "other", "JANE@example.com", "email"},
	}
	for _, c := range cases {
		_, err := f.account.Register(bg, RegisterInput{
			Username: c.username, Email: c.email, Password: "correct-horse", ConfirmPassword: "correct-horse",
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", c.name, err)
		}
		var fe FieldErrors
		if !errors.As(err, &fe) || fe[c.field] == "" {
			t.Fatalf("%s: expected field error on %s, got %v", c.name, c.field, err)
		}
		if u, _ := f.store.Users().FindByUsername(bg, "other"); u != nil {
			t.Fatalf("%s: row created despite duplicate", c.name)
		}
	}
}

func TestRegisterValidatesForm(t *testing.T) {
	f := newFixture()
	_, err := f.account.Register(bg, RegisterInput{
		Username: "bad name", Email: "nope", Password: "short", ConfirmPassword: "different",
	})
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}
	for _, field := range []string{"username", "email", "password1", "password2"} {
		if fe[field] == "" {
			t.Errorf("expected error on %s, got %v", field, fe)
		}
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("no mail should be sent for an invalid form")
	}
}

func TestLoginRequiresVerification(t *testing.T) {
	f := newFixture()
	register(t, f, "jane", "jane@example.com")

	if _, err := f.account.Authenticate(bg, "jane", "correct-horse"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before verification, got %v", err)
	}

	token := tokenFrom(t, f.mail.last(t))
	if _, err := f.account.Verify(bg, token); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	user, err := f.account.Authenticate(bg, "jane", "correct-horse")
	if err != nil {
		t.Fatalf("expected login to succeed after verification, got %v", err)
	}
	if stored, _ := f.store.Users().FindByID(bg, user.ID); stored.LastLogin == nil {
		t.Fatalf("last login not recorded")
	}

	if _, err := f.account.Authenticate(bg, "jane", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, err := f.account.Authenticate(bg, "nobody", "correct-horse"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestVerificationTokenIsSingleUse(t *testing.T) {
	f := newFixture()
	register(t, f, "jane", "jane@example.com")
	token := tokenFrom(t, f.mail.last(t))

	if _, err := f.account.Verify(bg, token); err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	if _, err := f.account.Verify(bg, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected reuse to fail with ErrInvalidToken, got %v", err)
	}
	if _, err := f.account.Verify(bg, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected garbage token to fail, got %v", err)
	}
}

func TestResendVerification(t *testing.T) {
	f := newFixture()
	register(t, f, "jane", "jane@example.com")

	if err := f.account.ResendVerification(bg, "unknown@example.com"); err != nil {
		t.Fatalf("unknown address should be silent, got %v", err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("no mail expected for unknown address")
	}

	if err := f.account.ResendVerification(bg, " JANE@example.com "); err != nil {
		t.Fatalf("ResendVerification: %v", err)
	}
	if len(f.mail.sent) != 2 {
		t.Fatalf("expected a second verification mail, got %d", len(f.mail.sent))
	}
}

func activeUser(t *testing.T, f *fixture, username, email string) string {
	t.Helper()
	register(t, f, username, email)
	if _, err := f.account.Verify(bg, tokenFrom(t, f.mail.last(t))); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	u, _ := f.store.Users().FindByUsername(bg, username)
	return u.ID
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	janeID := activeUser(t, f, "jane", "jane@example.com")
	activeUser(t, f, "john", "john@example.com")

	_, err := f.account.UpdateProfile(bg, janeID, ProfileInput{Username: "john", Email: "jane@example.com"})
	var fe FieldErrors
	if !errors.As(err, &fe) || fe["username"] == "" {
		t.Fatalf("expected username conflict, got %v", err)
	}

	user, err := f.account.UpdateProfile(bg, janeID, ProfileInput{
		Username: "jane", Email: "jane@corp.example.com", FirstName: " Jane ", LastName: "Doe",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.FirstName != "Jane" || user.Email != "jane@corp.example.com" {
		t.Fatalf("profile not updated: %+v", user)
	}

	if _, err := f.account.UpdateProfile(bg, "", ProfileInput{Username: "x", Email: "x@example.com"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous update, got %v", err)
	}
}

func TestDeleteAccountRemovesUserAndCart(t *testing.T) {
	f := newFixture()
	id := activeUser(t, f, "jane", "jane@example.com")

	cat, _ := f.catalog.CreateCategory(bg, CategoryInput{Name: "Tools"})
	p, _ := f.catalog.CreateProduct(bg, ProductInput{CategoryID: cat.ID, Title: "Hammer", Brand: "Acme", Available: true})
	if _, err := f.cart.AddItem(bg, "cart-1", p.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := f.cart.ClaimCart(bg, "cart-1", id); err != nil {
		t.Fatalf("ClaimCart: %v", err)
	}

	if err := f.account.DeleteAccount(bg, id); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := f.account.ActiveUser(bg, id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted user still resolves: %v", err)
	}
	if cart, _ := f.store.Carts().GetCartWithItems(bg, "cart-1"); cart != nil {
		t.Fatalf("cart of deleted user survived")
	}
	if _, err := f.account.Authenticate(bg, "jane", "correct-horse"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted user can still log in")
	}
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture()
	admin, err := f.account.CreateAdmin(bg, "root", "root@example.com", "supersecret")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if !admin.IsAdmin() || !admin.IsActive {
		t.Fatalf("admin not active staff: %+v", admin)
	}
	if _, err := f.account.CreateAdmin(bg, "root", "other@example.com", "supersecret"); !errors.Is(err, ErrUniquenessViolation) {
		t.Fatalf("expected ErrUniquenessViolation, got %v", err)
	}
}
