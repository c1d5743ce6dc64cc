package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories/memory"
)

type recordingMail struct {
	mu   sync.Mutex
	sent []Email
}

func (m *recordingMail) Enqueue(email Email) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return true
}

func (m *recordingMail) last(t *testing.T) Email {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatalf("expected an email to be queued")
	}
	return m.sent[len(m.sent)-1]
}

var verifyLink = regexp.MustCompile(`/email/verify/([^/"]+)/`)

func tokenFrom(t *testing.T, email Email) string {
	t.Helper()
	m := verifyLink.FindStringSubmatch(email.HTMLBody)
	if m == nil {
		t.Fatalf("no verification link in email body: %s", email.HTMLBody)
	}
	return m[1]
}

type fixture struct {
	store   *memory.Store
	mail    *recordingMail
	tokens  *TokenIssuer
	account *AccountService
	catalog *CatalogService
	cart    *CartService
}

func newFixture() *fixture {
	store := memory.NewStore()
	mail := &recordingMail{}
	tokens := NewTokenIssuer("test-secret", 24*time.Hour)
	return &fixture{
		store:   store,
		mail:    mail,
		tokens:  tokens,
		account: NewAccountService(store.Users(), tokens, mail, helpers.NewValidator(), "http://shop.test/"),
		catalog: NewCatalogService(store.Categories(), store.Products()),
		cart:    NewCartService(store.Carts(), store.CartItems(), store.Products()),
	}
}

var bg = context.Background()
