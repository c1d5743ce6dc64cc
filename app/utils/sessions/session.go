package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "bigcorp-session"

	userIDSessionKey = "userID"
	cartIDSessionKey = "cartID"

	sessionMaxAge = 14 * 24 * time.Hour
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	// SetUserID runs on login. The browser gets a new session value and the cart id carries over.
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	GetCartID(r *http.Request) string
	SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession always hands back a usable session; a cookie that fails to decode starts a fresh one.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session
}

func (c *CookieSessionStore) getString(r *http.Request, key string) string {
	value, _ := c.getSession(r).Values[key].(string)
	return value
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.getString(r, userIDSessionKey)
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, userIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetCartID(r *http.Request) string {
	return c.getString(r, cartIDSessionKey)
}

func (c *CookieSessionStore) SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error {
	session := c.getSession(r)
	session.Values[cartIDSessionKey] = cartID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
