package sessions

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps session values in a Redis hash; the browser only holds a signed session id.
type RedisSessionStore struct {
	client *redis.Client
	codec  *securecookie.SecureCookie
	secure bool
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, secure bool, hashKey, blockKey []byte) *RedisSessionStore {
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(sessionMaxAge / time.Second))
	return &RedisSessionStore{
		client: client,
		codec:  codec,
		secure: secure,
		ttl:    sessionMaxAge,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (s *RedisSessionStore) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	var id string
	if err := s.codec.Decode(sessionCookieName, cookie.Value, &id); err != nil {
		log.Printf("RedisSessionStore: invalid session cookie: %v", err)
		return ""
	}
	return id
}

// ensureSession issues a new id when the request carries none.
func (s *RedisSessionStore) ensureSession(w http.ResponseWriter, r *http.Request) (string, error) {
	if id := s.sessionID(r); id != "" {
		return id, nil
	}
	id := uuid.New().String()
	if err := s.writeCookie(w, r, id); err != nil {
		return "", err
	}
	return id, nil
}

// writeCookie sends id to the browser and swaps it into r so later calls in the same request
// see the same session.
func (s *RedisSessionStore) writeCookie(w http.ResponseWriter, r *http.Request, id string) error {
	encoded, err := s.codec.Encode(sessionCookieName, id)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	others := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range others {
		if c.Name != sessionCookieName {
			r.AddCookie(c)
		}
	}
	r.AddCookie(cookie)
	return nil
}

func (s *RedisSessionStore) get(r *http.Request, field string) string {
	id := s.sessionID(r)
	if id == "" {
		return ""
	}
	value, err := s.client.HGet(r.Context(), sessionKey(id), field).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("RedisSessionStore: failed to read %s: %v", field, err)
		}
		return ""
	}
	return value
}

func (s *RedisSessionStore) set(w http.ResponseWriter, r *http.Request, field, value string) error {
	id, err := s.ensureSession(w, r)
	if err != nil {
		return err
	}
	key := sessionKey(id)
	_, err = s.client.TxPipelined(r.Context(), func(pipe redis.Pipeliner) error {
		pipe.HSet(r.Context(), key, field, value)
		pipe.Expire(r.Context(), key, s.ttl)
		return nil
	})
	return err
}

func (s *RedisSessionStore) GetUserID(r *http.Request) string {
	return s.get(r, userIDSessionKey)
}

// SetUserID moves the session to a new id holding the user and the current cart, then drops the
// old hash. An id handed out before login never becomes an authenticated one.
func (s *RedisSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	ctx := r.Context()
	oldID := s.sessionID(r)
	values := map[string]interface{}{userIDSessionKey: userID}
	if cartID := s.get(r, cartIDSessionKey); cartID != "" {
		values[cartIDSessionKey] = cartID
	}

	id := uuid.New().String()
	key := sessionKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		pipe.Expire(ctx, key, s.ttl)
		if oldID != "" {
			pipe.Del(ctx, sessionKey(oldID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start session for user %s: %w", userID, err)
	}
	return s.writeCookie(w, r, id)
}

func (s *RedisSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	id := s.sessionID(r)
	if id == "" {
		return nil
	}
	return s.client.HDel(r.Context(), sessionKey(id), userIDSessionKey).Err()
}

func (s *RedisSessionStore) GetCartID(r *http.Request) string {
	return s.get(r, cartIDSessionKey)
}

func (s *RedisSessionStore) SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error {
	return s.set(w, r, cartIDSessionKey, cartID)
}

func (s *RedisSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	if id := s.sessionID(r); id != "" {
		if err := s.client.Del(r.Context(), sessionKey(id)).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", id, err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
