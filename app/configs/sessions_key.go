package configs

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

func decodeKey(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%s environment variable not set", name)
	}
	key, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from Base64: %w", name, err)
	}
	return key, nil
}

func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey)
	if err != nil {
		return nil, err
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	csrfKey, err := decodeKey("CSRF_KEY", env.CSRFKey)
	if err != nil {
		return nil, err
	}
	if len(csrfKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY has invalid length %d after decoding. Must be 32 bytes", len(csrfKey))
	}

	log.Println("✅ Session keys loaded and decoded successfully.")
	return &SessionKeys{
		AuthKey: authKey,
		EncKey:  encKey,
		CSRFKey: csrfKey,
	}, nil
}

// GenerateSessionKeys writes a fresh set of keys to path in .env format.
func GenerateSessionKeys(path string) error {
	keys := []struct {
		name string
		size int
	}{
		{"APP_AUTH_KEY", 64},
		{"APP_ENC_KEY", 32},
		{"CSRF_KEY", 32},
		{"JWT_SECRET", 32},
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	for _, k := range keys {
		raw := securecookie.GenerateRandomKey(k.size)
		if raw == nil {
			return fmt.Errorf("could not generate %s", k.name)
		}
		if _, err := fmt.Fprintf(file, "%s=%s\n", k.name, base64.URLEncoding.EncodeToString(raw)); err != nil {
			return fmt.Errorf("failed to write keys to file %s: %w", path, err)
		}
	}

	log.Printf("✅ Keys have been written to '%s'. Copy them into your .env file.", path)
	return nil
}
