package configs

import "testing"

func TestLoadEnvDefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("EMAIL_PORT", "2525")
	t.Setenv("EMAIL_USERNAME", "shop@example.com")
	t.Setenv("EMAIL_FROM", "")
	t.Setenv("APP_ENV", "production")

	env := LoadEnv()
	if env.Port != "8000" {
		t.Errorf("expected default port, got %q", env.Port)
	}
	if env.EmailPort != 2525 {
		t.Errorf("expected email port 2525, got %d", env.EmailPort)
	}
	if env.EmailFrom != "shop@example.com" {
		t.Errorf("expected from to fall back to username, got %q", env.EmailFrom)
	}
	if !env.IsProduction() {
		t.Errorf("expected production env")
	}
}

func TestGetenvIntRejectsGarbage(t *testing.T) {
	t.Setenv("SOME_PORT", "abc")
	if got := getenvInt("SOME_PORT", 25); got != 25 {
		t.Fatalf("expected fallback, got %d", got)
	}
}
