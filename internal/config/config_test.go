package config

import (
	"os"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "DATABASE_PATH", "JWT_SECRET", "ALLOWED_ORIGINS", "LOG_LEVEL"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("Port = %q, want 8080", cfg.Port)
		}
		if cfg.JWTSecret != "dev-secret-key" {
			t.Errorf("JWTSecret = %q, want dev-secret-key", cfg.JWTSecret)
		}
		if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://localhost:3000"}) {
			t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATABASE_PATH", ":memory:")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Port != "9090" || cfg.DatabasePath != ":memory:" || cfg.LogLevel != "debug" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		want := []string{"https://a.example.com", "https://b.example.com"}
		if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
			t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
		}
	})
}
