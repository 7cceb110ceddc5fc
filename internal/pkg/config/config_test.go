package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Storage != StorageMongo || cfg.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Mongo.Database != "studio" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected store defaults %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Google.ClientID != "" || cfg.Google.CertsURL == "" {
		t.Errorf("unexpected google defaults %+v", cfg.Google)
	}
	if !cfg.Pretty() {
		t.Error("expected pretty logs in development")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"ENV":              "production",
		"STORAGE":          "memory",
		"TOKEN_TTL":        "90m",
		"REDIS_DB":         "3",
		"GOOGLE_CLIENT_ID": "client.apps.googleusercontent.com",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage != StorageMemory || cfg.TokenTTL != 90*time.Minute || cfg.Redis.DB != 3 || cfg.Pretty() {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Google.ClientID != "client.apps.googleusercontent.com" {
		t.Errorf("unexpected client id %q", cfg.Google.ClientID)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret": {},
		"bad storage":    {"JWT_SECRET": "s", "STORAGE": "sqlite"},
		"zero ttl":       {"JWT_SECRET": "s", "TOKEN_TTL": "0s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	cfg, err := LoadClient(context.Background(), envconfig.MapLookuper(map[string]string{
		"STUDIO_BACKEND":        "memory",
		"STUDIO_FETCH_ORDERING": "issue",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.FetchOrdering != "issue" || cfg.Timeout != 10*time.Second {
		t.Errorf("unexpected client config %+v", cfg)
	}

	if _, err := LoadClient(context.Background(), envconfig.MapLookuper(map[string]string{
		"STUDIO_BACKEND": "carrier-pigeon",
	})); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
