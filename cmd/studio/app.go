package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/service"
	"github.com/tuneup/studio/internal/infrastructure/google"
	"github.com/tuneup/studio/internal/infrastructure/local"
	"github.com/tuneup/studio/internal/infrastructure/memory"
	"github.com/tuneup/studio/internal/infrastructure/remote"
	"github.com/tuneup/studio/internal/pkg/config"
	"github.com/tuneup/studio/internal/state"
	"github.com/tuneup/studio/pkg/logger"
)

const memoryTokenTTL = 24 * time.Hour

// flags are the persistent overrides of the STUDIO_* settings.
type flags struct {
	backend       string
	url           string
	sessionFile   string
	fetchOrdering string
	logLevel      string
}

// app is the composition root. It is built once per process, so the shell
// keeps one store across commands.
type app struct {
	cfg    *config.ClientConfig
	log    zerolog.Logger
	studio *state.Studio

	// remote is nil in memory mode.
	remote *remote.Client
	// idToken feeds google-login.
	idToken string
}

// savedSession is the session file layout.
type savedSession struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func loadClientConfig(ctx context.Context, f flags) (*config.ClientConfig, error) {
	overrides := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			overrides[key] = value
		}
	}
	set("STUDIO_BACKEND", f.backend)
	set("STUDIO_BACKEND_URL", f.url)
	set("STUDIO_SESSION_FILE", f.sessionFile)
	set("STUDIO_FETCH_ORDERING", f.fetchOrdering)
	set("STUDIO_LOG_LEVEL", f.logLevel)

	lookuper := envconfig.MultiLookuper(envconfig.MapLookuper(overrides), envconfig.OsLookuper())
	return config.LoadClient(ctx, lookuper)
}

func newApp(ctx context.Context, f flags) (*app, error) {
	cfg, err := loadClientConfig(ctx, f)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, Service: "studio"})

	ordering, err := state.ParseFetchOrdering(cfg.FetchOrdering)
	if err != nil {
		return nil, err
	}
	opts := state.Options{FetchOrdering: ordering, Log: log}

	a := &app{cfg: cfg, log: log, idToken: cfg.GoogleIDToken}
	federated := federatedToken{token: &a.idToken}
	switch cfg.Backend {
	case config.BackendMemory:
		identities := service.NewIdentityService(
			memory.NewIdentityRepository(), memory.NewSessionRevoker(), nil, cfg.JWTSecret, memoryTokenTTL, log)
		backend := local.NewBackend(identities, service.NewDocumentService(memory.NewDocumentRepository()))
		a.studio = state.New(state.Backend{
			Identities: backend.Identities(),
			Documents:  backend.Documents(),
			Federated:  federated,
		}, opts)
	default:
		client, err := remote.NewClient(cfg.BackendURL, cfg.Timeout, log)
		if err != nil {
			return nil, err
		}
		a.remote = client
		a.studio = state.New(state.Backend{
			Identities: client.Identities(),
			Documents:  client.Documents(),
			Federated:  federated,
		}, opts)
		if err := a.restore(); err != nil {
			log.Warn().Err(err).Msg("saved session ignored")
		}
	}
	return a, nil
}

// federatedToken reads the ID token at sign-in time, so a flag can replace
// the configured one.
type federatedToken struct {
	token *string
}

func (f federatedToken) SignIn(ctx context.Context) (*domain.Credential, error) {
	return google.StaticToken(*f.token).SignIn(ctx)
}

func (a *app) user() *domain.User {
	return a.studio.Store.Snapshot().Auth.User
}

// requireUser returns the signed-in user or an error telling how to sign in.
func (a *app) requireUser() (domain.User, error) {
	u := a.user()
	if u == nil {
		return domain.User{}, errors.New("not signed in: run `studio login` first")
	}
	return *u, nil
}

func (a *app) sessionPath() (string, error) {
	if a.cfg.SessionFile != "" {
		return a.cfg.SessionFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "studio", "session.json"), nil
}

// restore loads the session file, if any, into the client and the store.
func (a *app) restore() error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var saved savedSession
	if err := json.Unmarshal(raw, &saved); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if saved.Token == "" || saved.User.UID == "" {
		return nil
	}
	a.remote.SetToken(saved.Token)
	a.studio.Auth.Resume(saved.User)
	return nil
}

// persist writes the current session to the session file, or removes the
// file when signed out. Memory mode has nothing to persist.
func (a *app) persist() error {
	if a.remote == nil {
		return nil
	}
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	user := a.user()
	token := a.remote.Token()
	if user == nil || token == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	raw, err := json.MarshalIndent(savedSession{Token: token, User: *user}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
