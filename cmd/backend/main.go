// Command backend serves the identity and document API the studio client
// talks to.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/api"
	"github.com/tuneup/studio/internal/api/handler"
	"github.com/tuneup/studio/internal/core/ports"
	"github.com/tuneup/studio/internal/core/service"
	mongodb "github.com/tuneup/studio/internal/infrastructure/db/mongo"
	redisdb "github.com/tuneup/studio/internal/infrastructure/db/redis"
	"github.com/tuneup/studio/internal/infrastructure/google"
	"github.com/tuneup/studio/internal/infrastructure/memory"
	"github.com/tuneup/studio/internal/pkg/config"
	"github.com/tuneup/studio/pkg/logger"
)

type stores struct {
	identities ports.IdentityRepository
	documents  ports.DocumentRepository
	revoker    ports.SessionRevoker
	readiness  map[string]handler.Pinger
	close      func(context.Context)
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "studio-backend"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open stores")
	}
	defer st.close(context.Background())

	var verifier ports.CredentialVerifier
	if cfg.Google.ClientID != "" {
		verifier = google.NewVerifier(cfg.Google.ClientID, cfg.Google.CertsURL, cfg.Google.Timeout, log)
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set; federated sign-in disabled")
	}

	router := api.NewRouter(api.Deps{
		Identities: service.NewIdentityService(st.identities, st.revoker, verifier, cfg.JWTSecret, cfg.TokenTTL, log),
		Documents:  service.NewDocumentService(st.documents),
		Readiness:  st.readiness,
		Log:        log,
	})

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("backend listening")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		log.Error().Err(err).Msg("server error")
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("could not stop server gracefully")
		_ = router.Close()
	}
	log.Info().Msg("backend stopped")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		return &stores{
			identities: memory.NewIdentityRepository(),
			documents:  memory.NewDocumentRepository(),
			revoker:    memory.NewSessionRevoker(),
			close:      func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB, Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	identities := mongodb.NewIdentityRepository(db)
	documents := mongodb.NewDocumentRepository(db)
	if err := identities.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("identity indexes not ensured")
	}
	if err := documents.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("document indexes not ensured")
	}

	return &stores{
		identities: identities,
		documents:  documents,
		revoker:    redisdb.NewRevocationList(rdb),
		readiness: map[string]handler.Pinger{
			"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		close: func(ctx context.Context) {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
			if err := client.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}
