package ports

import (
	"context"
	"time"

	"github.com/tuneup/studio/internal/core/domain"
)

// IdentityRepository defines persistence for identity provider accounts.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	FindByUID(ctx context.Context, uid string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindBySubject(ctx context.Context, provider, subject string) (*domain.Identity, error)
	UpdateDisplayName(ctx context.Context, uid, name string, at time.Time) error
	Delete(ctx context.Context, uid string) error
}

// SessionRevoker keeps the list of signed-out token ids until they expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// CredentialVerifier validates a federated ID token and returns its claims.
type CredentialVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.FederatedClaims, error)
}
