package ports

import (
	"context"

	"github.com/tuneup/studio/internal/core/domain"
)

// IdentityProvider is the client's view of the authentication backend. An
// implementation tracks the current session the way a mobile SDK does:
// CreateIdentity, SignIn and SignInWithCredential replace it, SignOut clears it.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error)
	// ProvisionIdentity creates an account on behalf of the signed-in user
	// without switching the current session.
	ProvisionIdentity(ctx context.Context, email, password, displayName string) (*domain.Identity, error)
	SetDisplayName(ctx context.Context, uid, name string) error
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignInWithCredential(ctx context.Context, cred domain.Credential) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	DeleteIdentity(ctx context.Context, uid string) error
}

// DocumentStore is the client's view of the document database. Writes return
// the stored document with server timestamps already resolved.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (*domain.Document, error)
	CreateDocument(ctx context.Context, collection string, data domain.Fields) (*domain.Document, error)
	SetDocument(ctx context.Context, collection, id string, data domain.Fields, merge bool) (*domain.Document, error)
	UpdateDocument(ctx context.Context, collection, id string, data domain.Fields) (*domain.Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error
	QueryCollection(ctx context.Context, collection, field string, value any) ([]domain.Document, error)
}

// FederatedSignIn is the external sign-in flow (e.g. Google) that yields a
// credential for SignInWithCredential.
type FederatedSignIn interface {
	SignIn(ctx context.Context) (*domain.Credential, error)
}
