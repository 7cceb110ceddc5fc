// Package local connects the client core straight to the backend services in
// the same process. The identity side keeps the current session the way a
// mobile SDK would.
package local

import (
	"context"
	"sync"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
	"github.com/tuneup/studio/internal/core/service"
)

// Backend exposes in-process facade adapters.
type Backend struct {
	identities *identityProvider
	documents  *service.DocumentService
}

func NewBackend(identities *service.IdentityService, documents *service.DocumentService) *Backend {
	return &Backend{
		identities: &identityProvider{svc: identities},
		documents:  documents,
	}
}

func (b *Backend) Identities() ports.IdentityProvider { return b.identities }

func (b *Backend) Documents() ports.DocumentStore { return b.documents }

// Token returns the current session token, or "" when signed out.
func (b *Backend) Token() string { return b.identities.current().Token }

type identityProvider struct {
	svc *service.IdentityService

	mu      sync.Mutex
	session domain.Session
}

func (p *identityProvider) current() domain.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

func (p *identityProvider) set(sess domain.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = sess
}

func (p *identityProvider) establish(sess *domain.Session, err error) (*domain.Identity, error) {
	if err != nil {
		return nil, err
	}
	p.set(*sess)
	identity := sess.Identity
	return &identity, nil
}

func (p *identityProvider) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.establish(p.svc.CreateIdentity(ctx, email, password))
}

func (p *identityProvider) ProvisionIdentity(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	return p.svc.Provision(ctx, p.current().Identity.UID, email, password, displayName)
}

func (p *identityProvider) SetDisplayName(ctx context.Context, uid, name string) error {
	return p.svc.SetDisplayName(ctx, p.current().Identity.UID, uid, name)
}

func (p *identityProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.establish(p.svc.SignIn(ctx, email, password))
}

func (p *identityProvider) SignInWithCredential(ctx context.Context, cred domain.Credential) (*domain.Identity, error) {
	return p.establish(p.svc.SignInWithCredential(ctx, cred))
}

// SignOut drops the local session even when revocation fails.
func (p *identityProvider) SignOut(ctx context.Context) error {
	sess := p.current()
	p.set(domain.Session{})
	if sess.Token == "" {
		return nil
	}
	return p.svc.SignOut(ctx, sess.Token)
}

func (p *identityProvider) DeleteIdentity(ctx context.Context, uid string) error {
	caller := p.current().Identity.UID
	if err := p.svc.DeleteIdentity(ctx, caller, uid); err != nil {
		return err
	}
	if uid == caller {
		p.set(domain.Session{})
	}
	return nil
}
