package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// IdentityRepository is a ports.IdentityRepository kept in memory.
type IdentityRepository struct {
	mu    sync.RWMutex
	byUID map[string]*domain.Identity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{byUID: make(map[string]*domain.Identity)}
}

var _ ports.IdentityRepository = (*IdentityRepository)(nil)

func (r *IdentityRepository) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byUID {
		if existing.Email != "" && existing.Email == identity.Email {
			return domain.ErrIdentityExists
		}
	}
	clone := *identity
	r.byUID[identity.UID] = &clone
	return nil
}

func (r *IdentityRepository) FindByUID(_ context.Context, uid string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if identity, ok := r.byUID[uid]; ok {
		clone := *identity
		return &clone, nil
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findFirst(func(i *domain.Identity) bool { return i.Email == email })
}

func (r *IdentityRepository) FindBySubject(_ context.Context, provider, subject string) (*domain.Identity, error) {
	return r.findFirst(func(i *domain.Identity) bool {
		return i.Provider == provider && i.Subject == subject
	})
}

func (r *IdentityRepository) UpdateDisplayName(_ context.Context, uid, name string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byUID[uid]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	identity.DisplayName = name
	identity.UpdatedAt = at
	return nil
}

func (r *IdentityRepository) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUID, uid)
	return nil
}

func (r *IdentityRepository) findFirst(match func(*domain.Identity) bool) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, identity := range r.byUID {
		if match(identity) {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}
