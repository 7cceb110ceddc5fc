package state

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/ports"
)

// Options tune the slices.
type Options struct {
	FetchOrdering FetchOrdering
	Log           zerolog.Logger
}

// Backend is the facade the slices talk to.
type Backend struct {
	Identities ports.IdentityProvider
	Documents  ports.DocumentStore
	Federated  ports.FederatedSignIn
}

// Studio composes the store with every slice. The composition root owns it.
type Studio struct {
	Store       *Store
	Auth        *Auth
	Lessons     *Lessons
	Technics    *Technics
	Assignments *Assignments
	Roster      *Roster
}

func New(backend Backend, opts Options) *Studio {
	if opts.FetchOrdering == "" {
		opts.FetchOrdering = FetchArrival
	}
	store := NewStore()
	return &Studio{
		Store:       store,
		Auth:        newAuth(store, backend.Identities, backend.Documents, backend.Federated, opts),
		Lessons:     newLessons(store, backend.Documents, opts),
		Technics:    newTechnics(store, backend.Documents, opts),
		Assignments: newAssignments(store, backend.Documents, opts),
		Roster:      newRoster(store, backend.Identities, backend.Documents, opts),
	}
}

// Logout ends the session and drops the per-user caches.
func (s *Studio) Logout(ctx context.Context) error {
	err := s.Auth.Logout(ctx)
	s.Assignments.Clear()
	s.Lessons.c.clear()
	s.Technics.c.clear()
	s.Roster.ClearStudents()
	return err
}
