package state

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// FieldTeacherID links a student profile to the teacher who enrolled it.
const FieldTeacherID = "teacherId"

// Roster owns the signed-in teacher's student list.
type Roster struct {
	store *Store
	ids   ports.IdentityProvider
	docs  ports.DocumentStore
	log   zerolog.Logger
}

func newRoster(store *Store, ids ports.IdentityProvider, docs ports.DocumentStore, opts Options) *Roster {
	return &Roster{
		store: store,
		ids:   ids,
		docs:  docs,
		log:   opts.Log.With().Str("slice", "roster").Logger(),
	}
}

func (r *Roster) pending() {
	r.store.update(func(s *State) bool {
		s.Roster.Loading = true
		s.Roster.Error = ""
		return true
	})
}

func (r *Roster) fail(op string, err error) error {
	err = asBackendError(op, err)
	r.log.Error().Err(err).Str("op", op).Msg("roster operation failed")
	r.store.update(func(s *State) bool {
		s.Roster.Loading = false
		s.Roster.Error = err.Error()
		return true
	})
	return err
}

// teacher returns the signed-in teacher's uid.
func (r *Roster) teacher() (string, error) {
	auth := r.store.Snapshot().Auth
	if !auth.IsAuthenticated || auth.User == nil {
		return "", domain.NewValidationError("You must be signed in to add students")
	}
	if auth.Role != domain.RoleTeacher {
		return "", domain.NewValidationError("Only teachers can add students")
	}
	return auth.User.UID, nil
}

// Enroll creates a student account on behalf of the signed-in teacher without
// switching the session.
func (r *Roster) Enroll(ctx context.Context, email, password, name string) (string, error) {
	r.pending()
	teacherID, err := r.teacher()
	if err != nil {
		return "", r.fail("enroll", err)
	}
	if email == "" || password == "" {
		return "", r.fail("enroll", domain.NewValidationError("Please fill in all fields"))
	}

	id, err := r.ids.ProvisionIdentity(ctx, email, password, name)
	if err != nil {
		return "", r.fail("enroll", mapAuthError(err))
	}
	profile := domain.Fields{
		domain.FieldEmail:     email,
		domain.FieldRole:      domain.RoleStudent,
		domain.FieldFullName:  name,
		FieldTeacherID:        teacherID,
		domain.FieldCreatedAt: domain.ServerTimestamp,
	}
	if _, err := r.docs.SetDocument(ctx, domain.CollectionUsers, id.UID, profile, true); err != nil {
		compensateIdentity(ctx, r.ids, id.UID, r.log)
		return "", r.fail("enroll", &domain.BackendError{
			Op:  "enroll",
			Err: fmt.Errorf("Failed to store user data: %w", err),
		})
	}

	r.store.update(func(s *State) bool {
		s.Roster.Loading = false
		s.Roster.MyStudents = appendUnique(s.Roster.MyStudents, id.UID)
		return true
	})
	return id.UID, nil
}

// Fetch replaces the roster with every student profile naming the signed-in
// teacher.
func (r *Roster) Fetch(ctx context.Context) ([]string, error) {
	r.pending()
	teacherID, err := r.teacher()
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	docs, err := r.docs.QueryCollection(ctx, domain.CollectionUsers, FieldTeacherID, teacherID)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = appendUnique(ids, doc.ID)
	}
	r.store.update(func(s *State) bool {
		s.Roster.Loading = false
		s.Roster.MyStudents = slices.Clone(ids)
		return true
	})
	return ids, nil
}

func (r *Roster) AddStudent(uid string) {
	r.store.update(func(s *State) bool {
		if slices.Contains(s.Roster.MyStudents, uid) {
			return false
		}
		s.Roster.MyStudents = append(s.Roster.MyStudents, uid)
		return true
	})
}

func (r *Roster) RemoveStudent(uid string) {
	r.store.update(func(s *State) bool {
		n := len(s.Roster.MyStudents)
		s.Roster.MyStudents = slices.DeleteFunc(s.Roster.MyStudents, func(id string) bool { return id == uid })
		return len(s.Roster.MyStudents) != n
	})
}

func (r *Roster) ClearStudents() {
	r.store.update(func(s *State) bool {
		s.Roster = RosterState{}
		return true
	})
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
