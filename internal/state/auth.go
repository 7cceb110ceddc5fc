package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// Mapped provider messages shown for sign-in failures.
const (
	MsgEmailInUse   = "That email address is already in use!"
	MsgInvalidEmail = "That email address is invalid!"
)

// Auth owns the session slice.
type Auth struct {
	store     *Store
	ids       ports.IdentityProvider
	docs      ports.DocumentStore
	federated ports.FederatedSignIn
	log       zerolog.Logger
}

func newAuth(store *Store, ids ports.IdentityProvider, docs ports.DocumentStore, federated ports.FederatedSignIn, opts Options) *Auth {
	return &Auth{
		store:     store,
		ids:       ids,
		docs:      docs,
		federated: federated,
		log:       opts.Log.With().Str("slice", "auth").Logger(),
	}
}

func (a *Auth) pending() {
	a.store.update(func(s *State) bool {
		s.Auth.Loading = true
		s.Auth.Error = ""
		return true
	})
}

func (a *Auth) fail(op string, err error) error {
	err = asBackendError(op, err)
	a.log.Error().Err(err).Str("op", op).Msg("auth failed")
	a.store.update(func(s *State) bool {
		s.Auth.Loading = false
		s.Auth.Error = err.Error()
		return true
	})
	return err
}

func (a *Auth) succeed(user domain.User) domain.User {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	a.store.update(func(s *State) bool {
		u := user
		s.Auth = AuthState{User: &u, IsAuthenticated: true, Role: user.Role}
		return true
	})
	return user
}

func userFrom(id *domain.Identity, role string) domain.User {
	return domain.User{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Provider:    id.Provider,
		Role:        role,
	}
}

// Signup creates the identity, names it and stores its profile. When the
// profile cannot be stored the identity is deleted again.
func (a *Auth) Signup(ctx context.Context, email, password, role, name string) (domain.User, error) {
	a.pending()
	if email == "" || password == "" {
		return domain.User{}, a.fail("signup", domain.NewValidationError("Please fill in all fields"))
	}
	if role == "" {
		role = domain.RoleUser
	}

	id, err := a.ids.CreateIdentity(ctx, email, password)
	if err != nil {
		return domain.User{}, a.fail("signup", err)
	}
	if name != "" {
		if err := a.ids.SetDisplayName(ctx, id.UID, name); err != nil {
			a.compensate(ctx, id.UID, true)
			return domain.User{}, a.fail("signup", err)
		}
		id.DisplayName = name
	}

	profile := domain.Fields{
		domain.FieldEmail:     email,
		domain.FieldRole:      role,
		domain.FieldFullName:  name,
		domain.FieldCreatedAt: domain.ServerTimestamp,
	}
	if _, err := a.docs.SetDocument(ctx, domain.CollectionUsers, id.UID, profile, true); err != nil {
		a.compensate(ctx, id.UID, true)
		return domain.User{}, a.fail("signup", &domain.BackendError{
			Op:  "signup",
			Err: fmt.Errorf("Failed to store user data: %w", err),
		})
	}
	return a.succeed(userFrom(id, role)), nil
}

// compensate removes an identity whose profile could not be stored. Failures
// are logged; the caller reports the original error.
func (a *Auth) compensate(ctx context.Context, uid string, signOut bool) {
	compensateIdentity(ctx, a.ids, uid, a.log)
	if !signOut {
		return
	}
	if err := a.ids.SignOut(ctx); err != nil {
		a.log.Warn().Err(err).Str("uid", uid).Msg("sign-out after compensation failed")
	}
}

func compensateIdentity(ctx context.Context, ids ports.IdentityProvider, uid string, log zerolog.Logger) {
	if err := ids.DeleteIdentity(ctx, uid); err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("compensating identity deletion failed")
		return
	}
	log.Info().Str("uid", uid).Msg("orphaned identity deleted")
}

// Login signs in and recovers the role from the profile document.
func (a *Auth) Login(ctx context.Context, email, password string) (domain.User, error) {
	a.pending()
	id, err := a.ids.SignIn(ctx, email, password)
	if err != nil {
		return domain.User{}, a.fail("login", mapAuthError(err))
	}
	role, _, err := a.profileRole(ctx, id.UID)
	if err != nil {
		return domain.User{}, a.fail("login", err)
	}
	return a.succeed(userFrom(id, role)), nil
}

// GoogleLogin runs the federated flow and creates the profile on first sign-in.
func (a *Auth) GoogleLogin(ctx context.Context) (domain.User, error) {
	a.pending()
	if a.federated == nil {
		return domain.User{}, a.fail("google-login", domain.ErrNoIDToken)
	}
	cred, err := a.federated.SignIn(ctx)
	if err != nil {
		return domain.User{}, a.fail("google-login", err)
	}
	if cred == nil || cred.IDToken == "" {
		return domain.User{}, a.fail("google-login", domain.ErrNoIDToken)
	}

	id, err := a.ids.SignInWithCredential(ctx, *cred)
	if err != nil {
		return domain.User{}, a.fail("google-login", err)
	}
	role, found, err := a.profileRole(ctx, id.UID)
	if err != nil {
		return domain.User{}, a.fail("google-login", err)
	}
	if !found {
		role = domain.RoleUser
		profile := domain.Fields{
			domain.FieldEmail:        id.Email,
			domain.FieldFullName:     id.DisplayName,
			domain.FieldRole:         role,
			domain.FieldCreatedAt:    domain.ServerTimestamp,
			domain.FieldGoogleSignIn: true,
		}
		if _, err := a.docs.SetDocument(ctx, domain.CollectionUsers, id.UID, profile, false); err != nil {
			return domain.User{}, a.fail("google-login", err)
		}
	}
	return a.succeed(userFrom(id, role)), nil
}

// profileRole reads the users document for uid. found is false when there is
// no profile yet.
func (a *Auth) profileRole(ctx context.Context, uid string) (role string, found bool, err error) {
	doc, err := a.docs.GetDocument(ctx, domain.CollectionUsers, uid)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.StringField(domain.FieldRole), true, nil
}

// Logout ends the session. The session is anonymous afterwards even when the
// backend call fails.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.ids.SignOut(ctx)
	a.store.update(func(s *State) bool {
		s.Auth = AuthState{}
		return true
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("sign-out failed")
		return asBackendError("logout", err)
	}
	return nil
}

// Resume restores a session the facade already holds, e.g. from a saved
// session file.
func (a *Auth) Resume(user domain.User) domain.User {
	return a.succeed(user)
}

func (a *Auth) ClearError() {
	a.store.update(func(s *State) bool {
		if s.Auth.Error == "" {
			return false
		}
		s.Auth.Error = ""
		return true
	})
}

func mapAuthError(err error) error {
	switch code := domain.AuthErrorCode(err); code {
	case domain.CodeEmailAlreadyInUse:
		return &domain.MappedAuthError{Code: code, Message: MsgEmailInUse, Err: err}
	case domain.CodeInvalidEmail:
		return &domain.MappedAuthError{Code: code, Message: MsgInvalidEmail, Err: err}
	}
	return err
}
