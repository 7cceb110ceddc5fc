package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

const minPasswordLength = 6

// Provider-facing messages, keyed by code.
var authMessages = map[string]string{
	domain.CodeInvalidEmail:        "The email address is badly formatted.",
	domain.CodeEmailAlreadyInUse:   "The email address is already in use by another account.",
	domain.CodeWeakPassword:        "The given password is invalid. Password should be at least 6 characters.",
	domain.CodeUserNotFound:        "There is no user record corresponding to this identifier.",
	domain.CodeWrongPassword:       "The password is invalid or the user does not have a password.",
	domain.CodeInvalidCredential:   "The supplied auth credential is malformed or has expired.",
	domain.CodeRequiresRecentLogin: "This operation is sensitive and requires the account owner to be signed in.",
}

func authError(code string) *domain.AuthError {
	return domain.NewAuthError(code, authMessages[code])
}

// TokenClaims is what a verified session token says about its bearer.
type TokenClaims struct {
	UID       string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IdentityService implements the identity provider: password and federated
// sign-in, HS256 session tokens and sign-out revocation.
type IdentityService struct {
	repo      ports.IdentityRepository
	revoker   ports.SessionRevoker
	verifier  ports.CredentialVerifier
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewIdentityService wires the identity provider. verifier may be nil, in
// which case federated sign-in is rejected.
func NewIdentityService(
	repo ports.IdentityRepository,
	revoker ports.SessionRevoker,
	verifier ports.CredentialVerifier,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &IdentityService{
		repo:      repo,
		revoker:   revoker,
		verifier:  verifier,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// CreateIdentity registers a password identity and signs it in.
func (s *IdentityService) CreateIdentity(ctx context.Context, email, password string) (*domain.Session, error) {
	identity, err := s.register(ctx, email, password, "", "")
	if err != nil {
		return nil, err
	}
	return s.issue(identity)
}

// Provision registers a password identity on behalf of callerUID.
func (s *IdentityService) Provision(ctx context.Context, callerUID, email, password, displayName string) (*domain.Identity, error) {
	if callerUID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.register(ctx, email, password, strings.TrimSpace(displayName), callerUID)
}

func (s *IdentityService) register(ctx context.Context, email, password, displayName, provisionedBy string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, authError(domain.CodeInvalidEmail)
	}
	if len(password) < minPasswordLength {
		return nil, authError(domain.CodeWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	identity := &domain.Identity{
		UID:           uuid.NewString(),
		Email:         email,
		DisplayName:   displayName,
		Provider:      domain.ProviderPassword,
		PasswordHash:  string(hash),
		ProvisionedBy: provisionedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrIdentityExists) {
			return nil, authError(domain.CodeEmailAlreadyInUse)
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	s.log.Info().Str("uid", identity.UID).Str("provisioned_by", provisionedBy).Msg("identity created")
	return identity, nil
}

// SignIn authenticates a password identity.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, authError(domain.CodeInvalidEmail)
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, authError(domain.CodeUserNotFound)
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if identity.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, authError(domain.CodeWrongPassword)
	}

	return s.issue(identity)
}

// SignInWithCredential exchanges a verified federated ID token for a session,
// creating the identity on first use.
func (s *IdentityService) SignInWithCredential(ctx context.Context, cred domain.Credential) (*domain.Session, error) {
	if s.verifier == nil || cred.Provider != domain.ProviderGoogle || cred.IDToken == "" {
		return nil, authError(domain.CodeInvalidCredential)
	}

	claims, err := s.verifier.Verify(ctx, cred.IDToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("federated token rejected")
		return nil, authError(domain.CodeInvalidCredential)
	}

	identity, err := s.repo.FindBySubject(ctx, claims.Provider, claims.Subject)
	if err == nil {
		return s.issue(identity)
	}
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, fmt.Errorf("sign in with credential: %w", err)
	}

	// An existing password identity with the same email is reused, but only
	// when the provider vouches for the address.
	if claims.EmailVerified {
		if existing, err := s.repo.FindByEmail(ctx, normalizeEmail(claims.Email)); err == nil {
			return s.issue(existing)
		}
	}

	now := s.now()
	identity = &domain.Identity{
		UID:         uuid.NewString(),
		Email:       normalizeEmail(claims.Email),
		DisplayName: claims.Name,
		Provider:    claims.Provider,
		Subject:     claims.Subject,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrIdentityExists) {
			s.log.Warn().Str("subject", claims.Subject).Msg("unverified federated email already registered")
			return nil, authError(domain.CodeEmailAlreadyInUse)
		}
		return nil, fmt.Errorf("sign in with credential: %w", err)
	}

	s.log.Info().Str("uid", identity.UID).Str("provider", identity.Provider).Msg("federated identity created")
	return s.issue(identity)
}

// SetDisplayName updates the caller's own display name.
func (s *IdentityService) SetDisplayName(ctx context.Context, callerUID, uid, name string) error {
	if callerUID == "" || callerUID != uid {
		return domain.ErrForbidden
	}
	if err := s.repo.UpdateDisplayName(ctx, uid, strings.TrimSpace(name), s.now()); err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return authError(domain.CodeUserNotFound)
		}
		return fmt.Errorf("set display name: %w", err)
	}
	return nil
}

// DeleteIdentity removes uid. Only the identity itself, or the account that
// provisioned it, may do so.
func (s *IdentityService) DeleteIdentity(ctx context.Context, callerUID, uid string) error {
	identity, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return authError(domain.CodeUserNotFound)
		}
		return fmt.Errorf("delete identity: %w", err)
	}
	if callerUID == "" || (callerUID != identity.UID && callerUID != identity.ProvisionedBy) {
		return authError(domain.CodeRequiresRecentLogin)
	}

	if err := s.repo.Delete(ctx, uid); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	s.log.Info().Str("uid", uid).Str("caller", callerUID).Msg("identity deleted")
	return nil
}

// ProvisionedBy returns the account that provisioned uid, or "" when uid
// registered itself or does not exist.
func (s *IdentityService) ProvisionedBy(ctx context.Context, uid string) (string, error) {
	identity, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("provisioned by: %w", err)
	}
	return identity.ProvisionedBy, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *IdentityService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("authenticate: %w (token revoked)", domain.ErrUnauthenticated)
	}
	return claims, nil
}

func (s *IdentityService) parse(token string) (*TokenClaims, error) {
	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("authenticate: %w", domain.ErrUnauthenticated)
	}
	return &TokenClaims{
		UID:       claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *IdentityService) issue(identity *domain.Identity) (*domain.Session, error) {
	now := s.now()
	claims := sessionClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Session{Identity: *identity, Token: signed}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
