package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/infrastructure/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubVerifier struct {
	claims *domain.FederatedClaims
	err    error
	seen   []string
}

func (v *stubVerifier) Verify(_ context.Context, idToken string) (*domain.FederatedClaims, error) {
	v.seen = append(v.seen, idToken)
	return v.claims, v.err
}

type failingRevoker struct{ err error }

func (r failingRevoker) Revoke(context.Context, string, time.Duration) error { return r.err }
func (r failingRevoker) IsRevoked(context.Context, string) (bool, error)   { return false, r.err }

func newIdentitySvc(verifier *stubVerifier) (*IdentityService, *memory.IdentityRepository) {
	repo := memory.NewIdentityRepository()
	svc := NewIdentityService(repo, memory.NewSessionRevoker(), nil, "test-secret", time.Hour, zerolog.Nop())
	if verifier != nil {
		svc.verifier = verifier
	}
	return svc, repo
}

func assertCode(t *testing.T, err error, want string) {
	t.Helper()
	if got := domain.AuthErrorCode(err); got != want {
		t.Fatalf("expected code %q, got %q (err=%v)", want, got, err)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestIdentityService_CreateIdentity_IssuesSession(t *testing.T) {
	svc, repo := newIdentitySvc(nil)

	sess, err := svc.CreateIdentity(context.Background(), "  Teacher@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sess.Token == "" || sess.Identity.UID == "" {
		t.Fatalf("expected token and uid, got %+v", sess)
	}
	if sess.Identity.Email != "teacher@example.com" {
		t.Errorf("expected normalized email, got %q", sess.Identity.Email)
	}
	if sess.Identity.Provider != domain.ProviderPassword {
		t.Errorf("expected password provider, got %q", sess.Identity.Provider)
	}

	stored, err := repo.FindByUID(context.Background(), sess.Identity.UID)
	if err != nil {
		t.Fatalf("identity not stored: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Errorf("expected a bcrypt hash, got %q", stored.PasswordHash)
	}

	claims, err := svc.Authenticate(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("token should authenticate: %v", err)
	}
	if claims.UID != sess.Identity.UID || claims.Email != "teacher@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestIdentityService_CreateIdentity_Errors(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		code     string
	}{
		{"invalid email", "not-an-email", "secret1", domain.CodeInvalidEmail},
		{"empty email", "", "secret1", domain.CodeInvalidEmail},
		{"weak password", "a@b.co", "12345", domain.CodeWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newIdentitySvc(nil)
			_, err := svc.CreateIdentity(context.Background(), tc.email, tc.password)
			assertCode(t, err, tc.code)
		})
	}
}

func TestIdentityService_CreateIdentity_DuplicateEmail(t *testing.T) {
	svc, _ := newIdentitySvc(nil)
	ctx := context.Background()

	if _, err := svc.CreateIdentity(ctx, "a@b.co", "secret1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateIdentity(ctx, "A@B.co", "secret2")
	assertCode(t, err, domain.CodeEmailAlreadyInUse)
}

func TestIdentityService_SignIn(t *testing.T) {
	svc, _ := newIdentitySvc(nil)
	ctx := context.Background()
	created, _ := svc.CreateIdentity(ctx, "a@b.co", "secret1")

	sess, err := svc.SignIn(ctx, "a@b.co", "secret1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sess.Identity.UID != created.Identity.UID {
		t.Errorf("signed into the wrong identity")
	}

	_, err = svc.SignIn(ctx, "a@b.co", "wrong-pass")
	assertCode(t, err, domain.CodeWrongPassword)

	_, err = svc.SignIn(ctx, "nobody@b.co", "secret1")
	assertCode(t, err, domain.CodeUserNotFound)

	_, err = svc.SignIn(ctx, "bad", "secret1")
	assertCode(t, err, domain.CodeInvalidEmail)
}

func TestIdentityService_SignOut_RevokesToken(t *testing.T) {
	svc, _ := newIdentitySvc(nil)
	ctx := context.Background()
	sess, _ := svc.CreateIdentity(ctx, "a@b.co", "secret1")

	if err := svc.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	_, err := svc.Authenticate(ctx, sess.Token)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after sign out, got: %v", err)
	}
}

func TestIdentityService_Authenticate_Rejects(t *testing.T) {
	svc, _ := newIdentitySvc(nil)
	ctx := context.Background()
	sess, _ := svc.CreateIdentity(ctx, "a@b.co", "secret1")

	other := NewIdentityService(memory.NewIdentityRepository(), memory.NewSessionRevoker(), nil, "other-secret", time.Hour, zerolog.Nop())
	if _, err := other.Authenticate(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected wrong-secret token rejected, got: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected expired token rejected, got: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected garbage token rejected, got: %v", err)
	}
}

func TestIdentityService_Authenticate_RevokerFailure(t *testing.T) {
	svc, _ := newIdentitySvc(nil)
	ctx := context.Background()
	sess, _ := svc.CreateIdentity(ctx, "a@b.co", "secret1")

	storeDown := errors.New("redis down")
	svc.revoker = failingRevoker{err: storeDown}

	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, storeDown) {
		t.Errorf("expected revoker error to propagate, got: %v", err)
	}
	if err := svc.SignOut(ctx, sess.Token); !errors.Is(err, storeDown) {
		t.Errorf("expected revoker error on sign out, got: %v", err)
	}
}

func TestIdentityService_Provision_KeepsCallerAndRecordsOwner(t *testing.T) {
	svc, repo := newIdentitySvc(nil)
	ctx := context.Background()
	teacher, _ := svc.CreateIdentity(ctx, "t@b.co", "secret1")

	student, err := svc.Provision(ctx, teacher.Identity.UID, "s@b.co", "secret1", " Sam ")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if student.DisplayName != "Sam" {
		t.Errorf("expected trimmed display name, got %q", student.DisplayName)
	}
	stored, _ := repo.FindByUID(ctx, student.UID)
	if stored.ProvisionedBy != teacher.Identity.UID {
		t.Errorf("expected provisioned_by=%s, got %q", teacher.Identity.UID, stored.ProvisionedBy)
	}

	if _, err := svc.Provision(ctx, "", "x@b.co", "secret1", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected anonymous provision rejected, got: %v", err)
	}
}

func TestIdentityService_SetDisplayName(t *testing.T) {
	svc, repo := newIdentitySvc(nil)
	ctx := context.Background()
	sess, _ := svc.CreateIdentity(ctx, "a@b.co", "secret1")
	uid := sess.Identity.UID

	if err := svc.SetDisplayName(ctx, uid, uid, "Ada"); err != nil {
		t.Fatalf("set display name: %v", err)
	}
	stored, _ := repo.FindByUID(ctx, uid)
	if stored.DisplayName != "Ada" {
		t.Errorf("expected Ada, got %q", stored.DisplayName)
	}

	if err := svc.SetDisplayName(ctx, "someone-else", uid, "Eve"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestIdentityService_DeleteIdentity(t *testing.T) {
	svc, repo := newIdentitySvc(nil)
	ctx := context.Background()
	teacher, _ := svc.CreateIdentity(ctx, "t@b.co", "secret1")
	stranger, _ := svc.CreateIdentity(ctx, "x@b.co", "secret1")
	student, _ := svc.Provision(ctx, teacher.Identity.UID, "s@b.co", "secret1", "")

	err := svc.DeleteIdentity(ctx, stranger.Identity.UID, student.UID)
	assertCode(t, err, domain.CodeRequiresRecentLogin)

	if err := svc.DeleteIdentity(ctx, teacher.Identity.UID, student.UID); err != nil {
		t.Fatalf("provisioner delete: %v", err)
	}
	if _, err := repo.FindByUID(ctx, student.UID); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("expected student removed, got: %v", err)
	}

	if err := svc.DeleteIdentity(ctx, stranger.Identity.UID, stranger.Identity.UID); err != nil {
		t.Fatalf("self delete: %v", err)
	}

	err = svc.DeleteIdentity(ctx, teacher.Identity.UID, "missing")
	assertCode(t, err, domain.CodeUserNotFound)
}

func TestIdentityService_SignInWithCredential(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.FederatedClaims{
		Provider: domain.ProviderGoogle,
		Subject:  "google-sub-1",
		Email:    "G@Example.com",
		Name:     "Gus",
	}}
	svc, _ := newIdentitySvc(verifier)
	ctx := context.Background()
	cred := domain.Credential{Provider: domain.ProviderGoogle, IDToken: "id-token"}

	first, err := svc.SignInWithCredential(ctx, cred)
	if err != nil {
		t.Fatalf("first federated sign in: %v", err)
	}
	if first.Identity.Email != "g@example.com" || first.Identity.DisplayName != "Gus" {
		t.Errorf("unexpected identity: %+v", first.Identity)
	}

	second, err := svc.SignInWithCredential(ctx, cred)
	if err != nil {
		t.Fatalf("second federated sign in: %v", err)
	}
	if second.Identity.UID != first.Identity.UID {
		t.Errorf("expected same identity on second sign in")
	}
	if len(verifier.seen) != 2 || verifier.seen[0] != "id-token" {
		t.Errorf("expected verifier called with token twice, got %v", verifier.seen)
	}
}

func TestIdentityService_SignInWithCredential_ReusesPasswordIdentity(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.FederatedClaims{
		Provider: domain.ProviderGoogle, Subject: "sub", Email: "a@b.co", EmailVerified: true,
	}}
	svc, _ := newIdentitySvc(verifier)
	ctx := context.Background()
	pw, _ := svc.CreateIdentity(ctx, "a@b.co", "secret1")

	sess, err := svc.SignInWithCredential(ctx, domain.Credential{Provider: domain.ProviderGoogle, IDToken: "t"})
	if err != nil {
		t.Fatalf("federated sign in: %v", err)
	}
	if sess.Identity.UID != pw.Identity.UID {
		t.Errorf("expected password identity reused")
	}
}

func TestIdentityService_SignInWithCredential_UnverifiedEmailNeverLinks(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.FederatedClaims{
		Provider: domain.ProviderGoogle, Subject: "attacker-sub", Email: "Teacher@School.test", EmailVerified: false,
	}}
	svc, _ := newIdentitySvc(verifier)
	ctx := context.Background()
	victim, err := svc.CreateIdentity(ctx, "teacher@school.test", "secret1")
	if err != nil {
		t.Fatalf("create victim: %v", err)
	}

	sess, err := svc.SignInWithCredential(ctx, domain.Credential{Provider: domain.ProviderGoogle, IDToken: "t"})
	if sess != nil {
		t.Fatalf("expected no session, got uid %s (victim %s)", sess.Identity.UID, victim.Identity.UID)
	}
	assertCode(t, err, domain.CodeEmailAlreadyInUse)
}

func TestIdentityService_SignInWithCredential_Rejects(t *testing.T) {
	ctx := context.Background()

	noVerifier, _ := newIdentitySvc(nil)
	_, err := noVerifier.SignInWithCredential(ctx, domain.Credential{Provider: domain.ProviderGoogle, IDToken: "t"})
	assertCode(t, err, domain.CodeInvalidCredential)

	verifier := &stubVerifier{err: errors.New("bad signature")}
	svc, _ := newIdentitySvc(verifier)

	_, err = svc.SignInWithCredential(ctx, domain.Credential{Provider: domain.ProviderGoogle, IDToken: "t"})
	assertCode(t, err, domain.CodeInvalidCredential)

	_, err = svc.SignInWithCredential(ctx, domain.Credential{Provider: "facebook.com", IDToken: "t"})
	assertCode(t, err, domain.CodeInvalidCredential)

	_, err = svc.SignInWithCredential(ctx, domain.Credential{Provider: domain.ProviderGoogle})
	assertCode(t, err, domain.CodeInvalidCredential)
}
