package domain

import "time"

const (
	RoleUser    = "user"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// ProviderPassword and ProviderGoogle name the sign-in method behind an identity.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// User is the session's view of the signed-in person: the identity plus the
// role recovered from the profile document.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Identity is an account held by the identity provider.
type Identity struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name,omitempty"`
	Provider      string    `json:"provider"`
	Subject       string    `json:"-"`
	PasswordHash  string    `json:"-"`
	ProvisionedBy string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is a signed-in identity together with its bearer token.
type Session struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"token"`
}

// Credential is what a federated sign-in flow hands back to the client.
type Credential struct {
	Provider string `json:"provider"`
	IDToken  string `json:"id_token"`
}

// FederatedClaims are the verified facts extracted from a federated ID token.
type FederatedClaims struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// Profile document layout in the users collection.
const (
	CollectionUsers = "users"

	FieldEmail        = "email"
	FieldRole         = "role"
	FieldFullName     = "fullName"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"
	FieldGoogleSignIn = "googleSignIn"
)
