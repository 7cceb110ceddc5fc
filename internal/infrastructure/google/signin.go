package google

import (
	"context"
	"strings"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// StaticToken is a federated sign-in flow that hands back an ID token
// obtained out of band, e.g. pasted into the CLI.
type StaticToken string

var _ ports.FederatedSignIn = StaticToken("")

func (t StaticToken) SignIn(context.Context) (*domain.Credential, error) {
	token := strings.TrimSpace(string(t))
	if token == "" {
		return nil, domain.ErrNoIDToken
	}
	return &domain.Credential{Provider: domain.ProviderGoogle, IDToken: token}, nil
}
