// Package google verifies Google ID tokens on the backend and supplies the
// client-side federated sign-in flow.
package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

const (
	DefaultCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

	keyCacheSize = 16
	keyCacheTTL  = time.Hour
)

var issuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

var ErrUnknownKey = errors.New("google: signing key not found")

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier checks RS256 ID tokens against Google's published signing keys.
// Keys are cached by kid and refreshed when an unknown kid shows up.
type Verifier struct {
	client   *resty.Client
	certsURL string
	clientID string
	keys     *expirable.LRU[string, *rsa.PublicKey]
	now      func() time.Time
	log      zerolog.Logger
}

// NewVerifier returns a Verifier that accepts tokens issued for clientID.
// An empty certsURL selects DefaultCertsURL.
func NewVerifier(clientID, certsURL string, timeout time.Duration, log zerolog.Logger) *Verifier {
	if certsURL == "" {
		certsURL = DefaultCertsURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Verifier{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		certsURL: certsURL,
		clientID: clientID,
		keys:     expirable.NewLRU[string, *rsa.PublicKey](keyCacheSize, nil, keyCacheTTL),
		now:      time.Now,
		log:      log,
	}
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// Verify validates signature, issuer, audience and expiry.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*domain.FederatedClaims, error) {
	var claims idTokenClaims
	_, err := jwt.ParseWithClaims(idToken, &claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if !issuers[claims.Issuer] {
		return nil, fmt.Errorf("verify id token: unexpected issuer %q", claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, errors.New("verify id token: missing subject")
	}

	return &domain.FederatedClaims{
		Provider:      domain.ProviderGoogle,
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, ErrUnknownKey
	}
	if k, ok := v.keys.Get(kid); ok {
		return k, nil
	}
	if err := v.refresh(ctx); err != nil {
		return nil, err
	}
	if k, ok := v.keys.Get(kid); ok {
		return k, nil
	}
	return nil, ErrUnknownKey
}

func (v *Verifier) refresh(ctx context.Context) error {
	var set jwks
	resp, err := v.client.R().
		SetContext(ctx).
		SetResult(&set).
		Get(v.certsURL)
	if err != nil {
		return fmt.Errorf("fetch google certs: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch google certs: status %d", resp.StatusCode())
	}

	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			v.log.Warn().Err(err).Str("kid", k.Kid).Msg("skipping malformed google key")
			continue
		}
		v.keys.Add(k.Kid, pub)
	}
	v.log.Debug().Int("keys", len(set.Keys)).Msg("google certs refreshed")
	return nil
}

func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	e := new(big.Int).SetBytes(eb)
	if !e.IsInt64() || e.Int64() < 3 {
		return nil, errors.New("exponent out of range")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(e.Int64())}, nil
}
