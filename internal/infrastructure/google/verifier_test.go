package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuneup/studio/internal/core/domain"
)

const testClientID = "studio-client.apps.googleusercontent.com"

type certServer struct {
	key  *rsa.PrivateKey
	hits atomic.Int32
	srv  *httptest.Server
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cs := &certServer{key: key}
	n := base64.RawURLEncoding.EncodeToString(key.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes())
	body := `{"keys":[{"kid":"k1","kty":"RSA","alg":"RS256","n":"` + n + `","e":"` + e + `"}]}`

	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cs.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(cs.key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"aud":   testClientID,
		"sub":   "1234567890",
		"email": "gus@example.com",
		"name":  "Gus",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifier_Verify(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testClientID, cs.srv.URL, time.Second, zerolog.Nop())

	claims, err := v.Verify(context.Background(), cs.sign(t, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, claims.Provider)
	assert.Equal(t, "1234567890", claims.Subject)
	assert.Equal(t, "gus@example.com", claims.Email)
	assert.Equal(t, "Gus", claims.Name)
	assert.False(t, claims.EmailVerified)

	_, err = v.Verify(context.Background(), cs.sign(t, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.hits.Load(), "keys should be served from cache")
}

func TestVerifier_CarriesEmailVerified(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testClientID, cs.srv.URL, time.Second, zerolog.Nop())

	c := validClaims()
	c["email_verified"] = true
	claims, err := v.Verify(context.Background(), cs.sign(t, "k1", c))
	require.NoError(t, err)
	assert.True(t, claims.EmailVerified)
}

func TestVerifier_Rejects(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testClientID, cs.srv.URL, time.Second, zerolog.Nop())

	cases := map[string]func(jwt.MapClaims){
		"wrong audience": func(c jwt.MapClaims) { c["aud"] = "someone-else" },
		"wrong issuer":   func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" },
		"expired":        func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() },
		"no expiry":      func(c jwt.MapClaims) { delete(c, "exp") },
		"no subject":     func(c jwt.MapClaims) { delete(c, "sub") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validClaims()
			mutate(c)
			_, err := v.Verify(context.Background(), cs.sign(t, "k1", c))
			assert.Error(t, err)
		})
	}
}

func TestVerifier_UnknownKid(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testClientID, cs.srv.URL, time.Second, zerolog.Nop())

	_, err := v.Verify(context.Background(), cs.sign(t, "rotated", validClaims()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKey))
}

func TestVerifier_RejectsHS256(t *testing.T) {
	cs := newCertServer(t)
	v := NewVerifier(testClientID, cs.srv.URL, time.Second, zerolog.Nop())

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString([]byte("shared"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.Error(t, err)
}

func TestStaticToken(t *testing.T) {
	_, err := StaticToken("  ").SignIn(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoIDToken)
	assert.Equal(t, "No ID token found", err.Error())

	cred, err := StaticToken("abc").SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Credential{Provider: domain.ProviderGoogle, IDToken: "abc"}, *cred)
}
