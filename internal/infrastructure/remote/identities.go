package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tuneup/studio/internal/core/domain"
)

type identityProvider struct {
	c *Client
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p *identityProvider) establish(ctx context.Context, path string, body any) (*domain.Identity, error) {
	var sess domain.Session
	if err := p.c.do(ctx, http.MethodPost, path, nil, body, &sess); err != nil {
		return nil, err
	}
	p.c.SetToken(sess.Token)
	return &sess.Identity, nil
}

func (p *identityProvider) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.establish(ctx, "/v1/identities", credentialsBody{Email: email, Password: password})
}

func (p *identityProvider) ProvisionIdentity(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	body := map[string]string{"email": email, "password": password, "display_name": displayName}
	var identity domain.Identity
	if err := p.c.do(ctx, http.MethodPost, "/v1/identities/provision", nil, body, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (p *identityProvider) SetDisplayName(ctx context.Context, uid, name string) error {
	path := "/v1/identities/" + url.PathEscape(uid) + "/display-name"
	return p.c.do(ctx, http.MethodPut, path, nil, map[string]string{"display_name": name}, nil)
}

func (p *identityProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.establish(ctx, "/v1/sessions", credentialsBody{Email: email, Password: password})
}

func (p *identityProvider) SignInWithCredential(ctx context.Context, cred domain.Credential) (*domain.Identity, error) {
	return p.establish(ctx, "/v1/sessions/credential", cred)
}

// SignOut forgets the token locally whatever the backend answers.
func (p *identityProvider) SignOut(ctx context.Context) error {
	if p.c.Token() == "" {
		return nil
	}
	err := p.c.do(ctx, http.MethodDelete, "/v1/sessions", nil, nil, nil)
	p.c.SetToken("")
	return err
}

func (p *identityProvider) DeleteIdentity(ctx context.Context, uid string) error {
	return p.c.do(ctx, http.MethodDelete, "/v1/identities/"+url.PathEscape(uid), nil, nil, nil)
}
