package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spec-kit/bookmark-service/internal/config"
	"github.com/spec-kit/bookmark-service/internal/domain"
)

// FederatedIdentity is the account-shaped principal a federated
// handshake yields on success. It feeds the same token enrichment
// path as a password login.
type FederatedIdentity struct {
	Subject string
	Email   string
	Name    string
	Image   string
}

// FederatedProvider is the opaque capability contract for a
// redirect-based identity handshake.
type FederatedProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	FetchIdentity(ctx context.Context, accessToken string) (*FederatedIdentity, error)
}

// AuthentikProvider implements FederatedProvider against an Authentik
// instance's OAuth2/OIDC endpoints.
type AuthentikProvider struct {
	cfg        config.AuthentikConfig
	httpClient *http.Client
}

// NewAuthentikProvider builds the provider from its config section.
func NewAuthentikProvider(cfg config.AuthentikConfig) *AuthentikProvider {
	return &AuthentikProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *AuthentikProvider) endpoint(path string) string {
	return strings.TrimRight(p.cfg.BaseURL, "/") + path
}

// AuthCodeURL returns the authorization redirect target.
func (p *AuthentikProvider) AuthCodeURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {p.cfg.ClientID},
		"redirect_uri":  {p.cfg.RedirectURL},
		"scope":         {"openid profile email"},
		"state":         {state},
	}
	return p.endpoint("/application/o/authorize/") + "?" + params.Encode()
}

type authentikTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}

// Exchange trades the authorization code for an access token.
func (p *AuthentikProvider) Exchange(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {p.cfg.RedirectURL},
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/application/o/token/"), strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tokenResp authentikTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || tokenResp.Error != "" {
		return "", fmt.Errorf("token exchange failed: status %d", resp.StatusCode)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("token exchange returned no access token")
	}
	return tokenResp.AccessToken, nil
}

type authentikUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// FetchIdentity resolves the access token to the federated principal.
func (p *AuthentikProvider) FetchIdentity(ctx context.Context, accessToken string) (*FederatedIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/application/o/userinfo/"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo failed: status %d", resp.StatusCode)
	}

	var info authentikUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("userinfo returned no email")
	}

	return &FederatedIdentity{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Image:   info.Picture,
	}, nil
}

// AccountShape maps the identity to a new account with the default
// role. Existing accounts keep their stored role.
func (id *FederatedIdentity) AccountShape() *domain.Account {
	return &domain.Account{
		Name:  id.Name,
		Email: id.Email,
		Image: id.Image,
		Role:  domain.RoleUser,
	}
}
