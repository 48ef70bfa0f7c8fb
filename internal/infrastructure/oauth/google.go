// Package oauth implements the upstream identity providers for social
// sign-in.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/atomconnect/atom-connect-api/internal/infrastructure/config"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider exchanges authorization codes with Google and resolves the
// asserted identity from the userinfo endpoint.
type GoogleProvider struct {
	oauth *oauth2.Config
}

func NewGoogleProvider(cfg config.OAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL returns the consent page URL carrying the state nonce.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Identity exchanges the callback code and returns the asserted email and
// display name. An unverified email is rejected.
func (p *GoogleProvider) Identity(ctx context.Context, code string) (string, string, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("code exchange: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return "", "", fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}

	var info struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("userinfo decode: %w", err)
	}
	if info.Email == "" || !info.VerifiedEmail {
		return "", "", fmt.Errorf("userinfo: email not verified")
	}
	return info.Email, info.Name, nil
}
