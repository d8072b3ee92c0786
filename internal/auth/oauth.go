package auth

import (
	"context"
	"fmt"

	"github.com/fernandwill/jobsphere/internal/config"
	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider is one supported OAuth login (github or google).
type Provider struct {
	Name        string
	Config      *oauth2.Config
	userInfoURL string
	mapUser     func(body string) (model.User, string)
}

// Providers builds the supported provider registry. Redirect URLs follow
// the /auth/{provider}/callback route under the app base URL.
func Providers(baseURL string) map[string]*Provider {
	cfg := config.LoadOAuthConfig()

	return map[string]*Provider{
		"github": {
			Name: "github",
			Config: &oauth2.Config{
				ClientID:     cfg.GitHub.ClientID,
				ClientSecret: cfg.GitHub.ClientSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  baseURL + "/auth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
			},
			userInfoURL: "https://api.github.com/user",
			mapUser: func(body string) (model.User, string) {
				name := gjson.Get(body, "name").String()
				if name == "" {
					name = gjson.Get(body, "login").String()
				}
				user := model.User{
					Name:  name,
					Email: gjson.Get(body, "email").String(),
				}
				if avatar := gjson.Get(body, "avatar_url").String(); avatar != "" {
					user.Avatar = &avatar
				}
				return user, gjson.Get(body, "id").String()
			},
		},
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				Endpoint:     google.Endpoint,
				RedirectURL:  baseURL + "/auth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
			},
			userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
			mapUser: func(body string) (model.User, string) {
				user := model.User{
					Name:  gjson.Get(body, "name").String(),
					Email: gjson.Get(body, "email").String(),
				}
				if avatar := gjson.Get(body, "picture").String(); avatar != "" {
					user.Avatar = &avatar
				}
				return user, gjson.Get(body, "id").String()
			},
		},
	}
}

// FetchUser exchanges the token for the provider's profile and maps it to
// a User plus the provider-side id.
func (p *Provider) FetchUser(ctx context.Context, token *oauth2.Token) (model.User, string, error) {
	resp, err := resty.New().R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetHeader("Accept", "application/json").
		Get(p.userInfoURL)
	if err != nil {
		return model.User{}, "", err
	}
	if resp.IsError() {
		return model.User{}, "", fmt.Errorf("%s userinfo responded with status %d", p.Name, resp.StatusCode())
	}

	user, providerID := p.mapUser(string(resp.Body()))
	if providerID == "" {
		return model.User{}, "", fmt.Errorf("%s userinfo response missing id", p.Name)
	}
	return user, providerID, nil
}
