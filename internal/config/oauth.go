package config

import (
	"os"
	"sync"
)

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
}

type OAuthConfig struct {
	GitHub OAuthProviderConfig
	Google OAuthProviderConfig
}

var (
	oauthConfig *OAuthConfig
	oauthOnce   sync.Once
)

func LoadOAuthConfig() *OAuthConfig {
	oauthOnce.Do(func() {
		oauthConfig = &OAuthConfig{
			GitHub: OAuthProviderConfig{
				ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			},
			Google: OAuthProviderConfig{
				ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			},
		}
	})
	return oauthConfig
}
