package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const githubUserURL = "https://api.github.com/user"

// GitHubProvider signs users in with GitHub OAuth. GitHub is plain OAuth2
// (no ID token), so the subject comes from the user API instead of claims.
type GitHubProvider struct {
	oauth2Config *oauth2.Config
}

func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
	}
}

func (p *GitHubProvider) Name() string {
	return "github"
}

// AuthCodeURL builds the authorization URL. GitHub has no nonce support;
// the state cookie alone protects the handshake.
func (p *GitHubProvider) AuthCodeURL(state, _ string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code, _ string) (*Identity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	resp, err := p.oauth2Config.Client(ctx, token).Get(githubUserURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("github profile request failed with status %d", resp.StatusCode)
	}

	var profile struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode github profile: %w", err)
	}

	if profile.ID == 0 {
		return nil, fmt.Errorf("github profile id missing")
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return &Identity{
		Provider:  p.Name(),
		Subject:   strconv.FormatInt(profile.ID, 10),
		Name:      name,
		Email:     profile.Email,
		AvatarURL: profile.AvatarURL,
	}, nil
}
