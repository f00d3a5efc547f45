package summarizer

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ParseRepoURL extracts the owner and repository name from a github.com
// URL. Anything past the first two path segments is ignored.
func ParseRepoURL(githubURL string) (owner, repo string, err error) {
	u, err := url.Parse(githubURL)
	if err != nil || u.Host == "" {
		return "", "", ErrInvalidRepoURL
	}

	parts := make([]string, 0, 2)
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", ErrInvalidRepoURL
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

func (s *Service) fetchReadme(ctx context.Context, owner, repo string) (string, error) {
	readme, _, err := s.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return "", ErrReadmeNotFound
		}
		return "", errors.Join(ErrUpstream, err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", errors.Join(ErrUpstream, err)
	}

	return content, nil
}
