package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

// GitHubService lists public repositories through the GitHub REST API.
type GitHubService struct {
	client *github.Client
	logger *zap.Logger
}

var _ scoring.RepositorySource = (*GitHubService)(nil)

// NewGitHubService builds the client. Without a token requests are
// anonymous and share the lower unauthenticated quota.
func NewGitHubService(ctx context.Context, token string, log *zap.Logger) *GitHubService {
	if token == "" {
		return newGitHubService(github.NewClient(nil), log)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return newGitHubService(github.NewClient(oauth2.NewClient(ctx, ts)), log)
}

func newGitHubService(client *github.Client, log *zap.Logger) *GitHubService {
	return &GitHubService{client: client, logger: logger.OrNop(log)}
}

// Repositories returns the most recently updated repositories owned by owner.
// An unknown account has no repositories.
func (s *GitHubService) Repositories(ctx context.Context, owner string) ([]scoring.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	repos, _, err := s.client.Repositories.ListByUser(ctx, owner, opts)
	if err != nil {
		wrapped := wrapGitHubError(err)
		var pe *providerError
		if errors.As(wrapped, &pe) && pe.code == http.StatusNotFound {
			s.logger.Info("github account not found", zap.String("owner", owner))
			return nil, nil
		}
		return nil, wrapped
	}

	out := make([]scoring.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, scoring.Repository{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			Watchers:    r.GetWatchersCount(),
			Fork:        r.GetFork(),
		})
	}
	s.logger.Debug("github repositories listed", zap.String("owner", owner), zap.Int("count", len(out)))
	return out, nil
}

// wrapGitHubError exposes the status of a failed API call. Primary and
// secondary rate limits come back as 403 and are reported as 429.
func wrapGitHubError(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return &providerError{provider: "github", code: http.StatusTooManyRequests, err: err}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return &providerError{provider: "github", code: respErr.Response.StatusCode, err: err}
	}
	return err
}
