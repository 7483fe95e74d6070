package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/resilience"
)

// Repository is the public metadata of one source repository.
type Repository struct {
	Name        string
	Description string
	Stars       int
	Forks       int
	Watchers    int
	Fork        bool
}

// Popularity weighs stars over forks over watchers.
func (r Repository) Popularity() float64 {
	return 2*float64(r.Stars) + 1.5*float64(r.Forks) + float64(r.Watchers)
}

// RepositorySource lists the public repositories owned by an account.
type RepositorySource interface {
	Repositories(ctx context.Context, owner string) ([]Repository, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// neutralSimilarity is used for repositories without a description.
const neutralSimilarity = 0.5

type PortfolioConfig struct {
	// MaxRepos caps how many owned repositories are scored, in the order the
	// source returns them.
	MaxRepos int
	// NormFactor is the relevance-weighted popularity that maps to 100.
	NormFactor float64
}

func (c *PortfolioConfig) applyDefaults() {
	if c.MaxRepos <= 0 {
		c.MaxRepos = 20
	}
	if c.NormFactor <= 0 || math.IsNaN(c.NormFactor) || math.IsInf(c.NormFactor, 0) {
		c.NormFactor = 100
	}
}

// PortfolioCalculator scores the GitHub account linked from the resume. Each
// owned repository contributes its popularity scaled by how close its
// description is to the parameter description.
type PortfolioCalculator struct {
	source   RepositorySource
	embedder Embedder
	guard    *resilience.Guard
	cfg      PortfolioConfig
	logger   *zap.Logger
}

// NewPortfolioCalculator builds the calculator. A nil source makes every
// portfolio parameter fail with ErrMissingCredential; a nil embedder scores
// every repository at neutral relevance.
func NewPortfolioCalculator(source RepositorySource, embedder Embedder, guard *resilience.Guard, cfg PortfolioConfig, log *zap.Logger) *PortfolioCalculator {
	cfg.applyDefaults()
	return &PortfolioCalculator{source: source, embedder: embedder, guard: guard, cfg: cfg, logger: logger.OrNop(log)}
}

func (pc *PortfolioCalculator) Calculate(ctx context.Context, p Parameter, ec EvaluationContext) (Score, error) {
	if pc.source == nil {
		return Score{}, &ConfigError{Parameter: p.Key, Field: "credential", Reason: "no repository source configured", Err: ErrMissingCredential}
	}

	owner, ok := GitHubUsername(ec.ResumeText())
	if !ok {
		pc.logger.Debug("no github profile in resume", zap.String("parameter", p.Key))
		return Score{Value: 0}, nil
	}

	repos, err := resilience.Call(ctx, pc.guard, "github", func(ctx context.Context) ([]Repository, error) {
		return pc.source.Repositories(ctx, owner)
	})
	if err != nil {
		return degrade(fmt.Errorf("listing repositories of %q: %w", owner, err))
	}
	repos = ownRepositories(repos, pc.cfg.MaxRepos)

	var target []float32
	if pc.embedder != nil && len(repos) > 0 && strings.TrimSpace(p.Description) != "" {
		target, err = pc.embed(ctx, p.Description)
		if err != nil {
			return degrade(fmt.Errorf("embedding description of %q: %w", p.Key, err))
		}
	}

	var raw float64
	for _, r := range repos {
		similarity := neutralSimilarity
		if target != nil && strings.TrimSpace(r.Description) != "" {
			vec, err := pc.embed(ctx, r.Description)
			if err != nil {
				return degrade(fmt.Errorf("embedding repository %q: %w", r.Name, err))
			}
			similarity = clamp(CosineSimilarity(target, vec), 0, 1)
		}
		raw += r.Popularity() * similarity
	}

	value := clamp(raw/pc.cfg.NormFactor*100, 0, 100)
	pc.logger.Debug("portfolio parameter scored",
		zap.String("parameter", p.Key),
		zap.String("owner", owner),
		zap.Int("repositories", len(repos)),
		zap.Float64("raw", raw),
		zap.Float64("score", value),
	)
	return Score{Value: value}, nil
}

func (pc *PortfolioCalculator) embed(ctx context.Context, text string) ([]float32, error) {
	return resilience.Call(ctx, pc.guard, "embed", func(ctx context.Context) ([]float32, error) {
		return pc.embedder.Embed(ctx, text)
	})
}

// ownRepositories drops forks and keeps at most limit repositories.
func ownRepositories(repos []Repository, limit int) []Repository {
	out := make([]Repository, 0, min(len(repos), limit))
	for _, r := range repos {
		if r.Fork {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out
}

var githubProfilePattern = regexp.MustCompile(`(?i)\bgithub\.com/([a-z0-9](?:[a-z0-9]|-[a-z0-9]){0,38})\b`)

// Site paths that look like account names in a link.
var reservedGitHubPaths = map[string]bool{
	"about": true, "features": true, "marketplace": true, "orgs": true,
	"settings": true, "sponsors": true, "topics": true, "login": true,
}

// GitHubUsername returns the first account linked as github.com/<user> or
// github.com/<user>/<repo> in text.
func GitHubUsername(text string) (string, bool) {
	for _, m := range githubProfilePattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if reservedGitHubPaths[strings.ToLower(name)] {
			continue
		}
		return name, true
	}
	return "", false
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// the lengths differ or either vector is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
