//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

// SpyCodeReviewRepository implements repositories.CodeReviewRepository as a
// configurable spy. Safe for concurrent use.
type SpyCodeReviewRepository struct {
	mu sync.Mutex

	// --- IsAuthenticated ---
	AuthErr error
	// spy: number of live auth checks performed
	AuthChecks int

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	// spy: inputs received
	PRInputs []entities.PullRequestInput
	PRDirs   []string
}

var _ repositories.CodeReviewRepository = (*SpyCodeReviewRepository)(nil)

func (p *SpyCodeReviewRepository) IsAuthenticated(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AuthChecks++
	return p.AuthErr
}

func (p *SpyCodeReviewRepository) CreatePullRequest(
	_ context.Context, dir string, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PRDirs = append(p.PRDirs, dir)
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &entities.PullRequest{URL: "https://example.com/pr/1"}, nil
}
