package repositories

import (
	"context"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
)

// CodeReviewRepository abstracts the code-review platform (GitHub via the gh
// CLI). It covers exactly the two operations the pipeline needs: a live
// authentication check and pull request creation.
type CodeReviewRepository interface {
	// IsAuthenticated performs a live, read-only authentication check. It is
	// never cached: a token can expire between runs.
	IsAuthenticated(ctx context.Context) error

	// CreatePullRequest opens a pull request for the branch currently checked
	// out in dir, targeting input.BaseBranch, and returns the platform's
	// reference to it.
	CreatePullRequest(ctx context.Context, dir string, input entities.PullRequestInput) (*entities.PullRequest, error)
}
