package commands

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

// Upgrade is the interface for the upgrade command (batch mode).
type Upgrade interface {
	Execute(
		ctx context.Context,
		request entities.UpdateRequest,
		opts UpgradeOptions,
	) (entities.BatchSummary, error)
}

// UpgradeOptions holds runtime options for a single batch run.
type UpgradeOptions struct {
	TrunkBranch string
	Remote      string
	Manifest    string
	Lockfile    string
	Concurrency int
	DryRun      bool
	Verbose     bool
}

// UpgradeCommand orchestrates the batch update flow: validate the request,
// verify the code review tool is usable, then run the repository pipeline
// over every requested repository. Repositories are isolated from each other;
// one failing never stops the rest.
type UpgradeCommand struct {
	pipeline   *RepositoryPipeline
	codeReview repositories.CodeReviewRepository
}

// NewUpgradeCommand creates a new UpgradeCommand with the given collaborators.
func NewUpgradeCommand(
	pipeline *RepositoryPipeline,
	codeReview repositories.CodeReviewRepository,
) *UpgradeCommand {
	return &UpgradeCommand{
		pipeline:   pipeline,
		codeReview: codeReview,
	}
}

// Execute runs the batch. An error return means a precondition failed and no
// repository was touched; per-repository failures are reported through the
// summary instead.
func (it *UpgradeCommand) Execute(
	ctx context.Context,
	request entities.UpdateRequest,
	opts UpgradeOptions,
) (entities.BatchSummary, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if err := request.Validate(); err != nil {
		return entities.BatchSummary{}, err
	}
	// Checked live on every run; a cached result could outlive the session.
	if err := it.codeReview.IsAuthenticated(ctx); err != nil {
		return entities.BatchSummary{}, fmt.Errorf("code review tool is not authenticated: %w", err)
	}

	// One timestamp for the whole batch, so every repository ends up on the
	// same branch name.
	batch := Batch{
		Packages:    request.Packages,
		Versions:    request.Versions,
		BranchName:  entities.UpdateBranchName(time.Now()),
		TrunkBranch: opts.TrunkBranch,
		Remote:      opts.Remote,
		Manifest:    opts.Manifest,
		Lockfile:    opts.Lockfile,
		DryRun:      opts.DryRun,
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	logger.Infof(
		"Starting batch: %d packages across %d repositories on branch %q",
		len(request.Packages), len(request.Repositories), batch.BranchName,
	)

	reports := make([]entities.RepositoryReport, len(request.Repositories))

	var group errgroup.Group
	group.SetLimit(concurrency)
	for index, repository := range request.Repositories {
		group.Go(func() error {
			reports[index] = entities.RepositoryReport{
				Repository: repository,
				Outcome:    it.pipeline.Run(ctx, repository, batch),
			}
			return nil
		})
	}
	// Goroutines report through the outcome, never through an error.
	_ = group.Wait()

	summary := entities.BatchSummary{Reports: reports}
	succeeded, unchanged, failed := summary.Counts()
	logger.Infof(
		"Batch complete: %d repositories processed, %d upgraded, %d unchanged, %d failed",
		len(reports), succeeded, unchanged, failed,
	)

	return summary, nil
}
