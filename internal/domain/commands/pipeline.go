package commands

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

// Batch carries the values shared by every repository of one run: the
// requested package/version pairs, the branch name derived from the run's
// single timestamp, and the file and branch names from configuration.
type Batch struct {
	Packages    []string
	Versions    []string
	BranchName  string
	TrunkBranch string
	Remote      string
	Manifest    string
	Lockfile    string
	DryRun      bool
}

// RepositoryPipeline runs the full update workflow against one repository
// working copy: prepare, branch, analyze and update the manifest, verify with
// a two-phase reinstall, then commit, push and open a pull request. Each
// stage is a gate: the first unrecoverable failure finalizes the outcome, and
// the trunk branch is never committed to.
type RepositoryPipeline struct {
	git            repositories.GitRepository
	packageManager repositories.PackageManagerRepository
	codeReview     repositories.CodeReviewRepository
	manifests      repositories.ManifestRepository
}

// NewRepositoryPipeline creates a pipeline over the given collaborators.
func NewRepositoryPipeline(
	git repositories.GitRepository,
	packageManager repositories.PackageManagerRepository,
	codeReview repositories.CodeReviewRepository,
	manifests repositories.ManifestRepository,
) *RepositoryPipeline {
	return &RepositoryPipeline{
		git:            git,
		packageManager: packageManager,
		codeReview:     codeReview,
		manifests:      manifests,
	}
}

// Run executes the pipeline for one repository and always returns a finalized
// outcome. Nothing propagates to sibling repositories: even a panic escaping
// a stage is converted into a failed outcome here.
func (it *RepositoryPipeline) Run(
	ctx context.Context,
	repoPath string,
	batch Batch,
) (outcome entities.RepositoryOutcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = entities.FailedOutcome(
				entities.StageUnexpected,
				fmt.Sprintf("unexpected failure: %v", recovered),
			)
		}
	}()

	dir, err := filepath.Abs(repoPath)
	if err != nil {
		return it.fail(entities.StageNavigation,
			fmt.Sprintf("repository path %q is unusable: %v", repoPath, err))
	}
	if !it.git.IsWorkTree(dir) {
		return it.fail(entities.StageNavigation,
			fmt.Sprintf("%s is not a version-control working tree", dir))
	}

	logger.Infof("Processing %s", dir)

	if batch.DryRun {
		// Dry runs analyze the checkout exactly as it sits on disk; no
		// reset, no branch, no install.
		resolutions, updated := it.analyze(dir, batch, false)
		if len(updated) == 0 {
			logger.Infof("[dry run] %s: nothing to update", dir)
		}
		return entities.NoChangesOutcome(resolutions)
	}

	if resetErr := it.git.HardReset(ctx, dir); resetErr != nil {
		return it.fail(entities.StageNavigation,
			fmt.Sprintf("could not reset working tree: %v", resetErr))
	}
	if checkoutErr := it.git.Checkout(ctx, dir, batch.TrunkBranch); checkoutErr != nil {
		return it.fail(entities.StageBranchSwitch,
			fmt.Sprintf("could not switch to trunk branch %q: %v", batch.TrunkBranch, checkoutErr))
	}
	if pullErr := it.git.Pull(ctx, dir, batch.Remote, batch.TrunkBranch); pullErr != nil {
		return it.fail(entities.StageSync,
			fmt.Sprintf("could not pull latest changes: %v", pullErr))
	}
	if branchErr := it.git.CreateBranch(ctx, dir, batch.BranchName); branchErr != nil {
		return it.fail(entities.StageBranchCreate,
			fmt.Sprintf("could not create new branch %q: %v", batch.BranchName, branchErr))
	}

	resolutions, updated := it.analyze(dir, batch, true)

	if len(updated) > 0 {
		if stage, installErr := it.verifyInstall(ctx, dir); installErr != nil {
			return it.fail(stage, installErr.Error())
		}
	}

	// Checked even when no manifest entry changed: the reinstall can rewrite
	// the lockfile on its own, and that delta counts as a real change.
	changed, diffErr := it.git.HasDiff(ctx, dir, batch.Manifest, batch.Lockfile)
	if diffErr != nil {
		return it.fail(entities.StageUnexpected,
			fmt.Sprintf("could not check for changes: %v", diffErr))
	}
	if !changed {
		logger.Infof("%s: no changes, skipping pull request", dir)
		it.cleanupBranch(ctx, dir, batch)
		return entities.NoChangesOutcome(resolutions)
	}

	prURL, stage, publishErr := it.publish(ctx, dir, batch, updated)
	if publishErr != nil {
		return it.fail(stage, publishErr.Error())
	}

	logger.Infof("%s: created pull request %s", dir, prURL)
	return entities.SuccessOutcome(updated, resolutions, prURL)
}

// analyze walks the requested packages in caller order and resolves each one
// against the manifest. When apply is false (dry run) nothing is written.
// This stage never aborts the pipeline; every per-package issue is a logged
// skip.
func (it *RepositoryPipeline) analyze(
	dir string,
	batch Batch,
	apply bool,
) ([]entities.PackageResolution, []entities.PackageUpdate) {
	manifestPath := filepath.Join(dir, batch.Manifest)
	manifestExists := it.manifests.Exists(manifestPath)
	if !manifestExists {
		logger.Warnf("%s: no %s found, nothing to update", dir, batch.Manifest)
	}

	resolutions := make([]entities.PackageResolution, 0, len(batch.Packages))
	var updated []entities.PackageUpdate

	for index, name := range batch.Packages {
		target := batch.Versions[index]

		if !manifestExists {
			resolutions = append(resolutions, entities.PackageResolution{
				Package: name, Kind: entities.ResolutionNotFound,
			})
			continue
		}

		section, current, found := it.manifests.FindPackage(manifestPath, name)
		if !found {
			logger.Infof("  %s: not declared in any dependency section, skipping", name)
			resolutions = append(resolutions, entities.PackageResolution{
				Package: name, Kind: entities.ResolutionNotFound,
			})
			continue
		}

		atLeast, compareErr := entities.IsAtLeast(current, target)
		if compareErr != nil {
			logger.Warnf("  %s: skipping, %v", name, compareErr)
			resolutions = append(resolutions, entities.PackageResolution{
				Package: name, Kind: entities.ResolutionNotFound,
			})
			continue
		}
		if atLeast {
			logger.Infof("  %s: already at %s (>= %s), skipping", name, current, target)
			resolutions = append(resolutions, entities.PackageResolution{
				Package: name, Kind: entities.ResolutionAlreadyCurrent, CurrentVersion: current,
			})
			continue
		}

		if apply {
			wrote, setErr := it.manifests.SetVersion(manifestPath, section, name, target)
			if setErr != nil {
				logger.Warnf("  %s: could not update manifest: %v", name, setErr)
				resolutions = append(resolutions, entities.PackageResolution{
					Package: name, Kind: entities.ResolutionNotFound,
				})
				continue
			}
			if !wrote {
				logger.Warnf("  %s: manifest entry disappeared during update, skipping", name)
				resolutions = append(resolutions, entities.PackageResolution{
					Package: name, Kind: entities.ResolutionNotFound,
				})
				continue
			}
			logger.Infof("  %s: updated %s -> %s (%s)", name, current, target, section)
		} else {
			logger.Infof("  [dry run] %s: would update %s -> %s (%s)", name, current, target, section)
		}

		resolutions = append(resolutions, entities.PackageResolution{
			Package:     name,
			Kind:        entities.ResolutionUpdated,
			FromVersion: current,
			ToVersion:   target,
			Section:     section,
		})
		updated = append(updated, entities.PackageUpdate{
			Name:        name,
			FromVersion: current,
			ToVersion:   target,
			Section:     section,
		})
	}

	return resolutions, updated
}

// verifyInstall validates the edited manifest with a two-phase reinstall,
// each phase starting from a removed install directory. Phase A forces past
// lockfile and peer conflicts to regenerate the lockfile; phase B proves the
// declared versions install cleanly without forcing, the same way a
// reviewer's plain install would.
func (it *RepositoryPipeline) verifyInstall(
	ctx context.Context,
	dir string,
) (entities.FailureStage, error) {
	if err := it.packageManager.RemoveInstallDir(dir); err != nil {
		return entities.StageForceInstall, err
	}
	if err := it.packageManager.Install(ctx, dir, true); err != nil {
		return entities.StageForceInstall, fmt.Errorf("force installation failed: %w", err)
	}

	if err := it.packageManager.RemoveInstallDir(dir); err != nil {
		return entities.StageInstall, err
	}
	if err := it.packageManager.Install(ctx, dir, false); err != nil {
		return entities.StageInstall, fmt.Errorf("regular installation failed after forced install: %w", err)
	}

	return "", nil
}

// publish stages exactly the manifest and lockfile, commits, pushes the
// branch with upstream tracking, and opens the pull request. Once a commit
// exists nothing is reverted automatically: a failed push or PR leaves the
// branch in place for manual recovery, which beats silently destroying
// evidence.
func (it *RepositoryPipeline) publish(
	ctx context.Context,
	dir string,
	batch Batch,
	updated []entities.PackageUpdate,
) (string, entities.FailureStage, error) {
	title := entities.PullRequestTitle(updated)

	if err := it.git.Stage(ctx, dir, batch.Manifest, batch.Lockfile); err != nil {
		return "", entities.StageCommit, fmt.Errorf("could not stage files: %w", err)
	}
	if err := it.git.Commit(ctx, dir, title); err != nil {
		return "", entities.StageCommit, fmt.Errorf("could not commit changes: %w", err)
	}
	if err := it.git.Push(ctx, dir, batch.Remote, batch.BranchName); err != nil {
		return "", entities.StagePush, fmt.Errorf("could not push branch to remote: %w", err)
	}

	pr, err := it.codeReview.CreatePullRequest(ctx, dir, entities.PullRequestInput{
		Title:      title,
		Body:       entities.PullRequestBody(updated),
		BaseBranch: batch.TrunkBranch,
	})
	if err != nil {
		logger.Warnf("%s: branch %q remains on the remote for manual recovery", dir, batch.BranchName)
		return "", entities.StagePublish, fmt.Errorf("could not create pull request: %w", err)
	}

	return pr.URL, "", nil
}

// cleanupBranch returns to trunk and removes the feature branch created for
// this run. Only called when the branch holds no changes; a branch that might
// carry a real edit is never deleted automatically.
func (it *RepositoryPipeline) cleanupBranch(ctx context.Context, dir string, batch Batch) {
	if err := it.git.Checkout(ctx, dir, batch.TrunkBranch); err != nil {
		logger.Warnf("%s: could not switch back to %q: %v", dir, batch.TrunkBranch, err)
		return
	}
	if err := it.git.DeleteBranch(ctx, dir, batch.BranchName); err != nil {
		logger.Warnf("%s: could not delete branch %q: %v", dir, batch.BranchName, err)
	}
}

func (it *RepositoryPipeline) fail(stage entities.FailureStage, reason string) entities.RepositoryOutcome {
	logger.Errorf("%s: %s", stage, reason)
	return entities.FailedOutcome(stage, reason)
}
