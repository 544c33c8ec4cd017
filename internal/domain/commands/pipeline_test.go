//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/commands"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	doubles "github.com/johnnyshankman/batch-upgrade-npm-packages/test/infrastructure/repositorydoubles"
)

func testBatch() commands.Batch {
	return commands.Batch{
		Packages:    []string{"react"},
		Versions:    []string{"18.3.1"},
		BranchName:  "update-packages-20260101120000",
		TrunkBranch: "main",
		Remote:      "origin",
		Manifest:    "package.json",
		Lockfile:    "package-lock.json",
	}
}

func manifestWith(entries map[string]doubles.ManifestEntry) *doubles.StubManifestRepository {
	return &doubles.StubManifestRepository{Packages: entries}
}

func TestRepositoryPipelineRun(t *testing.T) {
	t.Parallel()

	t.Run("should fail at navigation when path is not a working tree", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: false}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(nil)
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/not-a-repo", testBatch())

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StageNavigation, outcome.FailedStage)
		assert.False(t, git.Called("HardReset"))
	})

	t.Run("should upgrade a package and open a pull request", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: true}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{
			CreatedPR: &entities.PullRequest{URL: "https://github.com/acme/web/pull/7"},
		}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)
		batch := testBatch()

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", batch)

		// then
		require.Equal(t, entities.StatusSuccess, outcome.Status)
		assert.Equal(t, "https://github.com/acme/web/pull/7", outcome.PullRequestURL)
		require.Len(t, outcome.Updated, 1)
		assert.Equal(t, "react", outcome.Updated[0].Name)
		assert.Equal(t, "18.2.0", outcome.Updated[0].FromVersion)
		assert.Equal(t, "18.3.1", outcome.Updated[0].ToVersion)

		// trunk prepared, branch created, diff checked
		assert.Equal(t, []string{"main"}, git.CheckedOutBranches)
		assert.Equal(t, []string{batch.BranchName}, git.CreatedBranches)
		require.Len(t, git.DiffPaths, 1)
		assert.Equal(t, []string{"package.json", "package-lock.json"}, git.DiffPaths[0])

		// each install phase starts from a removed install dir
		assert.Equal(t, []string{
			"RemoveInstallDir", "Install(forced)", "RemoveInstallDir", "Install",
		}, npm.Calls)

		// exactly the manifest and lockfile are staged, commit matches the PR title
		require.Len(t, git.StagedPaths, 1)
		assert.Equal(t, []string{"package.json", "package-lock.json"}, git.StagedPaths[0])
		require.Len(t, git.CommitMessages, 1)
		assert.Equal(t, "chore(deps): upgrade react@18.3.1", git.CommitMessages[0])
		assert.Equal(t, []string{batch.BranchName}, git.PushedBranches)

		require.Len(t, reviews.PRInputs, 1)
		assert.Equal(t, "chore(deps): upgrade react@18.3.1", reviews.PRInputs[0].Title)
		assert.Equal(t, "main", reviews.PRInputs[0].BaseBranch)
	})

	t.Run("should skip a package not declared in the manifest", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: false}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"vue": {Section: entities.SectionDependencies, Version: "3.4.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusNoChanges, outcome.Status)
		require.Len(t, outcome.Resolutions, 1)
		assert.Equal(t, entities.ResolutionNotFound, outcome.Resolutions[0].Kind)
		assert.Empty(t, manifests.SetCalls)
		assert.Empty(t, npm.Calls)
	})

	t.Run("should skip a package already at or above the target", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: false}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "^18.4.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusNoChanges, outcome.Status)
		require.Len(t, outcome.Resolutions, 1)
		assert.Equal(t, entities.ResolutionAlreadyCurrent, outcome.Resolutions[0].Kind)
		assert.Equal(t, "^18.4.0", outcome.Resolutions[0].CurrentVersion)
		assert.Empty(t, manifests.SetCalls)
	})

	t.Run("should record a failed manifest edit as a skipped package", func(t *testing.T) {
		// given: the edit itself fails after the package resolves
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: false}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		manifests.SetErr = errors.New("read-only file system")
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then: one resolution per requested package, edit failure included
		assert.Equal(t, entities.StatusNoChanges, outcome.Status)
		require.Len(t, outcome.Resolutions, 1)
		assert.Equal(t, entities.ResolutionNotFound, outcome.Resolutions[0].Kind)
		assert.Empty(t, outcome.Updated)
		assert.Empty(t, npm.Calls)
	})

	t.Run("should delete the branch when nothing changed", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: false}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.3.1"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)
		batch := testBatch()

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", batch)

		// then
		assert.Equal(t, entities.StatusNoChanges, outcome.Status)
		// back on trunk, feature branch removed, nothing committed
		assert.Equal(t, []string{"main", "main"}, git.CheckedOutBranches)
		assert.Equal(t, []string{batch.BranchName}, git.DeletedBranches)
		assert.False(t, git.Called("Commit"))
		assert.Empty(t, reviews.PRInputs)
	})

	t.Run("should stop before the regular install when the forced install fails", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true}
		npm := &doubles.SpyPackageManagerRepository{
			ForcedInstallErr: errors.New("peer dependency conflict"),
		}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StageForceInstall, outcome.FailedStage)
		assert.Equal(t, []string{"RemoveInstallDir", "Install(forced)"}, npm.Calls)
		assert.False(t, git.Called("Commit"))
		assert.Empty(t, reviews.PRInputs)
	})

	t.Run("should fail at install when the regular install fails after the forced one", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true}
		npm := &doubles.SpyPackageManagerRepository{
			InstallErr: errors.New("integrity checksum failed"),
		}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StageInstall, outcome.FailedStage)
		assert.Equal(t, []string{
			"RemoveInstallDir", "Install(forced)", "RemoveInstallDir", "Install",
		}, npm.Calls)
		assert.False(t, git.Called("Commit"))
	})

	t.Run("should fail at sync when the pull fails", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{
			WorkTree: true,
			PullErr:  errors.New("connection refused"),
		}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(nil)
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StageSync, outcome.FailedStage)
		assert.False(t, git.Called("CreateBranch"))
	})

	t.Run("should fail at commit when staging fails", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{
			WorkTree:   true,
			DiffResult: true,
			StageErr:   errors.New("index locked"),
		}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StageCommit, outcome.FailedStage)
		assert.Empty(t, reviews.PRInputs)
	})

	t.Run("should fail at publish and leave the pushed branch alone", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: true}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{
			CreatePRErr: errors.New("rate limited"),
		}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)
		batch := testBatch()

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", batch)

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StagePublish, outcome.FailedStage)
		assert.Equal(t, []string{batch.BranchName}, git.PushedBranches)
		assert.Empty(t, git.DeletedBranches)
	})

	t.Run("should report a lockfile-only delta as a real change", func(t *testing.T) {
		// given: the package is current, but the diff says the lockfile moved
		git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: true}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.3.1"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		require.Equal(t, entities.StatusSuccess, outcome.Status)
		assert.Empty(t, outcome.Updated)
		require.Len(t, git.CommitMessages, 1)
		assert.Equal(t, "chore(deps): refresh npm lockfile", git.CommitMessages[0])
	})

	t.Run("should not touch the repository in dry run mode", func(t *testing.T) {
		// given
		git := &doubles.SpyGitRepository{WorkTree: true}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.2.0"},
		})
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)
		batch := testBatch()
		batch.DryRun = true

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", batch)

		// then
		assert.Equal(t, entities.StatusNoChanges, outcome.Status)
		require.Len(t, outcome.Resolutions, 1)
		assert.Equal(t, entities.ResolutionUpdated, outcome.Resolutions[0].Kind)
		assert.Empty(t, manifests.SetCalls)
		assert.Empty(t, npm.Calls)
		assert.Equal(t, []string{"IsWorkTree"}, git.Calls)
	})

	t.Run("should produce the same result when run twice on a current manifest", func(t *testing.T) {
		// given
		manifests := manifestWith(map[string]doubles.ManifestEntry{
			"react": {Section: entities.SectionDependencies, Version: "18.3.1"},
		})

		for run := 0; run < 2; run++ {
			git := &doubles.SpyGitRepository{WorkTree: true, DiffResult: false}
			npm := &doubles.SpyPackageManagerRepository{}
			reviews := &doubles.SpyCodeReviewRepository{}
			pipeline := commands.NewRepositoryPipeline(git, npm, reviews, manifests)

			// when
			outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

			// then
			assert.Equal(t, entities.StatusNoChanges, outcome.Status)
			assert.Empty(t, manifests.SetCalls)
		}
	})

	t.Run("should turn a panic into a failed outcome", func(t *testing.T) {
		// given: a nil manifest repository makes the analyze stage panic
		git := &doubles.SpyGitRepository{WorkTree: true}
		npm := &doubles.SpyPackageManagerRepository{}
		reviews := &doubles.SpyCodeReviewRepository{}
		pipeline := commands.NewRepositoryPipeline(git, npm, reviews, nil)

		// when
		outcome := pipeline.Run(context.Background(), "/tmp/web", testBatch())

		// then
		assert.Equal(t, entities.StatusFailed, outcome.Status)
		assert.Equal(t, entities.StageUnexpected, outcome.FailedStage)
		assert.NotEmpty(t, outcome.Reason)
	})
}
