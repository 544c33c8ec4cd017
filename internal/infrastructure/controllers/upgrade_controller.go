package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/config"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/commands"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
)

// UpgradeController handles the "upgrade" subcommand (batch mode).
type UpgradeController struct {
	command commands.Upgrade
}

// NewUpgradeController creates a new UpgradeController.
func NewUpgradeController(command commands.Upgrade) *UpgradeController {
	return &UpgradeController{command: command}
}

// GetBind returns the Cobra command metadata for the upgrade controller.
func (it *UpgradeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "upgrade",
		Short: "Upgrade npm packages across multiple repositories",
		Long: `Upgrade a set of npm packages to pinned versions across many
local repository clones in one run.

For each repository the tool checks out the trunk branch, pulls the
latest changes, creates a shared update branch, rewrites the manifest,
verifies the result with a clean reinstall, and opens a Pull Request.
Repositories are independent: a failure in one never stops the others.`,
	}
}

// Execute runs the batch upgrade. The returned error makes the process exit
// non-zero when preconditions fail or any repository ends in failure.
func (it *UpgradeController) Execute(cmd *cobra.Command, _ []string) error {
	// Cobra's context carries signal cancellation down to the subprocesses.
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	packages, _ := cmd.Flags().GetStringSlice("packages")
	versions, _ := cmd.Flags().GetStringSlice("versions")
	repos, _ := cmd.Flags().GetStringSlice("repos")
	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	request := entities.UpdateRequest{
		Packages:     packages,
		Versions:     versions,
		Repositories: repos,
	}

	summary, err := it.command.Execute(ctx, request, commands.UpgradeOptions{
		TrunkBranch: cfg.TrunkBranch,
		Remote:      cfg.Remote,
		Manifest:    cfg.Manifest,
		Lockfile:    cfg.Lockfile,
		Concurrency: cfg.Concurrency,
		DryRun:      dryRun,
		Verbose:     verbose,
	})
	if err != nil {
		return err
	}

	logSummary(summary)

	if summary.HasFailures() {
		_, _, failed := summary.Counts()
		return fmt.Errorf("%d of %d repositories failed", failed, len(summary.Reports))
	}
	return nil
}

// AddFlags adds the upgrade-specific flags to the given Cobra command.
func (it *UpgradeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("packages", nil,
		"Packages to upgrade (comma-separated or repeated)")
	cmd.Flags().StringSlice("versions", nil,
		"Target versions, one per package, in the same order")
	cmd.Flags().StringSlice("repos", nil,
		"Paths to local repository clones to process")
	cmd.Flags().Int("concurrency", 0,
		"Repositories to process in parallel (overrides config)")
}

// loadConfig resolves the effective configuration: an explicit --config path
// must load, a discovered file is used when present, and defaults apply
// otherwise.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	found, findErr := config.FindConfigFile()
	if findErr != nil {
		logger.Debug("No config file found, using defaults")
		return config.Default(), nil
	}

	logger.Infof("Using config file: %s", found)
	cfg, err := config.Load(found)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// logSummary prints one line per repository so the batch result reads as a
// report, not a log dump.
func logSummary(summary entities.BatchSummary) {
	for _, report := range summary.Reports {
		outcome := report.Outcome
		switch outcome.Status {
		case entities.StatusSuccess:
			logger.Infof("  %s: upgraded %d packages, PR %s",
				report.Repository, len(outcome.Updated), outcome.PullRequestURL)
		case entities.StatusNoChanges:
			logger.Infof("  %s: no changes", report.Repository)
		case entities.StatusFailed:
			logger.Errorf("  %s: failed at %s: %s",
				report.Repository, outcome.FailedStage, outcome.Reason)
		}
	}
}
