package entities

// OutcomeStatus is the terminal state of one repository's pipeline run.
type OutcomeStatus string

const (
	StatusSuccess   OutcomeStatus = "success"
	StatusNoChanges OutcomeStatus = "no-changes"
	StatusFailed    OutcomeStatus = "failed"
)

// FailureStage identifies the pipeline gate at which a repository failed.
// Stage failures are repository-scoped: they finalize that repository's
// outcome and never abort sibling repositories.
type FailureStage string

const (
	StageNavigation   FailureStage = "navigation"
	StageBranchSwitch FailureStage = "branch-switch"
	StageSync         FailureStage = "sync"
	StageBranchCreate FailureStage = "branch-create"
	StageForceInstall FailureStage = "force-install"
	StageInstall      FailureStage = "install"
	StageCommit       FailureStage = "commit"
	StagePush         FailureStage = "push"
	StagePublish      FailureStage = "publish"
	StageUnexpected   FailureStage = "unexpected"
)

// PackageUpdate records one manifest edit that was actually applied.
type PackageUpdate struct {
	Name        string
	FromVersion string
	ToVersion   string
	Section     DependencySection
}

// RepositoryOutcome is the result of running the pipeline on one repository.
// It is finalized exactly once, at the first unrecoverable failure or at
// successful completion, and never mutated afterward.
type RepositoryOutcome struct {
	Status         OutcomeStatus
	Updated        []PackageUpdate
	Resolutions    []PackageResolution
	PullRequestURL string
	FailedStage    FailureStage
	Reason         string
}

// SuccessOutcome finalizes a run that opened a pull request.
func SuccessOutcome(updated []PackageUpdate, resolutions []PackageResolution, prURL string) RepositoryOutcome {
	return RepositoryOutcome{
		Status:         StatusSuccess,
		Updated:        updated,
		Resolutions:    resolutions,
		PullRequestURL: prURL,
	}
}

// NoChangesOutcome finalizes a run that produced no observable delta. This is
// a success, not a failure: the feature branch is cleaned up and no pull
// request is opened.
func NoChangesOutcome(resolutions []PackageResolution) RepositoryOutcome {
	return RepositoryOutcome{Status: StatusNoChanges, Resolutions: resolutions}
}

// FailedOutcome finalizes a run aborted at the given stage.
func FailedOutcome(stage FailureStage, reason string) RepositoryOutcome {
	return RepositoryOutcome{Status: StatusFailed, FailedStage: stage, Reason: reason}
}

// RepositoryReport pairs a repository path with its finalized outcome.
type RepositoryReport struct {
	Repository string
	Outcome    RepositoryOutcome
}

// BatchSummary enumerates every repository of a batch run with its outcome,
// in the original input order.
type BatchSummary struct {
	Reports []RepositoryReport
}

// Counts tallies the reports by terminal status.
func (it BatchSummary) Counts() (succeeded, unchanged, failed int) {
	for _, report := range it.Reports {
		switch report.Outcome.Status {
		case StatusSuccess:
			succeeded++
		case StatusNoChanges:
			unchanged++
		case StatusFailed:
			failed++
		}
	}
	return succeeded, unchanged, failed
}

// HasFailures reports whether any repository failed.
func (it BatchSummary) HasFailures() bool {
	_, _, failed := it.Counts()
	return failed > 0
}
