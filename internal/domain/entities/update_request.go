package entities

import (
	"errors"
	"time"
)

const branchTimestampLayout = "20060102150405"

// UpdateRequest is the immutable input to one batch run. Packages and
// Versions correspond positionally: Packages[i] is upgraded to Versions[i]
// in every repository listed in Repositories.
type UpdateRequest struct {
	Packages     []string
	Versions     []string
	Repositories []string
}

// Validate checks the request shape before any repository is touched.
func (it UpdateRequest) Validate() error {
	if len(it.Packages) == 0 {
		return errors.New("at least one package is required")
	}
	if len(it.Packages) != len(it.Versions) {
		return errors.New("package and version lists must have the same length")
	}
	if len(it.Repositories) == 0 {
		return errors.New("at least one repository is required")
	}
	return nil
}

// UpdateBranchName derives the feature branch name for a batch run. Every
// repository in the run shares the same timestamp so the branches created by
// one batch are traceable to the same event.
func UpdateBranchName(startedAt time.Time) string {
	return "update-packages-" + startedAt.Format(branchTimestampLayout)
}
