package entities

import (
	"fmt"
	"strings"
)

// PullRequestInput carries the data needed to open a pull request on the
// code-review platform.
type PullRequestInput struct {
	Title      string
	Body       string
	BaseBranch string
}

// PullRequest is the platform's reference to a created pull request.
type PullRequest struct {
	URL string
}

// PullRequestTitle builds the commit message and PR title from the packages
// that were actually updated. Packages that were skipped as not-found or
// already-current never appear here.
func PullRequestTitle(updated []PackageUpdate) string {
	if len(updated) == 0 {
		// The install step can rewrite the lockfile even when no manifest
		// entry changed; that delta still deserves an honest title.
		return "chore(deps): refresh npm lockfile"
	}

	mentions := make([]string, 0, len(updated))
	for _, update := range updated {
		mentions = append(mentions, fmt.Sprintf("%s@%s", update.Name, update.ToVersion))
	}
	return "chore(deps): upgrade " + strings.Join(mentions, ", ")
}

// PullRequestBody builds a markdown PR description for the applied updates.
func PullRequestBody(updated []PackageUpdate) string {
	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	if len(updated) == 0 {
		sb.WriteString("This PR refreshes the npm lockfile after a clean reinstall.\n\n")
	} else {
		sb.WriteString("This PR upgrades npm package versions and reinstalls dependencies to regenerate the lockfile.\n\n")
		sb.WriteString("### Changes\n\n")
		for _, update := range updated {
			sb.WriteString(fmt.Sprintf(
				"- Updated `%s` from `%s` to `%s` (%s)\n",
				update.Name, update.FromVersion, update.ToVersion, update.Section,
			))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("### Review Checklist\n\n")
	sb.WriteString("- [ ] Verify build passes\n")
	sb.WriteString("- [ ] Verify tests pass\n")
	sb.WriteString("- [ ] Review dependency changes in the lockfile\n")
	sb.WriteString("\n---\n")
	sb.WriteString("*This PR was automatically created by [batch-upgrade-npm-packages](https://github.com/johnnyshankman/batch-upgrade-npm-packages)*\n")
	return sb.String()
}
