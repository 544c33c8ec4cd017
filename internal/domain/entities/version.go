package entities

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// rangeOperators are the prefixes npm allows in front of a version tuple.
// They are stripped before comparison: this comparator deliberately ignores
// range semantics and treats "^1.2.0" as the pinned version "1.2.0" when
// deciding whether a declaration is already new enough.
const rangeOperators = "^~="

// IsAtLeast reports whether current is greater than or equal to target under
// standard major.minor.patch ordering, after stripping any leading range
// operator from both sides. Missing components compare as zero. It returns an
// error only when either string cannot be parsed as a dotted numeric version
// after prefix stripping.
func IsAtLeast(current, target string) (bool, error) {
	currentCanonical, err := canonicalVersion(current)
	if err != nil {
		return false, err
	}
	targetCanonical, err := canonicalVersion(target)
	if err != nil {
		return false, err
	}
	return semver.Compare(currentCanonical, targetCanonical) >= 0, nil
}

// canonicalVersion strips the range operator and normalizes the remainder to
// the "vMAJOR[.MINOR[.PATCH]]" form golang.org/x/mod/semver understands.
func canonicalVersion(version string) (string, error) {
	cleaned := strings.TrimLeft(strings.TrimSpace(version), rangeOperators)
	cleaned = strings.TrimPrefix(cleaned, "v")
	canonical := "v" + cleaned
	if !semver.IsValid(canonical) {
		return "", fmt.Errorf("unparsable version %q", version)
	}
	return canonical, nil
}
