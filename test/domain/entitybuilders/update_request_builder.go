//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// UpdateRequestBuilder helps create test update requests with a fluent interface.
type UpdateRequestBuilder struct {
	*testkit.BaseBuilder
	packages     []string
	versions     []string
	repositories []string
}

// NewUpdateRequestBuilder creates a new update request builder with sensible defaults.
func NewUpdateRequestBuilder() *UpdateRequestBuilder {
	return &UpdateRequestBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		packages:     []string{"react"},
		versions:     []string{"18.3.1"},
		repositories: []string{"/tmp/repo"},
	}
}

// WithPackages sets the package names.
func (b *UpdateRequestBuilder) WithPackages(packages ...string) *UpdateRequestBuilder {
	b.packages = packages
	return b
}

// WithVersions sets the target versions.
func (b *UpdateRequestBuilder) WithVersions(versions ...string) *UpdateRequestBuilder {
	b.versions = versions
	return b
}

// WithRepositories sets the repository paths.
func (b *UpdateRequestBuilder) WithRepositories(repositories ...string) *UpdateRequestBuilder {
	b.repositories = repositories
	return b
}

// Build creates the update request (satisfies testkit.Builder interface).
func (b *UpdateRequestBuilder) Build() interface{} {
	return b.BuildUpdateRequest()
}

// BuildUpdateRequest creates the update request with a concrete return type.
func (b *UpdateRequestBuilder) BuildUpdateRequest() entities.UpdateRequest {
	return entities.UpdateRequest{
		Packages:     b.packages,
		Versions:     b.versions,
		Repositories: b.repositories,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpdateRequestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.packages = []string{"react"}
	b.versions = []string{"18.3.1"}
	b.repositories = []string{"/tmp/repo"}
	return b
}

// Clone creates a deep copy of the UpdateRequestBuilder.
func (b *UpdateRequestBuilder) Clone() testkit.Builder {
	return &UpdateRequestBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		packages:     append([]string(nil), b.packages...),
		versions:     append([]string(nil), b.versions...),
		repositories: append([]string(nil), b.repositories...),
	}
}
