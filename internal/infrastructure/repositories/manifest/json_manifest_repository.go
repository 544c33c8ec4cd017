package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

const manifestFileMode = 0o644

// JSONManifestRepository implements repositories.ManifestRepository for npm
// package.json files. There is exactly one structured mutator: no lexical
// fallback editing, ever.
//
// Serialization is deterministic: keys sorted, two-space indent, trailing
// newline. Writing the same semantic content twice produces identical bytes,
// which keeps the pipeline's diff-based change detection honest.
type JSONManifestRepository struct{}

// NewJSONManifestRepository creates a filesystem-backed manifest editor.
func NewJSONManifestRepository() repositories.ManifestRepository {
	return &JSONManifestRepository{}
}

// Exists reports whether a manifest file exists at path.
func (p *JSONManifestRepository) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FindPackage scans the dependency sections in priority order and returns the
// first declaring the package. Parse failures are logged and treated as "not
// found": skipping is safer than corrupting.
func (p *JSONManifestRepository) FindPackage(path, name string) (entities.DependencySection, string, bool) {
	document, err := readDocument(path)
	if err != nil {
		logger.Warnf("Could not read manifest %s: %v", path, err)
		return "", "", false
	}

	for _, section := range entities.DependencySections() {
		dependencies, ok, parseErr := parseSection(document, section)
		if parseErr != nil {
			logger.Warnf("Could not parse %s section of %s: %v", section, path, parseErr)
			continue
		}
		if !ok {
			continue
		}
		if version, declared := dependencies[name]; declared {
			return section, version, true
		}
	}

	return "", "", false
}

// SetVersion rewrites the declared version of an existing package entry.
// Update-only: it returns false without writing when the section or the
// package is absent.
func (p *JSONManifestRepository) SetVersion(
	path string,
	section entities.DependencySection,
	name, newVersion string,
) (bool, error) {
	document, err := readDocument(path)
	if err != nil {
		return false, err
	}

	dependencies, ok, parseErr := parseSection(document, section)
	if parseErr != nil {
		return false, parseErr
	}
	if !ok {
		return false, nil
	}
	if _, declared := dependencies[name]; !declared {
		return false, nil
	}

	dependencies[name] = newVersion

	sectionRaw, marshalErr := json.Marshal(dependencies)
	if marshalErr != nil {
		return false, fmt.Errorf("failed to serialize %s section: %w", section, marshalErr)
	}
	document[string(section)] = sectionRaw

	serialized, marshalErr := json.MarshalIndent(document, "", "  ")
	if marshalErr != nil {
		return false, fmt.Errorf("failed to serialize manifest: %w", marshalErr)
	}
	serialized = append(serialized, '\n')

	if writeErr := os.WriteFile(path, serialized, manifestFileMode); writeErr != nil {
		return false, fmt.Errorf("failed to write manifest %s: %w", path, writeErr)
	}
	return true, nil
}

func readDocument(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var document map[string]json.RawMessage
	if unmarshalErr := json.Unmarshal(data, &document); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, unmarshalErr)
	}
	return document, nil
}

// parseSection extracts a dependency section as name -> version pairs. The
// second return value reports whether the section exists at all.
func parseSection(
	document map[string]json.RawMessage,
	section entities.DependencySection,
) (map[string]string, bool, error) {
	raw, ok := document[string(section)]
	if !ok {
		return nil, false, nil
	}

	var dependencies map[string]string
	if err := json.Unmarshal(raw, &dependencies); err != nil {
		return nil, true, fmt.Errorf("section %s is not a string map: %w", section, err)
	}
	return dependencies, true, nil
}
