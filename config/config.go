package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime defaults for a batch run. Every field has a
// working default; a config file only needs to name the fields it overrides.
type Config struct {
	TrunkBranch string `yaml:"trunk_branch"` // integration branch, never committed to directly
	Remote      string `yaml:"remote"`
	Manifest    string `yaml:"manifest"`
	Lockfile    string `yaml:"lockfile"`
	Concurrency int    `yaml:"concurrency"` // repositories processed in parallel
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		TrunkBranch: "main",
		Remote:      "origin",
		Manifest:    "package.json",
		Lockfile:    "package-lock.json",
		Concurrency: 1,
	}
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables
// and overlaying the result on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	// Expand ${ENV_VAR} references in the string fields
	cfg.TrunkBranch = expandEnv(cfg.TrunkBranch)
	cfg.Remote = expandEnv(cfg.Remote)
	cfg.Manifest = expandEnv(cfg.Manifest)
	cfg.Lockfile = expandEnv(cfg.Lockfile)

	if validateErr := validate(cfg); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// expandEnv replaces ${VAR} placeholders with the variable's value. An unset
// variable expands to the empty string with a warning, which validation then
// rejects for mandatory fields.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}

	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".batchupgrade.yaml",
		".batchupgrade.yml",
		"batchupgrade.yaml",
		"batchupgrade.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func validate(cfg *Config) error {
	if cfg.TrunkBranch == "" {
		return errors.New("trunk_branch must not be empty")
	}
	if cfg.Remote == "" {
		return errors.New("remote must not be empty")
	}
	if cfg.Manifest == "" {
		return errors.New("manifest must not be empty")
	}
	if cfg.Lockfile == "" {
		return errors.New("lockfile must not be empty")
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	return nil
}
