// Package config provides hierarchical configuration management for relkit
// using koanf. Configuration is loaded with priority: environment variables
// > project config (.relkit/config.yml) > user config
// (~/.config/relkit/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration holds every tunable of the relkit CLI.
type Configuration struct {
	// CompareHost is the repository path compare links point at,
	// e.g. "github.com/mozilla/application-services".
	CompareHost string `koanf:"compare_host" yaml:"compare_host"`

	// UpstreamRemote names the remote carrying the canonical branches.
	// UpstreamURL is added as that remote when it is missing (fork clones).
	UpstreamRemote string `koanf:"upstream_remote" yaml:"upstream_remote"`
	UpstreamURL    string `koanf:"upstream_url" yaml:"upstream_url"`
	// OriginRemote names the remote work branches are pushed to.
	OriginRemote string `koanf:"origin_remote" yaml:"origin_remote"`

	// VersionFile and ChangelogFile are the merge-day bookkeeping files,
	// relative to the repository root.
	VersionFile   string `koanf:"version_file" yaml:"version_file"`
	ChangelogFile string `koanf:"changelog_file" yaml:"changelog_file"`

	// Timezone is the IANA zone used to stamp release dates.
	Timezone string `koanf:"timezone" yaml:"timezone"`

	// FetchTimeoutSeconds bounds every network-bound git operation.
	FetchTimeoutSeconds int `koanf:"fetch_timeout" yaml:"fetch_timeout"`

	// Firefox configures the desktop ESR/Release dot-release workflow.
	Firefox FirefoxConfig `koanf:"firefox" yaml:"firefox"`

	// IOS configures the firefox-ios merge-day workflow.
	IOS IOSConfig `koanf:"ios" yaml:"ios"`

	// BalrogURL is the update-service release blob the nightly check reads.
	BalrogURL string `koanf:"balrog_url" yaml:"balrog_url"`

	// BugzillaAPIKey authenticates the release-metrics queries.
	// Can be set via the RELKIT_BUGZILLA_API_KEY env var.
	BugzillaAPIKey string `koanf:"bugzilla_api_key" yaml:"bugzilla_api_key"`
}

// FirefoxConfig locates the version files of a mozilla-central style
// checkout.
type FirefoxConfig struct {
	VersionFile        string `koanf:"version_file" yaml:"version_file"`
	DisplayVersionFile string `koanf:"display_version_file" yaml:"display_version_file"`
	MilestoneFile      string `koanf:"milestone_file" yaml:"milestone_file"`
}

// IOSConfig locates the version artifacts of a firefox-ios checkout.
type IOSConfig struct {
	VersionFile         string `koanf:"version_file" yaml:"version_file"`
	BitriseFile         string `koanf:"bitrise_file" yaml:"bitrise_file"`
	ReleaseBranchPrefix string `koanf:"release_branch_prefix" yaml:"release_branch_prefix"`

	// PlistFiles are the Info.plist files whose
	// CFBundleShortVersionString tracks the app version.
	PlistFiles []string `koanf:"plist_files" yaml:"plist_files"`
}

// FetchTimeout returns the configured timeout as a duration.
func (c *Configuration) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if userPath, err := UserConfigPath(); err == nil && fileExists(userPath) {
		if err := k.Load(file.Provider(userPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading user config %s: %w", userPath, err)
		}
	}

	projectPath := ProjectConfigPath()
	if projectConfigPath != "" {
		projectPath = projectConfigPath
	}
	if fileExists(projectPath) {
		if err := k.Load(file.Provider(projectPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading project config %s: %w", projectPath, err)
		}
	}

	if err := k.Load(env.Provider("RELKIT_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform maps RELKIT_FOO_BAR to foo_bar and RELKIT_IOS__VERSION_FILE
// to ios.version_file (double underscore nests).
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "RELKIT_"))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks cross-field constraints that koanf cannot express.
func Validate(cfg *Configuration) error {
	if cfg.UpstreamRemote == "" || cfg.OriginRemote == "" {
		return fmt.Errorf("config: upstream_remote and origin_remote must be set")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("config: fetch_timeout must be positive, got %d", cfg.FetchTimeoutSeconds)
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("config: invalid timezone %q: %w", cfg.Timezone, err)
		}
	}
	return nil
}

// DateStamp formats now as YYYY-MM-DD in the configured timezone, falling
// back to local time when the zone database is unavailable.
func (c *Configuration) DateStamp(now time.Time) string {
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			now = now.In(loc)
		}
	}
	return now.Format("2006-01-02")
}

// UserConfigPath returns the XDG-compliant user config path.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "relkit", "config.yml"), nil
}

// ProjectConfigPath returns the project config path relative to the
// current directory.
func ProjectConfigPath() string {
	return filepath.Join(".relkit", "config.yml")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
