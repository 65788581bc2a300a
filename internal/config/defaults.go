package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/knadh/koanf/v2"
)

// GetDefaults returns the default value for every configuration key.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"compare_host":    "github.com/mozilla/application-services",
		"upstream_remote": "upstream",
		"upstream_url":    "https://github.com/mozilla/application-services.git",
		"origin_remote":   "origin",
		"version_file":    "version.txt",
		"changelog_file":  "CHANGELOG.md",
		"timezone":        "America/Toronto",
		"fetch_timeout":   60,

		"firefox.version_file":         "browser/config/version.txt",
		"firefox.display_version_file": "browser/config/version_display.txt",
		"firefox.milestone_file":       "config/milestone.txt",

		"ios.version_file":          "version.txt",
		"ios.bitrise_file":          "bitrise.yml",
		"ios.release_branch_prefix": "release/",
		"ios.plist_files": []string{
			"firefox-ios/Client/Info.plist",
			"firefox-ios/CredentialProvider/Info.plist",
			"firefox-ios/Extensions/NotificationService/Info.plist",
			"firefox-ios/Extensions/ShareTo/Info.plist",
			"firefox-ios/WidgetKit/Info.plist",
			"focus-ios/Blockzilla/Info.plist",
			"focus-ios/ContentBlocker/Info.plist",
			"focus-ios/FocusIntentExtension/Info.plist",
			"focus-ios/OpenInFocus/Info.plist",
			"focus-ios/Widgets/Info.plist",
		},

		"balrog_url":       "https://aus-api.mozilla.org/api/v1/releases/Firefox-mozilla-central-nightly-latest",
		"bugzilla_api_key": "",
	}
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// WriteStarterConfig renders the current defaults as a commented YAML file
// at path, for `relkit config init`. Refuses to overwrite an existing file.
func WriteStarterConfig(path string) error {
	if fileExists(path) {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	header := "# relkit configuration\n" +
		"# Values here override the built-in defaults; environment variables\n" +
		"# with a RELKIT_ prefix override values here.\n\n"

	// Nest the dotted defaults so the YAML mirrors the config structure.
	nested := map[string]interface{}{}
	for key, value := range GetDefaults() {
		k := koanf.New(".")
		k.Set(key, value)
		merge(nested, k.Raw())
	}

	body, err := yaml.Marshal(nested)
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(header), body...), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// merge folds src into dst, recursing into nested maps.
func merge(dst, src map[string]interface{}) {
	for key, value := range src {
		if srcMap, ok := value.(map[string]interface{}); ok {
			if dstMap, ok := dst[key].(map[string]interface{}); ok {
				merge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = value
	}
}
