// Package mobile sets the firefox-ios app version across its build
// metadata: the bitrise.yml pipeline variables, the Info.plist bundle
// versions, and the version file. The YAML is edited with anchored
// substitutions rather than a parse and re-marshal so the file keeps its
// comments and formatting; the result is still parsed afterwards to catch
// a rewrite that broke the document.
package mobile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raveheart1/relkit/internal/config"
	"github.com/raveheart1/relkit/internal/output"
	"github.com/raveheart1/relkit/internal/version"
)

// Repository is the slice of git operations SetVersion needs. git.Client
// satisfies it.
type Repository interface {
	IsClean(ctx context.Context) (bool, error)
	Commit(message string, paths ...string) (bool, error)
}

// Workspace reads and writes checkout files, mirroring the release
// package's collaborator of the same name.
type Workspace interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
}

var (
	releaseVersionRe = regexp.MustCompile(`(BITRISE_RELEASE_VERSION: )'(\d+\.\d+)'`)
	betaVersionRe    = regexp.MustCompile(`(BITRISE_BETA_VERSION: )'(\d+\.\d+)'`)
	pushBranchRe     = regexp.MustCompile(`(push_branch:\s+release/v)(\d+)`)
)

// RewriteBitrise substitutes v into the version variables and the push
// branch of a bitrise.yml document. The returned count is the number of
// substitutions made; zero means the document carried none of the keys.
func RewriteBitrise(doc string, v version.Version) (string, int) {
	count := 0
	sub := func(re *regexp.Regexp, replacement string) {
		doc = re.ReplaceAllStringFunc(doc, func(m string) string {
			count++
			return re.ReplaceAllString(m, replacement)
		})
	}
	sub(releaseVersionRe, fmt.Sprintf("${1}'%s'", v))
	sub(betaVersionRe, fmt.Sprintf("${1}'%s'", v))
	sub(pushBranchRe, fmt.Sprintf("${1}%d", v.Major))
	return doc, count
}

// ValidateYAML checks that doc still parses as a YAML document.
func ValidateYAML(doc string) error {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &node); err != nil {
		return fmt.Errorf("rewritten document is not valid YAML: %w", err)
	}
	return nil
}

// SetVersionResult records what a set-version run did.
type SetVersionResult struct {
	Version      string
	Replacements int
	Plists       int
	Committed    bool
}

// Bumper applies version bumps to an iOS checkout.
type Bumper struct {
	Repo Repository
	FS   Workspace
	Cfg  *config.Configuration
	Out  *output.Printer
}

// SetVersion rewrites bitrise.yml, the configured Info.plist files, and
// the version file to raw and commits the result. The working tree must
// be clean before the rewrite.
func (b *Bumper) SetVersion(ctx context.Context, raw string) (*SetVersionResult, error) {
	v, err := version.Parse(raw, version.IOSRolling)
	if err != nil {
		return nil, err
	}

	clean, err := b.Repo.IsClean(ctx)
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, fmt.Errorf("working directory has uncommitted changes; commit or stash them first")
	}

	doc, err := b.FS.ReadFile(b.Cfg.IOS.BitriseFile)
	if err != nil {
		return nil, err
	}
	rewritten, count := RewriteBitrise(doc, v)
	if count == 0 {
		return nil, fmt.Errorf("no version keys found in %s; nothing to update", b.Cfg.IOS.BitriseFile)
	}
	if err := ValidateYAML(rewritten); err != nil {
		return nil, err
	}
	if err := b.FS.WriteFile(b.Cfg.IOS.BitriseFile, rewritten); err != nil {
		return nil, err
	}
	b.Out.Change("%s: %d substitutions for %s", b.Cfg.IOS.BitriseFile, count, v)

	paths := []string{b.Cfg.IOS.BitriseFile, b.Cfg.IOS.VersionFile}
	plists := 0
	for _, path := range b.Cfg.IOS.PlistFiles {
		doc, err := b.FS.ReadFile(path)
		if err != nil {
			return nil, err
		}
		rewritten, changed, err := RewritePlist([]byte(doc), v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if !changed {
			continue
		}
		if err := b.FS.WriteFile(path, string(rewritten)); err != nil {
			return nil, err
		}
		b.Out.Change("%s: %s -> %s", path, bundleVersionKey, v)
		paths = append(paths, path)
		plists++
	}

	current, err := b.FS.ReadFile(b.Cfg.IOS.VersionFile)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(current) != v.String() {
		if err := b.FS.WriteFile(b.Cfg.IOS.VersionFile, v.String()+"\n"); err != nil {
			return nil, err
		}
		b.Out.Change("%s: -> %q", b.Cfg.IOS.VersionFile, v.String())
	}

	message := fmt.Sprintf("Bump - Set version to %s", v)
	committed, err := b.Repo.Commit(message, paths...)
	if err != nil {
		return nil, err
	}
	if committed {
		b.Out.Info("Committed: %s", message)
	}

	return &SetVersionResult{
		Version:      v.String(),
		Replacements: count,
		Plists:       plists,
		Committed:    committed,
	}, nil
}
