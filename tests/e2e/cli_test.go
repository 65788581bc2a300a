//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relkit/internal/testutil"
)

func TestVersionCommand(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("version")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Contains(t, result.Stdout, "relkit")
}

func TestHelpListsCommandGroups(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("--help")
	require.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "Release Commands:")
	assert.Contains(t, result.Stdout, "Reporting Commands:")
	assert.Contains(t, result.Stdout, "Configuration Commands:")
	assert.Contains(t, result.Stdout, "merge-day")
	assert.Contains(t, result.Stdout, "dot-release")
}

func TestConfigInitAndShow(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("config", "init")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	// Second init refuses to clobber the file.
	result = env.Run("config", "init")
	assert.NotEqual(t, 0, result.ExitCode)
	assert.Contains(t, result.Stderr, "Configuration Error")

	result = env.Run("config", "show")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Contains(t, result.Stdout, "compare_host:")
	assert.Contains(t, result.Stdout, "changelog_file:")
}

func TestInvalidArgumentsExitCode(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	tests := map[string]struct {
		args []string
	}{
		"bad merge-day version":  {args: []string{"merge-day", "cut", "not-a-number"}},
		"bad nightly buildid":    {args: []string{"nightly", "check", "soon"}},
		"missing dot-release ch": {args: []string{"dot-release"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			result := env.Run(tc.args...)
			assert.NotEqual(t, 0, result.ExitCode)
		})
	}
}

func TestRunOutsideRepository(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("ios", "merge-day")
	assert.NotEqual(t, 0, result.ExitCode)
	assert.Contains(t, result.Stderr, "repository")
}
