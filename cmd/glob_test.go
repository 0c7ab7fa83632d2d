// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExcludes(t *testing.T, patterns ...string) excludeSet {
	t.Helper()
	set, err := compileExcludes(patterns)
	require.NoError(t, err)
	return set
}

func TestExcludeFilter_ByName(t *testing.T) {
	paths := []string{
		"src/main.jslt",
		"src/shared.jslt",
		"lib/utils.jslt",
	}
	result := mustExcludes(t, "shared.jslt").filter(paths)
	assert.Equal(t, []string{"src/main.jslt", "lib/utils.jslt"}, result)
}

func TestExcludeFilter_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.jslt",
		"build/output.jslt",
		"build/sub/deep.jslt",
		"lib/utils.jslt",
	}
	result := mustExcludes(t, "build").filter(paths)
	assert.Equal(t, []string{"src/main.jslt", "lib/utils.jslt"}, result)
}

func TestExcludeFilter_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.jslt",
		"src/generated_foo.jslt",
		"src/generated_bar.jslt",
		"lib/utils.jslt",
	}
	result := mustExcludes(t, "generated_*").filter(paths)
	assert.Equal(t, []string{"src/main.jslt", "lib/utils.jslt"}, result)
}

func TestExcludeFilter_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.jslt",
		"build/output.jslt",
		"src/shared.jslt",
		"lib/utils.jslt",
	}
	result := mustExcludes(t, "build", "shared.jslt").filter(paths)
	assert.Equal(t, []string{"src/main.jslt", "lib/utils.jslt"}, result)
}

func TestExcludeFilter_NoMatches(t *testing.T) {
	paths := []string{"src/main.jslt", "lib/utils.jslt"}
	result := mustExcludes(t, "nonexistent").filter(paths)
	assert.Equal(t, paths, result)
}

func TestExcludeFilter_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.jslt"}
	result := mustExcludes(t).filter(paths)
	assert.Equal(t, paths, result)
}

func TestExcludeMatches(t *testing.T) {
	set := mustExcludes(t, "src/*.jslt")
	assert.True(t, set.matches("src/main.jslt"))
	assert.False(t, set.matches("lib/main.jslt"))
	assert.False(t, set.matches("src/nested/main.jslt"), "* does not cross directories")

	assert.True(t, mustExcludes(t, "{vendor,build}").matches("project/build/output.jslt"))
	assert.True(t, mustExcludes(t, "src/**").matches("src/nested/main.jslt"))
}

func TestCompileExcludes_Invalid(t *testing.T) {
	_, err := compileExcludes([]string{"[unclosed"})
	assert.ErrorContains(t, err, "invalid exclude pattern")
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.jslt"}, splitPath("./a/b/c.jslt"))
	assert.Equal(t, []string{"tmp", "x.jslt"}, splitPath("/tmp/x.jslt"))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"a.jslt",
		"sub/b.jslt",
		"sub/generated_c.jslt",
		"notes.txt",
		".hidden/d.jslt",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("1"), 0o600))
	}

	files, err := expandArgs([]string{dir + "/...", "explicit.jslt"}, mustExcludes(t, "generated_*"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jslt"),
		filepath.Join(dir, "sub", "b.jslt"),
		"explicit.jslt",
	}, files)
}

func TestWatchRoots(t *testing.T) {
	roots := watchRoots([]string{"./...", "lib/...", "lib/x.jslt", "other/y.jslt", "..."})
	assert.Equal(t, []string{".", "lib", "other"}, roots)
}
