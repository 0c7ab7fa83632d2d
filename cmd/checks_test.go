// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/jsltcheck/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDoc(t *testing.T) {
	doc := formatDoc("First paragraph that is long enough to need wrapping because it keeps going past the limit.\n\nSecond.")
	paras := strings.Split(doc, "\n\n")
	require.Len(t, paras, 2)
	for _, line := range strings.Split(paras[0], "\n") {
		assert.True(t, strings.HasPrefix(line, "  "), "line %q is not indented", line)
		assert.LessOrEqual(t, len(line), docWidth+2)
	}
	assert.Greater(t, strings.Count(paras[0], "\n"), 0)
	assert.Equal(t, "  Second.", paras[1])
}

func TestChecksCommand(t *testing.T) {
	cmd := ChecksCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	out := stdout.String()
	for _, name := range lint.AnalyzerNames() {
		assert.Contains(t, out, name+" (")
	}
	assert.Contains(t, out, "call-arity (error)")
	assert.Contains(t, out, "unused-symbol (warning)")
	assert.Contains(t, out, "classification (info)")
}

func TestChecksCommand_Named(t *testing.T) {
	cmd := ChecksCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"duplicate-key"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "duplicate-key (error)\n  Report object keys"))
	assert.NotContains(t, stdout.String(), "call-arity")

	cmd = ChecksCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bogus"})
	assert.ErrorContains(t, cmd.Execute(), "bogus")
}
