package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainPatchYAML = `
blocks:
  - id: dot
    type: instance2D
    params:
      glyph: {kind: literal, literalKind: string, literalString: circle}
  - id: sink
    type: renderSink
wires:
  - from: {block: dot, slot: out}
    to: {block: sink, slot: in}
`

func writeTempPatch(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "patch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["compile"])
	assert.True(t, names["run"])
	assert.True(t, names["inspect"])
}

func TestCompileCmd_ValidPatch_Succeeds(t *testing.T) {
	path := writeTempPatch(t, chainPatchYAML)
	root := newRootCmd()
	root.SetArgs([]string{"compile", path})
	assert.NoError(t, root.Execute())
}

func TestCompileCmd_MissingFile_Errors(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"compile", "/nonexistent/patch.yaml"})
	assert.Error(t, root.Execute())
}

func TestInspectCmd_ValidPatch_Succeeds(t *testing.T) {
	path := writeTempPatch(t, chainPatchYAML)
	root := newRootCmd()
	root.SetArgs([]string{"inspect", path})
	assert.NoError(t, root.Execute())
}
