package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/constants"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_LoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dev.yaml", `
name: dev-flow
industry: programming
steps:
  - name: Todo
    status: todo
  - name: Review
    status: in_progress
  - name: Shipped
    status: delivered
`)

	w, err := NewLoader(dir).LoadFromFile("dev.yaml")
	require.NoError(t, err)

	assert.Equal(t, "dev-flow", w.Name)
	assert.Equal(t, "programming", w.Industry)
	require.Len(t, w.Steps, 3)
	assert.Equal(t, constants.BoardStatusDelivered, w.Steps[2].Status)
}

func TestLoader_LoadFromFile_JSONNameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "support.json", `{"steps":[{"name":"New","status":"backlog"},{"name":"Solved","status":"completed"}]}`)

	w, err := NewLoader("").LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "support", w.Name)
	assert.Empty(t, w.Industry)
}

func TestLoader_LoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "steps: [unterminated")
	writeFile(t, dir, "empty.yaml", "name: empty\nsteps: []\n")
	writeFile(t, dir, "bad-status.yaml", "steps:\n  - name: x\n    status: archived\n")

	l := NewLoader(dir)

	_, err := l.LoadFromFile("missing.yaml")
	require.ErrorIs(t, err, tferrors.ErrWorkflowFileMissing)

	_, err = l.LoadFromFile("broken.yaml")
	require.ErrorIs(t, err, tferrors.ErrWorkflowParse)

	_, err = l.LoadFromFile("empty.yaml")
	require.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)

	_, err = l.LoadFromFile("bad-status.yaml")
	require.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "name: b\nsteps:\n  - name: Open\n    status: todo\n")
	writeFile(t, dir, "a.json", `{"name":"a","steps":[{"name":"Open","status":"todo"}]}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o750))

	got, err := NewLoader("").LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}

func TestLoader_LoadDir_Missing(t *testing.T) {
	got, err := NewLoader("").LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoader_LoadDir_FailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", "steps:\n  - name: Open\n    status: todo\n")
	writeFile(t, dir, "bad.yaml", "steps: []\n")

	_, err := NewLoader("").LoadDir(context.Background(), dir)
	require.ErrorIs(t, err, tferrors.ErrWorkflowInvalid)
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	steps := NewLegalTemplate().Steps
	data, err := Marshal("legal-copy", "legal", steps)
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "legal.yaml", string(data))

	w, err := NewLoader(dir).LoadFromFile("legal.yaml")
	require.NoError(t, err)
	assert.Equal(t, steps, w.Steps)
	assert.Equal(t, "legal", w.Industry)
}
