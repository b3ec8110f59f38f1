package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/errors"
)

func TestExitCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitError)
	assert.Equal(t, 2, ExitInvalidInput)
}

func TestAddGlobalFlags_ParsesCorrectly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected GlobalFlags
	}{
		{
			name:     "defaults",
			args:     []string{},
			expected: GlobalFlags{Output: OutputText},
		},
		{
			name:     "short flags",
			args:     []string{"-o", "json", "-v"},
			expected: GlobalFlags{Output: OutputJSON, Verbose: true},
		},
		{
			name:     "db and actor",
			args:     []string{"--db", "/tmp/x.db", "--actor", "alice", "--quiet"},
			expected: GlobalFlags{Output: OutputText, Quiet: true, DB: "/tmp/x.db", Actor: "alice"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			flags := &GlobalFlags{}
			cmd := &cobra.Command{Use: "test", RunE: func(_ *cobra.Command, _ []string) error { return nil }}
			AddGlobalFlags(cmd, flags)
			cmd.SetArgs(tc.args)
			cmd.SetOut(new(bytes.Buffer))

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tc.expected, *flags)
		})
	}
}

func TestBindGlobalFlags(t *testing.T) {
	t.Setenv("TASKFLOW_ACTOR", "env-actor")
	t.Setenv("TASKFLOW_DB", "")

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags([]string{"--output", "json"}))

	require.NoError(t, BindGlobalFlags(viper.New(), cmd, flags))
	assert.Equal(t, OutputJSON, flags.Output)
	assert.Equal(t, "env-actor", flags.Actor)
	assert.Empty(t, flags.DB)
}

func TestGlobalFlags_Actor(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("USER", "someone")
		f := &GlobalFlags{Actor: "  alice "}
		assert.Equal(t, "alice", f.actor())
	})

	t.Run("falls back to USER", func(t *testing.T) {
		t.Setenv("USER", "someone")
		assert.Equal(t, "someone", (&GlobalFlags{}).actor())
	})

	t.Run("falls back to cli", func(t *testing.T) {
		t.Setenv("USER", "")
		assert.Equal(t, defaultActor, (&GlobalFlags{Actor: " "}).actor())
	})
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"text", "json"}, ValidOutputFormats())
	assert.True(t, IsValidOutputFormat("text"))
	assert.True(t, IsValidOutputFormat("json"))
	assert.False(t, IsValidOutputFormat("JSON"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitSuccess},
		{name: "generic", err: stderrors.New("disk on fire"), expected: ExitError},
		{name: "exit code 2 wrapper", err: errors.NewExitCode2Error(stderrors.New("bad")), expected: ExitInvalidInput},
		{name: "invalid output format", err: fmt.Errorf("%w: yaml", errors.ErrInvalidOutputFormat), expected: ExitInvalidInput},
		{name: "invalid argument", err: errors.ErrInvalidArgument, expected: ExitInvalidInput},
		{name: "task not found", err: errors.NewTaskError(errors.ErrTaskNotFound, "t1", "", "no task"), expected: ExitInvalidInput},
		{name: "cycle", err: fmt.Errorf("add relation: %w", errors.ErrCycle), expected: ExitInvalidInput},
		{name: "validation", err: errors.ErrValidation, expected: ExitInvalidInput},
		{name: "cobra unknown flag", err: stderrors.New("unknown flag: --nope"), expected: ExitInvalidInput},
		{name: "cobra arg count", err: stderrors.New("accepts 1 arg(s), received 0"), expected: ExitInvalidInput},
		{name: "cache unavailable", err: errors.ErrCacheUnavailable, expected: ExitError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ExitCodeForError(tc.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	t.Run("nil writes nothing", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintError(&buf, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("task error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintError(&buf, errors.NewTaskError(errors.ErrTaskNotFound, "abc", "", "task %s not found", "abc"))
		assert.Contains(t, buf.String(), "Error: ")
		assert.Contains(t, buf.String(), "abc")
	})
}

func TestParseRelationType(t *testing.T) {
	t.Parallel()

	typ, err := parseRelationType("blocked-by")
	require.NoError(t, err)
	assert.Equal(t, constants.RelationBlockedBy, typ)

	_, err = parseRelationType("Parent")
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrInvalidRelationType)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
