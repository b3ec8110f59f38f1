package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// cliEnv runs commands against an isolated home directory and database.
type cliEnv struct {
	t    *testing.T
	home string
	db   string
}

// newCLIEnv isolates HOME, TASKFLOW_HOME and the working directory, and
// clears the TASKFLOW_ variables a developer might have exported.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TASKFLOW_HOME", filepath.Join(home, ".taskflow"))
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{
		"TASKFLOW_OUTPUT", "TASKFLOW_DB", "TASKFLOW_ACTOR", "TASKFLOW_VERBOSE", "TASKFLOW_QUIET",
		"TASKFLOW_STORE_DRIVER", "TASKFLOW_STORE_PATH", "TASKFLOW_CACHE_ENABLED",
		"TASKFLOW_WORKFLOW_DEFAULT_INDUSTRY", "TASKFLOW_WORKFLOW_CUSTOM_DIR",
		"TASKFLOW_TASKS_CASCADE_POLICY", "TASKFLOW_TASKS_MAX_ANCESTOR_DEPTH",
	} {
		t.Setenv(name, "")
	}
	t.Chdir(t.TempDir())

	return &cliEnv{
		t:    t,
		home: home,
		db:   filepath.Join(t.TempDir(), "taskflow.db"),
	}
}

// run executes the CLI with the env's database and a fixed actor.
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append(args, "--db", e.db, "--actor", "tester"))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// mustRun fails the test when the command errors.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "taskflow %v", args)
	return out
}

// runJSON runs the command with --output json and decodes stdout into v.
func (e *cliEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out := e.mustRun(append(args, "--output", "json")...)
	require.NoError(e.t, json.Unmarshal([]byte(out), v), "output: %s", out)
}
