package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("CHECKLIST_BACKEND", "")
	t.Setenv("CHECKLIST_STRICT", "")
	return testEnv{
		configDir: filepath.Join(base, "config"),
		dataDir:   filepath.Join(base, "data"),
	}
}

// run executes the CLI with the environment's directories and returns
// stdout and the command error.
func (te testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", te.configDir, "--data-dir", te.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (te testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := te.run(t, args...)
	require.NoError(t, err)
	return out
}

func (te testEnv) showJSON(t *testing.T, backend string) stateJSON {
	t.Helper()
	out := te.mustRun(t, "--backend", backend, "--json", "show")
	var st stateJSON
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	return st
}

func TestVersion(t *testing.T) {
	te := newTestEnv(t)
	out := te.mustRun(t, "version")
	assert.Contains(t, out, "checklist v"+Version)
	assert.Contains(t, out, modulePath)

	_, err := os.Stat(te.configDir)
	assert.True(t, os.IsNotExist(err), "version must not touch the config dir")
}

func TestInitWritesConfigAndStore(t *testing.T) {
	te := newTestEnv(t)

	out := te.mustRun(t, "init")
	assert.Contains(t, out, "Checklist initialized")

	data, err := os.ReadFile(filepath.Join(te.configDir, configFileExt))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "sqlite", doc[cfgKeyBackend])
	assert.Equal(t, te.dataDir, doc[cfgKeyDataDir])
	assert.Equal(t, "warn", doc[cfgKeyLogLevel], "existing keys are kept")

	_, err = os.Stat(filepath.Join(te.dataDir, "checklist.db"))
	assert.NoError(t, err)
}

func TestScenarioAcrossInvocations(t *testing.T) {
	for _, backend := range []string{"sqlite", "json"} {
		t.Run(backend, func(t *testing.T) {
			te := newTestEnv(t)

			st := te.showJSON(t, backend)
			assert.Equal(t, "expanded", st.Expansion)
			assert.Empty(t, st.Tasks)

			te.mustRun(t, "--backend", backend, "add")
			st = te.showJSON(t, backend)
			require.Len(t, st.Tasks, 1)
			assert.Equal(t, "Edit Here...", st.Tasks[0].Text)
			assert.Equal(t, "", st.Tasks[0].Value)
			assert.Equal(t, "Edit Here...", st.Tasks[0].Placeholder)

			te.mustRun(t, "--backend", backend, "edit", "0", "Buy", "milk")
			st = te.showJSON(t, backend)
			require.Len(t, st.Tasks, 1)
			assert.Equal(t, "Buy milk", st.Tasks[0].Value)

			te.mustRun(t, "--backend", backend, "delete", "0")
			st = te.showJSON(t, backend)
			assert.Empty(t, st.Tasks)
		})
	}
}

func TestAddWithText(t *testing.T) {
	te := newTestEnv(t)

	out := te.mustRun(t, "--backend", "json", "add", "Call", "mom")
	assert.Contains(t, out, "[0] Call mom")

	data, err := os.ReadFile(filepath.Join(te.dataDir, "tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, `["Call mom"]`, string(data))
}

func TestShowTextRendering(t *testing.T) {
	te := newTestEnv(t)
	te.mustRun(t, "--backend", "json", "add")
	te.mustRun(t, "--backend", "json", "add", "Buy milk")

	out := te.mustRun(t, "--backend", "json", "show")
	assert.Equal(t, "- Click here to start\n  [0] (Edit Here...)\n  [1] Buy milk\n", out)
}

func TestIndexErrors(t *testing.T) {
	te := newTestEnv(t)

	_, err := te.run(t, "--backend", "json", "edit", "3", "x")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, err.Error(), "out of range")

	_, err = te.run(t, "--backend", "json", "delete", "zero")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestCorruptStoreAbortsMutation(t *testing.T) {
	te := newTestEnv(t)
	require.NoError(t, os.MkdirAll(te.dataDir, 0o755))
	path := filepath.Join(te.dataDir, "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"oops"`), 0o644))

	_, err := te.run(t, "--backend", "json", "add")
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"oops"`, string(data), "unread data must not be overwritten")
}

func TestUnknownBackend(t *testing.T) {
	te := newTestEnv(t)
	_, err := te.run(t, "--backend", "redis", "show")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestBackendFromConfigFile(t *testing.T) {
	te := newTestEnv(t)
	require.NoError(t, os.MkdirAll(te.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(te.configDir, configFileExt), []byte("backend: json\n"), 0o644))

	te.mustRun(t, "add", "from config")

	_, err := os.Stat(filepath.Join(te.dataDir, "tasks.json"))
	assert.NoError(t, err)
}
