// Tests for the SQLite store backend.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/checklist/pkg/types"
)

func newAttachedBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dataDir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	t.Cleanup(func() { b.Detach() })
	return b, dataDir
}

func TestBackend_Attach(t *testing.T) {
	b, dataDir := newAttachedBackend(t)

	_, err := os.Stat(filepath.Join(dataDir, dbFileName))
	require.NoError(t, err, "checklist.db not created")

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b, _ := newAttachedBackend(t)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreRead)
	assert.ErrorIs(t, err, types.ErrStoreClosed)

	err = b.Save(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
}

func TestBackend_LoadMissingKeyIsEmpty(t *testing.T) {
	b, _ := newAttachedBackend(t)

	texts, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, texts)
	assert.Empty(t, texts)
}

func TestBackend_SaveLoadRoundTrip(t *testing.T) {
	b, _ := newAttachedBackend(t)
	ctx := context.Background()

	lists := [][]string{
		{"Buy milk", types.SentinelText},
		{},
		{"", "ünïcode", `"quoted"`},
	}
	for _, want := range lists {
		require.NoError(t, b.Save(ctx, want))
		got, err := b.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBackend_StoresJSONArrayUnderTasksKey(t *testing.T) {
	b, _ := newAttachedBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []string{"Buy milk", types.SentinelText}))

	var value string
	err := b.db.QueryRow(selectValue, types.TasksKey).Scan(&value)
	require.NoError(t, err)
	assert.Equal(t, `["Buy milk","Edit Here..."]`, value)
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dataDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}
	ctx := context.Background()

	first := NewBackend()
	require.NoError(t, first.Attach(cfg))
	require.NoError(t, first.Save(ctx, []string{"survives"}))
	require.NoError(t, first.Detach())

	second := NewBackend()
	require.NoError(t, second.Attach(cfg))
	defer second.Detach()

	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"survives"}, got)
}

func TestBackend_CorruptValueIsReadError(t *testing.T) {
	b, _ := newAttachedBackend(t)

	_, err := b.db.Exec(upsertValue, types.TasksKey, `{"not":"a list"}`, "now")
	require.NoError(t, err)

	_, err = b.Load(context.Background())
	var readErr *types.StoreReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, types.TasksKey, readErr.Key)
}

func TestBackend_CustomKeyIsolated(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	tasks := NewBackend()
	require.NoError(t, tasks.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	defer tasks.Detach()
	require.NoError(t, tasks.Save(ctx, []string{"default"}))

	other := NewBackend()
	require.NoError(t, other.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir, Key: "other"}))
	defer other.Detach()

	got, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBackend_ReadOnlyDatabaseIsWriteError(t *testing.T) {
	b, _ := newAttachedBackend(t)
	ctx := context.Background()
	require.NoError(t, b.Save(ctx, []string{"kept"}))

	// The pool holds a single connection, so the pragma covers every write.
	_, err := b.db.Exec("PRAGMA query_only = ON;")
	require.NoError(t, err)

	err = b.Save(ctx, []string{"lost"})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
	var writeErr *types.StoreWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, types.TasksKey, writeErr.Key)

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, got)
}

func TestBackend_MissingTableIsWriteError(t *testing.T) {
	b, _ := newAttachedBackend(t)

	_, err := b.db.Exec("DROP TABLE kv;")
	require.NoError(t, err)

	err = b.Save(context.Background(), []string{"lost"})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
}

func TestBackend_CanceledContextIsWriteError(t *testing.T) {
	b, _ := newAttachedBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Save(ctx, []string{"lost"})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackend_InvalidUTF8IsWriteError(t *testing.T) {
	b, _ := newAttachedBackend(t)

	err := b.Save(context.Background(), []string{"a\xffb"})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
}
