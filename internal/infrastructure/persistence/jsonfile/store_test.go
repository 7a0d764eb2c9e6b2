package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/testutil"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

func TestAccountStore_Conformance(t *testing.T) {
	testutil.RunAccountRepositorySuite(t, func(t *testing.T) account.Repository {
		return NewAccountStore(t.TempDir())
	})
}

func TestProgressStore_Conformance(t *testing.T) {
	testutil.RunProgressRepositorySuite(t, func(t *testing.T) progress.Repository {
		return NewProgressStore(t.TempDir())
	})
}

func TestAccountStore_CorruptFileLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, AccountsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"1": {"name": "Alice",`), 0o600))

	var logs bytes.Buffer
	store := NewAccountStore(dir, WithLogger(logger.New(logger.Options{Output: &logs, Level: logger.LevelWarn})))

	accounts, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.Contains(t, logs.String(), "corrupt")

	a, err := store.Create(context.Background(), "Bob", "bob@x.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "1", a.ID)
}

func TestProgressStore_CorruptFileLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProgressFile), []byte(`{"1": {"web_developer": {"HTML": "yes"}}}`), 0o600))

	store := NewProgressStore(dir)

	r, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, r)

	ap, err := store.GetForAccount(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, ap)
}

func TestStores_EmptyFileIsNoData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AccountsFile), []byte("  \n"), 0o600))

	accounts, err := NewAccountStore(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestAccountStore_FileFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewAccountStore(dir, WithClock(testutil.FixedClock))

	_, err := store.Create(context.Background(), "Alice", "Alice@X.com", "$2a$10$abc")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, AccountsFile))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "{\n  \"1\": {\n    \"name\""), "file should be indented:\n%s", data)

	var raw map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, map[string]string{
		"name":       "Alice",
		"email":      "alice@x.com",
		"password":   "$2a$10$abc",
		"created_at": "2024-03-05T14:07:09.123456Z",
	}, raw["1"])
}

func TestAccountStore_ReadsNaiveTimestamps(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "1": {
    "name": "Legacy",
    "email": "legacy@x.com",
    "password": "hash",
    "created_at": "2024-03-05T14:07:09.123456"
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, AccountsFile), []byte(content), 0o600))

	a, err := NewAccountStore(dir).GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, testutil.FixedTime.Equal(a.CreatedAt))
}

func TestWriteJSON_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewProgressStore(dir)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set(context.Background(), "1", "web_developer", "HTML", i%2 == 0))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ProgressFile, entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, ProgressFile))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"1\": {\n    \"web_developer\": {\n      \"HTML\": true\n    }\n  }\n}\n", string(data))
}

func TestProgressStore_ConcurrentSetsAreSerialized(t *testing.T) {
	store := NewProgressStore(t.TempDir())
	skills := []string{"HTML", "CSS", "JavaScript", "Git", "React", "Node.js", "Databases", "APIs"}

	done := make(chan error, len(skills))
	for _, s := range skills {
		go func(skill string) {
			done <- store.Set(context.Background(), "1", "web_developer", skill, true)
		}(s)
	}
	for range skills {
		require.NoError(t, <-done)
	}

	ap, err := store.GetForAccount(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, ap["web_developer"], len(skills))
}

func TestReadJSON_ReportsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	var v map[string]any
	found, err := readJSON(path, &v)
	assert.False(t, found)
	assert.True(t, isCorrupt(err))

	found, err = readJSON(filepath.Join(t.TempDir(), "missing.json"), &v)
	assert.False(t, found)
	assert.NoError(t, err)
}
