package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/storage"
	"github.com/Veraticus/payfilter/internal/testutil/payments"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// testEnv is a throwaway config file and database for one test.
type testEnv struct {
	t          *testing.T
	dir        string
	dbPath     string
	configPath string
	extra      []string
}

func newTestEnv(t *testing.T, extraConfig ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		t:          t,
		dir:        dir,
		dbPath:     filepath.Join(dir, "payfilter.db"),
		configPath: filepath.Join(dir, "config.yaml"),
		extra:      extraConfig,
	}
	env.writeConfig()
	t.Cleanup(viper.Reset)
	return env
}

func (e *testEnv) writeConfig() {
	e.t.Helper()
	lines := []string{
		"logging:",
		"  level: error",
		"database:",
		"  path: " + e.dbPath,
		"display:",
		"  timezone: UTC",
	}
	lines = append(lines, e.extra...)
	require.NoError(e.t, os.WriteFile(e.configPath, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
}

// seed stores the reference ledger.
func (e *testEnv) seed() {
	e.t.Helper()
	e.savePayments(payments.Sample())
}

func (e *testEnv) savePayments(ps []model.Payment) {
	e.t.Helper()
	store := e.openStorage()
	defer func() { _ = store.Close() }()
	_, err := store.SavePayments(context.Background(), ps)
	require.NoError(e.t, err)
}

func (e *testEnv) openStorage() *storage.SQLiteStorage {
	e.t.Helper()
	store, err := storage.NewSQLiteStorage(e.dbPath)
	require.NoError(e.t, err)
	require.NoError(e.t, store.Migrate(context.Background()))
	return store
}

func (e *testEnv) savedFilters() []model.SavedFilter {
	e.t.Helper()
	store := e.openStorage()
	defer func() { _ = store.Close() }()
	filters, err := store.ListFilters(context.Background())
	require.NoError(e.t, err)
	return filters
}

// run executes the CLI with args and returns what it wrote to stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	return e.runWithInput("", args...)
}

func (e *testEnv) runWithInput(stdin string, args ...string) (string, error) {
	e.t.Helper()
	viper.Reset()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "payfilter %s", strings.Join(args, " "))
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
