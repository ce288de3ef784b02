package postgres

import (
	"io"
	"log/slog"
	"testing"

	"userhub/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPoolCollector(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	reg := prometheus.NewRegistry()
	require.NoError(t, registerPoolCollector(reg, sqlDB, "userdb"))

	count, err := testutil.GatherAndCount(reg, "go_sql_open_connections", "go_sql_wait_count_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A second registration for the same database is tolerated.
	assert.NoError(t, registerPoolCollector(reg, sqlDB, "userdb"))
}

func TestNew_RequiresPostgresSection(t *testing.T) {
	_, err := New(Params{Config: &config.Config{}, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	assert.Error(t, err)
}
