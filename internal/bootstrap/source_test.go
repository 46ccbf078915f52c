package bootstrap

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/mock"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/remote"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/sqlsource"
)

func sourceConfig(kind string) *config.Config {
	return &config.Config{DataSource: config.DataSourceConfig{
		Kind:          kind,
		RemoteURL:     "http://localhost:8000",
		RemoteTimeout: time.Second,
	}}
}

func TestOpenSource(t *testing.T) {
	t.Run("mock", func(t *testing.T) {
		src, closeFn, err := OpenSource(sourceConfig(config.SourceMock), zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, &mock.Source{}, src)
		assert.NoError(t, closeFn())
	})

	t.Run("remote", func(t *testing.T) {
		src, _, err := OpenSource(sourceConfig(config.SourceRemote), zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, &remote.Client{}, src)
		_, ok := src.(datasource.Pinger)
		assert.True(t, ok)
	})

	t.Run("sql creates and migrates the database", func(t *testing.T) {
		cfg := sourceConfig(config.SourceSQL)
		cfg.Database.Path = filepath.Join(t.TempDir(), "data", "dashboard.db")

		src, closeFn, err := OpenSource(cfg, zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })

		assert.IsType(t, &sqlsource.Source{}, src)
		portfolios, err := src.ListPortfolios(t.Context())
		require.NoError(t, err)
		assert.Empty(t, portfolios)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := OpenSource(sourceConfig("ftp"), zerolog.Nop())
		assert.Error(t, err)
	})
}
