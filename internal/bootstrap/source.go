// Package bootstrap builds the configured data source for the binaries.
package bootstrap

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/mock"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/remote"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/sqlsource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/yahoo"
)

// OpenSource returns the data source selected by cfg.DataSource.Kind and a
// function releasing its resources. For the SQL source the database is
// opened and migrated, and quotes come from the Yahoo chart API.
func OpenSource(cfg *config.Config, log zerolog.Logger) (datasource.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.DataSource.Kind {
	case config.SourceMock:
		log.Info().Msg("using the mock data source")
		return mock.New(), noop, nil

	case config.SourceRemote:
		log.Info().Str("url", cfg.DataSource.RemoteURL).Msg("using the remote data source")
		return remote.NewClient(cfg.DataSource.RemoteURL, cfg.DataSource.RemoteTimeout, log), noop, nil

	case config.SourceSQL:
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, log); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Database.Path).Msg("connected to database")

		quotes := yahoo.NewFinanceClient(cfg.DataSource.YahooURL, cfg.DataSource.RemoteTimeout, log)
		return sqlsource.New(db, quotes), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource.Kind)
}
