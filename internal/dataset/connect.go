package dataset

import (
	"context"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/common/database"
	apperrors "pension-webhook/internal/common/errors"
	commonhttp "pension-webhook/internal/common/http"
)

// Connect opens and pings only the backend the configured source reads
// from. Connection failures are retryable DATABASE_CONNECTION_FAILED errors.
func Connect(ctx context.Context, cfg *config.Config) (Clients, error) {
	var clients Clients

	switch cfg.Dataset.Source {
	case config.SourceCSVURL:
		clients.HTTP = commonhttp.NewClient(config.GetDuration(cfg.Dataset.LoadTimeout))

	case config.SourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return Clients{}, apperrors.NewDatabaseConnectionFailedError(err)
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return Clients{}, apperrors.NewDatabaseConnectionFailedError(err)
		}
		clients.Postgres = pg.DB

	case config.SourceRedis:
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return Clients{}, apperrors.NewDatabaseConnectionFailedError(err)
		}
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return Clients{}, apperrors.NewDatabaseConnectionFailedError(err)
		}
		clients.Redis = rdb.Client

	case config.SourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return Clients{}, apperrors.NewDatabaseConnectionFailedError(err)
		}
		if err := es.Ping(ctx); err != nil {
			return Clients{}, apperrors.NewDatabaseConnectionFailedError(err)
		}
		clients.Elasticsearch = es.Client
	}

	return clients, nil
}

// Close releases pooled connections. The table never needs them after Load.
func (c Clients) Close() error {
	var firstErr error
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
