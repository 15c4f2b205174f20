package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"pension-webhook/internal/common/config"
	apperrors "pension-webhook/internal/common/errors"
	commonhttp "pension-webhook/internal/common/http"
	"pension-webhook/internal/models"
)

var (
	ErrEmptyDataset  = errors.New("EMPTY_DATASET")
	ErrMissingClient = errors.New("MISSING_CLIENT")
)

// Source fetches raw enrollment rows. Implementations do no validation.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawEnrollmentRow, error)
}

// Clients carries the connections a source may need. Only the one matching
// the configured source has to be set.
type Clients struct {
	HTTP          *commonhttp.Client
	Postgres      *sql.DB
	Redis         *redis.Client
	Elasticsearch *elasticsearch.Client
}

type sourceFactory func(cfg config.DatasetConfig, clients Clients) (Source, error)

var registry = map[string]sourceFactory{
	config.SourceStatic: func(config.DatasetConfig, Clients) (Source, error) {
		return NewStaticSource(), nil
	},
	config.SourceCSVURL: func(cfg config.DatasetConfig, clients Clients) (Source, error) {
		client := clients.HTTP
		if client == nil {
			client = commonhttp.NewClient(config.GetDuration(cfg.LoadTimeout))
		}
		return NewRemoteCSVSource(client, cfg.URL), nil
	},
	config.SourceCSVFile: func(cfg config.DatasetConfig, _ Clients) (Source, error) {
		return NewFileCSVSource(cfg.Path), nil
	},
	config.SourcePostgres: func(cfg config.DatasetConfig, clients Clients) (Source, error) {
		if clients.Postgres == nil {
			return nil, fmt.Errorf("%w: postgres", ErrMissingClient)
		}
		return NewPostgresSource(clients.Postgres, cfg.Table)
	},
	config.SourceRedis: func(cfg config.DatasetConfig, clients Clients) (Source, error) {
		if clients.Redis == nil {
			return nil, fmt.Errorf("%w: redis", ErrMissingClient)
		}
		return NewRedisSource(clients.Redis, cfg.Key), nil
	},
	config.SourceElasticsearch: func(cfg config.DatasetConfig, clients Clients) (Source, error) {
		if clients.Elasticsearch == nil {
			return nil, fmt.Errorf("%w: elasticsearch", ErrMissingClient)
		}
		return NewElasticsearchSource(clients.Elasticsearch, cfg.Index, cfg.MaxRecords), nil
	},
}

// NewSource builds the source selected by cfg.Source.
func NewSource(cfg config.DatasetConfig, clients Clients) (Source, error) {
	factory, ok := registry[cfg.Source]
	if !ok {
		return nil, apperrors.NewUnknownSourceError(cfg.Source)
	}
	return factory(cfg, clients)
}

// Load fetches, validates and indexes every row of src. Fetch failures are
// reported as retryable DATASET_LOAD_FAILED; bad rows are not retryable.
func Load(ctx context.Context, src Source) (*Table, error) {
	rows, err := src.Fetch(ctx)
	if err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(src.Name(), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDatasetLoadFailedError(src.Name(), ErrEmptyDataset)
	}

	records, err := ToRecords(rows)
	if err != nil {
		return nil, err
	}

	table, err := NewTable(records)
	if err != nil {
		return nil, err
	}
	table.source = src.Name()
	return table, nil
}
