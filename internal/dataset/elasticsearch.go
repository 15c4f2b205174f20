package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/models"
)

// ElasticsearchSource reads every document of an index with a single
// match_all search. The index is expected to hold at most size documents.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, size int) *ElasticsearchSource {
	if size <= 0 {
		size = 10000
	}
	return &ElasticsearchSource{client: client, index: index, size: size}
}

func (s *ElasticsearchSource) Name() string { return config.SourceElasticsearch }

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.RawEnrollmentRow `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Fetch(ctx context.Context) ([]models.RawEnrollmentRow, error) {
	query := fmt.Sprintf(`{"query":{"match_all":{}},"size":%d}`, s.size)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s failed: %s", s.index, res.Status())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if r.Hits.Total.Value > len(r.Hits.Hits) {
		return nil, fmt.Errorf("index %s holds %d documents, more than the %d fetched", s.index, r.Hits.Total.Value, len(r.Hits.Hits))
	}

	rows := make([]models.RawEnrollmentRow, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		rows = append(rows, hit.Source)
	}
	return rows, nil
}
