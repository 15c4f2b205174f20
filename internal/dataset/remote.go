package dataset

import (
	"bytes"
	"context"
	"fmt"

	"pension-webhook/internal/common/config"
	commonhttp "pension-webhook/internal/common/http"
	"pension-webhook/internal/models"
)

// RemoteCSVSource downloads the table as CSV over HTTP(S).
type RemoteCSVSource struct {
	client *commonhttp.Client
	url    string
}

func NewRemoteCSVSource(client *commonhttp.Client, url string) *RemoteCSVSource {
	return &RemoteCSVSource{client: client, url: url}
}

func (s *RemoteCSVSource) Name() string { return config.SourceCSVURL }

func (s *RemoteCSVSource) Fetch(ctx context.Context) ([]models.RawEnrollmentRow, error) {
	body, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset csv: %w", err)
	}
	return ParseCSV(bytes.NewReader(body))
}
