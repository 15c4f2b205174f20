package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/models"
)

// RedisSource reads a hash whose values are JSON-encoded rows. Field names
// are not interpreted; rows are returned in field order.
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(client *redis.Client, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Name() string { return config.SourceRedis }

func (s *RedisSource) Fetch(ctx context.Context) ([]models.RawEnrollmentRow, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", s.key, err)
	}

	fields := make([]string, 0, len(entries))
	for f := range entries {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	rows := make([]models.RawEnrollmentRow, 0, len(fields))
	for _, f := range fields {
		var r models.RawEnrollmentRow
		if err := json.Unmarshal([]byte(entries[f]), &r); err != nil {
			return nil, fmt.Errorf("decode %s[%s]: %w", s.key, f, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}
