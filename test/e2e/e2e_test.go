// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/common/database"
	"pension-webhook/internal/common/logger"
	"pension-webhook/internal/dataset"
	"pension-webhook/internal/lookup"
	"pension-webhook/internal/models"
	"pension-webhook/internal/webhook"
)

const enrollmentsCSV = "name,id,pension_type,securities_firm\n" +
	"홍길동,10999999,가입,신한투자증권\n" +
	"김철수,10888888,미가입,\n"

var zapLog *zap.Logger

func TestMain(m *testing.M) {
	zapLog, _ = zap.NewDevelopment()
	code := m.Run()
	zapLog.Sync()
	os.Exit(code)
}

type testCase struct {
	body   string
	status int
	text   string
}

var conversation = []testCase{
	{`{"action":{"params":{"user_input":"홍길동10999999"}}}`, http.StatusOK, "현재 퇴직연금에 가입되어 있으며, '신한투자증권' 계좌를 이용 중입니다."},
	{`{"utterance":"김철수10888888"}`, http.StatusOK, lookup.MessageNotEnrolled},
	{`{"utterance":"이영희10777777"}`, http.StatusOK, lookup.MessageNotEligible},
	{`{"utterance":"홍길동 10999999"}`, http.StatusBadRequest, lookup.MessageFormatError},
	{`{"utterance":`, http.StatusBadRequest, lookup.MessageFormatError},
	{`{}`, http.StatusBadRequest, lookup.MessageFormatError},
}

// bootServer runs the same wiring as cmd/webhook-server against cfg.
func bootServer(t testing.TB, cfg *config.Config) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Dataset.LoadTimeout))
	defer cancel()

	clients, err := dataset.Connect(ctx, cfg)
	require.NoError(t, err)
	defer clients.Close()

	src, err := dataset.NewSource(cfg.Dataset, clients)
	require.NoError(t, err)

	table, err := dataset.Load(ctx, src)
	require.NoError(t, err)

	normalizer, err := lookup.NewNormalizer(cfg.Lookup.NamePattern)
	require.NoError(t, err)

	log := logger.NewZapAdapter(zapLog)
	handler := webhook.NewHandler(webhook.LoadConfig(), lookup.NewService(normalizer, lookup.NewResolver(table)), log, nil)
	srv := webhook.NewServer(cfg.Server, handler, table, log)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func loadConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	return cfg
}

func runConversation(t *testing.T, ts *httptest.Server, source string) {
	t.Helper()

	resp, err := http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	var ready map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	resp.Body.Close()
	assert.Equal(t, "ready", ready["status"])
	assert.Equal(t, source, ready["source"])
	assert.Equal(t, float64(2), ready["records"])

	for _, tc := range conversation {
		resp, err := http.Post(ts.URL+"/check-pension", "application/json", strings.NewReader(tc.body))
		require.NoError(t, err)

		var out models.SkillResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out), tc.body)
		resp.Body.Close()

		assert.Equal(t, tc.status, resp.StatusCode, tc.body)
		assert.NotEmpty(t, resp.Header.Get(webhook.RequestIDHeader))
		require.Len(t, out.Template.Outputs, 1)
		assert.Equal(t, tc.text, out.Template.Outputs[0].SimpleText.Text, tc.body)
	}
}

func TestE2E_Static(t *testing.T) {
	cfg := loadConfig(t, "dataset:\n  source: static\n")
	runConversation(t, bootServer(t, cfg), "static")
}

func TestE2E_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrollments.csv")
	require.NoError(t, os.WriteFile(path, []byte(enrollmentsCSV), 0o600))

	cfg := loadConfig(t, fmt.Sprintf("dataset:\n  source: csv_file\n  path: %s\n", path))
	runConversation(t, bootServer(t, cfg), "csv_file")
}

func TestE2E_CSVURL(t *testing.T) {
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(enrollmentsCSV))
	}))
	defer files.Close()

	t.Setenv("E2E_DATASET_URL", files.URL+"/pension.csv")
	cfg := loadConfig(t, "dataset:\n  source: csv_url\n  url: ${E2E_DATASET_URL}\n  load_timeout: 2000\n")
	runConversation(t, bootServer(t, cfg), "csv_url")
}

func TestE2E_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	for _, row := range dataset.SampleRows {
		data, err := json.Marshal(row)
		require.NoError(t, err)
		mr.HSet("pension:enrollments", row.ID, string(data))
	}

	cfg := loadConfig(t, fmt.Sprintf("dataset:\n  source: redis\ndatabase:\n  redis:\n    address: %s\n", mr.Addr()))
	runConversation(t, bootServer(t, cfg), "redis")
}

// Requires a local Postgres on 5432 (user/password postgres); skipped otherwise.
func TestE2E_Postgres(t *testing.T) {
	cfg := loadConfig(t, `
dataset:
  source: postgres
  table: e2e_pension_enrollments
database:
  postgres:
    host: localhost
    port: 5432
    database: postgres
    user: postgres
    password: postgres
`)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()

	ctx := context.Background()
	if err := pg.Ping(ctx); err != nil {
		t.Skipf("Skipping test: Postgres not reachable: %v", err)
	}

	_, err = pg.DB.ExecContext(ctx, `
		DROP TABLE IF EXISTS e2e_pension_enrollments;
		CREATE TABLE e2e_pension_enrollments (
			name TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			pension_type TEXT NOT NULL,
			securities_firm TEXT,
			PRIMARY KEY (name, employee_id)
		);
		INSERT INTO e2e_pension_enrollments VALUES
			('홍길동', '10999999', '가입', '신한투자증권'),
			('김철수', '10888888', '미가입', NULL);`)
	require.NoError(t, err)
	t.Cleanup(func() {
		pg.DB.ExecContext(context.Background(), `DROP TABLE IF EXISTS e2e_pension_enrollments`)
	})

	runConversation(t, bootServer(t, cfg), "postgres")
}

// Requires a local Elasticsearch on 9200; skipped otherwise.
func TestE2E_Elasticsearch(t *testing.T) {
	cfg := loadConfig(t, `
dataset:
  source: elasticsearch
  index: e2e-pension-enrollments
database:
  elasticsearch:
    url: http://localhost:9200
`)

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	ctx := context.Background()
	if err := es.Ping(ctx); err != nil {
		t.Skipf("Skipping test: Elasticsearch not reachable: %v", err)
	}

	index := cfg.Dataset.Index
	es.Client.Indices.Delete([]string{index}, es.Client.Indices.Delete.WithIgnoreUnavailable(true))
	t.Cleanup(func() {
		es.Client.Indices.Delete([]string{index}, es.Client.Indices.Delete.WithIgnoreUnavailable(true))
	})

	for _, row := range dataset.SampleRows {
		data, err := json.Marshal(row)
		require.NoError(t, err)
		res, err := es.Client.Index(
			index,
			bytes.NewReader(data),
			es.Client.Index.WithDocumentID(row.ID),
			es.Client.Index.WithRefresh("wait_for"),
		)
		require.NoError(t, err)
		res.Body.Close()
	}

	runConversation(t, bootServer(t, cfg), "elasticsearch")
}

func BenchmarkCheckPension(b *testing.B) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Dataset: config.DatasetConfig{Source: config.SourceStatic, LoadTimeout: 5000},
	}
	ts := bootServer(b, cfg)
	body := []byte(`{"action":{"params":{"user_input":"홍길동10999999"}}}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := http.Post(ts.URL+"/check-pension", "application/json", bytes.NewReader(body))
		if err != nil {
			b.Fatal(err)
		}
		resp.Body.Close()
	}
}
