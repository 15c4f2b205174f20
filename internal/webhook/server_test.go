package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pension-webhook/internal/common/config"
	"pension-webhook/internal/common/logger"
	"pension-webhook/internal/dataset"
)

func newTestServer(t *testing.T, ds Readiness) *httptest.Server {
	t.Helper()
	srv := NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: 1000, WriteTimeout: 1000},
		newTestHandler(t), ds, logger.NewTestLogger(t),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestServer_OperationalRoutes(t *testing.T) {
	table, err := dataset.Load(context.Background(), dataset.NewStaticSource())
	require.NoError(t, err)
	ts := newTestServer(t, table)

	status, body := getJSON(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, RunningMessage, body["message"])

	status, body = getJSON(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	_, err = time.Parse(time.RFC3339, body["time"].(string))
	assert.NoError(t, err)

	status, body = getJSON(t, ts.URL+"/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, float64(2), body["records"])
	assert.Equal(t, "static", body["source"])
}

func TestServer_NotReady(t *testing.T) {
	var table *dataset.Table
	ts := newTestServer(t, table)

	status, body := getJSON(t, ts.URL+"/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not_ready", body["status"])
}

func TestServer_CheckPension(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/check-pension", "application/json",
		strings.NewReader(`{"action":{"params":{"user_input":"홍길동10999999"}}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "2.0", out["version"])
}

func TestServer_MethodAndPath(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/check-pension")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/check-pension", "application/json", strings.NewReader(`{"utterance":"김철수10888888"}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `webhook_requests_total{outcome="not_enrolled"}`)
}

func TestServer_StartShutdown(t *testing.T) {
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, newTestHandler(t), nil, logger.NewNoOpLogger())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)}, logger.NewZapAdapter(zap.New(core)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to write response", logs.All()[0].Message)
}
