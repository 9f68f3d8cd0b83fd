package handler_test

import (
	"context"
	"io"
	"log/slog"
	"marksentry/internal/config"
	"marksentry/internal/database"
	"marksentry/internal/exporter"
	"marksentry/internal/handler"
	"marksentry/internal/metrics"
	"marksentry/internal/service"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

const testPrefix = "23011556-"

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	sessions *service.SessionService
	visits   *service.VisitCounter
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	db, err := database.InitDB(config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)

	sessions := service.NewSessionService(testPrefix, time.Hour, log)
	visits := service.NewVisitCounter(database.NewKVStore(db))
	exports := handler.NewExportHandler(sessions, exporter.New("Student Marks"), "Student_Marks_B(Section).xlsx", m, log)

	router := handler.NewRouter(handler.Handlers{
		Form:    handler.NewFormHandler(sessions, visits, exports, m, log),
		Records: handler.NewRecordHandler(sessions, m, log),
		Export:  exports,
		Stream:  handler.NewStreamHandler(sessions, log),
		Visits:  handler.NewVisitHandler(visits, log),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:   server,
		client:   newClient(t),
		sessions: sessions,
		visits:   visits,
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := a.client.Post(a.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) sessionID(t *testing.T) string {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, a.server.URL+"/", nil)
	require.NoError(t, err)
	for _, c := range a.client.Jar.Cookies(req.URL) {
		if c.Name == handler.SessionCookie {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
