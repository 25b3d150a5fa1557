package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/you/adminconsole/domain"
	"github.com/you/adminconsole/internal/app"
	"github.com/you/adminconsole/internal/config"
)

// console is one running instance of the BFF wired to a fake backend
type console struct {
	container *app.Container
	router    *gin.Engine
}

// newConsoleConfig builds a config for the given token storage driver
func newConsoleConfig(t *testing.T, backend *fakeBackend, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Port:          "0",
		GinMode:       gin.TestMode,
		BackendURL:    backend.URL(),
		StorageDriver: driver,
		TokenKey:      config.DefaultTokenKey,
		StorageDir:    dir,
		RedisPrefix:   "adminconsole:",
		LogLevel:      slog.LevelError,
		LogFormat:     "text",
	}

	switch driver {
	case config.StorageRedis:
		mr := miniredis.RunT(t)
		cfg.RedisAddr = mr.Addr()
	case config.StorageSQL:
		cfg.DBDriver = "sqlite"
		cfg.DSN = filepath.Join(dir, "console.db")
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

// buildConsole wires the container without the startup storage check
func buildConsole(t *testing.T, cfg *config.Config, clock domain.Clock) *console {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := app.NewContainer(cfg, logger, clock)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return &console{container: c, router: c.Router()}
}

func startConsole(t *testing.T, cfg *config.Config, clock domain.Clock) *console {
	t.Helper()
	c := buildConsole(t, cfg, clock)
	c.container.Session.Start(context.Background())
	return c
}

// stop simulates closing the console; the stored token survives
func (c *console) stop() {
	c.container.Close()
}

func (c *console) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	w := c.doRaw(t, method, path, body, nil)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w.Code, decoded
}

func (c *console) doRaw(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// state returns the session state name reported by GET /session
func (c *console) state(t *testing.T) string {
	t.Helper()
	status, body := c.do(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, status)
	return body["data"].(map[string]any)["state"].(string)
}

func (c *console) login(t *testing.T, email string) {
	t.Helper()
	status, body := c.do(t, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": "secret"})
	require.Equal(t, http.StatusOK, status, body)
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}
