package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-geoform/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Addr: ":0"},
		Log:      config.LogConfig{Level: "info", Format: "json"},
		Address:  config.AddressConfig{Source: config.SourceMemory},
		Database: config.DatabaseConfig{MaxConns: 1},
	}
}

func TestNew_MemorySource(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.Theme = config.ThemeConfig{Name: "geoform", Variant: "dark"}
	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/territory/build", strings.NewReader(`{"default":{"country_code":"BR"}}`))
	req.Header.Set("Accept", "text/html")
	a.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `data-theme="geoform" data-theme-variant="dark"`)
	assert.Contains(t, w.Body.String(), "--geoform-surface: #161b22")
}

func TestNew_DatasetFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "address.yaml")
	dataset := strings.Join([]string{
		"countries:",
		"  - {code: NZ, name: New Zealand}",
		"formats:",
		"  NZ: {subdivision_depth: 0, used_fields: [locality, postalCode]}",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o600))

	cfg := testConfig()
	cfg.Address.Dataset = path
	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/territory/countries", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"value":"NZ","label":"New Zealand"}]}`, w.Body.String())
}

func TestNew_TemplatesDir(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	override := `<section id="{{ tree.id }}" data-default-theme="{{ default_theme }}">{% for html in fields %}{{ html|safe }}{% endfor %}</section>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "territory.tpl"), []byte(override), 0o600))

	cfg := testConfig()
	cfg.Render.TemplatesDir = dir
	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/territory/build", strings.NewReader(`{"default":{"country_code":"US"}}`))
	req.Header.Set("Accept", "text/html")
	a.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `<section id="territory-ajax-wrapper" data-default-theme="geoform">`)
	assert.Contains(t, w.Body.String(), `<option value="US" selected>United States</option>`, "field partial falls back to the embedded template")
}

func TestNew_Failures(t *testing.T) {
	cfg := testConfig()
	cfg.Address.Dataset = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Theme = config.ThemeConfig{Name: "unknown"}
	_, err = New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Render.TemplatesDir = filepath.Join(t.TempDir(), "missing")
	_, err = New(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "app: renderers")
}
