package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	if cfg.Store.Name != "TIENDA TECNOLOGICA" {
		t.Errorf("store name = %q", cfg.Store.Name)
	}
	if cfg.Backend.Timeout != 10 {
		t.Errorf("timeout = %d", cfg.Backend.Timeout)
	}
	if cfg.Backend.SubmitWorkers != 4 {
		t.Errorf("submit workers = %d", cfg.Backend.SubmitWorkers)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "gopos.yml")
	data := []byte(`
system:
  workdir: /tmp/gopos-test
web:
  port: 2880
backend:
  base_url: http://backend:8080/api
store:
  name: MI TIENDA
`)
	if err := os.WriteFile(cfile, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(cfile)
	if cfg.System.Workdir != "/tmp/gopos-test" {
		t.Errorf("workdir = %q", cfg.System.Workdir)
	}
	if cfg.Web.Port != 2880 {
		t.Errorf("port = %d", cfg.Web.Port)
	}
	if cfg.Backend.BaseURL != "http://backend:8080/api" {
		t.Errorf("base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Store.Name != "MI TIENDA" {
		t.Errorf("store name = %q", cfg.Store.Name)
	}
	// untouched sections keep their defaults
	if cfg.Store.Footer != "¡Gracias por su compra!" {
		t.Errorf("footer = %q", cfg.Store.Footer)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GOPOS_WEB_PORT", "9999")
	t.Setenv("GOPOS_BACKEND_BASEURL", "http://env-backend/api")

	cfg := LoadConfig("")
	if cfg.Web.Port != 9999 {
		t.Errorf("port = %d, env override ignored", cfg.Web.Port)
	}
	if cfg.Backend.BaseURL != "http://env-backend/api" {
		t.Errorf("base url = %q, env override ignored", cfg.Backend.BaseURL)
	}
}
