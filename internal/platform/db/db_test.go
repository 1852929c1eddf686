package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext(target string, header map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestExtractTenantID(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header map[string]string
		want   string
	}{
		{"default", "/", nil, "default"},
		{"from header", "/", map[string]string{"X-Tenant-ID": "clinic_a"}, "clinic_a"},
		{"from query param", "/?tenant_id=clinic_b", nil, "clinic_b"},
		{"header wins over query", "/?tenant_id=clinic_b", map[string]string{"X-Tenant-ID": "clinic_a"}, "clinic_a"},
	}

	for _, tt := range tests {
		c := newTestContext(tt.target, tt.header)
		if got := extractTenantID(c, "default"); got != tt.want {
			t.Errorf("%s: extractTenantID = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTenantIDPattern(t *testing.T) {
	valid := []string{"default", "clinic_a", "Tenant1", "a"}
	invalid := []string{"", "clinic-a", "x; DROP SCHEMA public", "a b", "schema.public"}

	for _, id := range valid {
		if !tenantIDPattern.MatchString(id) {
			t.Errorf("%q rejected, want accepted", id)
		}
	}
	for _, id := range invalid {
		if tenantIDPattern.MatchString(id) {
			t.Errorf("%q accepted, want rejected", id)
		}
	}
}

func TestConnFromContext_Empty(t *testing.T) {
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Errorf("expected nil conn, got %v", conn)
	}
	if tid := TenantFromContext(context.Background()); tid != "" {
		t.Errorf("expected empty tenant, got %q", tid)
	}
}

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"002_profiles.sql":   "CREATE TABLE patients (id UUID PRIMARY KEY);",
		"001_users.sql":      "CREATE TABLE users (id UUID PRIMARY KEY);",
		"notes.txt":          "not a migration",
		"README.sql":         "no numeric prefix",
		"10_encounters.sql":  "CREATE TABLE consultations (id UUID PRIMARY KEY);",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("loaded %d migrations, want 3", len(migrations))
	}
	wantOrder := []int{1, 2, 10}
	for i, mig := range migrations {
		if mig.Version != wantOrder[i] {
			t.Errorf("migrations[%d].Version = %d, want %d", i, mig.Version, wantOrder[i])
		}
		if mig.SQL == "" {
			t.Errorf("migrations[%d] has empty SQL", i)
		}
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}
