package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/sanitycheck/pkg/rules/source"
)

func TestChecker_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{"no checks", nil, StatusReady},
		{"all ok", map[string]CheckFunc{
			"a": func(context.Context) error { return nil },
			"b": func(context.Context) error { return nil },
		}, StatusReady},
		{"one failing", map[string]CheckFunc{
			"a": func(context.Context) error { return nil },
			"b": func(context.Context) error { return errors.New("down") },
		}, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, fn := range tt.checks {
				c.RegisterCheck(name, fn)
			}
			got := c.CheckReadiness(context.Background())
			if got.Status != tt.want {
				t.Errorf("Status = %q, want %q", got.Status, tt.want)
			}
			if len(got.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(got.Checks), len(tt.checks))
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	got := c.CheckReadiness(context.Background())
	res := got.Checks["slow"]
	if res.Status != StatusUnhealthy || res.Message != ErrCheckTimeout.Error() {
		t.Errorf("slow check = %+v, want timeout", res)
	}
}

func TestRegisterCheck_Replaces(t *testing.T) {
	c := New(0)
	c.RegisterCheck("x", func(context.Context) error { return errors.New("old") })
	c.RegisterCheck("x", func(context.Context) error { return nil })
	if c.CheckCount() != 1 {
		t.Fatalf("CheckCount() = %d, want 1", c.CheckCount())
	}
	if got := c.CheckReadiness(context.Background()); got.Status != StatusReady {
		t.Errorf("Status = %q, want ready", got.Status)
	}
}

func TestRulesCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "rules.json")
	if err := os.WriteFile(good, []byte(`{"rules": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RulesCheck(source.NewFileSource(good, nil))(context.Background()); err != nil {
		t.Errorf("RulesCheck(valid) = %v", err)
	}
	if err := RulesCheck(source.NewFileSource(filepath.Join(dir, "absent.json"), nil))(context.Background()); err == nil {
		t.Error("RulesCheck(missing) expected error")
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	mux := http.NewServeMux()
	Mount(mux, c, NewVersionInfo("1.2.3", "abc", "today"))

	tests := []struct {
		name   string
		method string
		path   string
		setup  func()
		want   int
	}{
		{"liveness", http.MethodGet, "/health", nil, http.StatusOK},
		{"liveness head", http.MethodHead, "/health", nil, http.StatusOK},
		{"liveness post", http.MethodPost, "/health", nil, http.StatusMethodNotAllowed},
		{"ready", http.MethodGet, "/ready", nil, http.StatusOK},
		{"version", http.MethodGet, "/version", nil, http.StatusOK},
		{"not ready", http.MethodGet, "/ready", func() {
			c.RegisterCheck("rules", func(context.Context) error { return errors.New("missing") })
		}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestVersionHandler_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler(NewVersionInfo("1.2.3", "abc", "today"))(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc" || info.GoVersion == "" {
		t.Errorf("unexpected info %+v", info)
	}
}
