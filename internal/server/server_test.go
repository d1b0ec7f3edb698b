package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/config"
	"github.com/zoobzio/veil/internal/student"
	"github.com/zoobzio/veil/msgpack"
	veiltest "github.com/zoobzio/veil/testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	veil.Reset()

	cfg := config.Defaults()
	cfg.Hashids = veiltest.TestConfig()
	cfg.Storage = config.Storage{InMemory: true}

	s, err := New(context.Background(), Options{Config: &cfg, Seed: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func get(t *testing.T, s *Server, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Students(t *testing.T) {
	s := testServer(t)
	obf := veiltest.TestObfuscator(t)

	rec := get(t, s, "/students", map[string]string{"Accept": "application/msgpack"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var list student.List
	if err := msgpack.New().Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(list.Students) != len(student.SampleStudents()) {
		t.Fatalf("students = %d, want %d", len(list.Students), len(student.SampleStudents()))
	}
	if want := veiltest.Token(t, obf, 1, veil.Student); list.Students[0].ID != want {
		t.Errorf("students[0].id = %q, want %q", list.Students[0].ID, want)
	}

	rec = get(t, s, "/students/"+list.Students[1].ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200: %s", rec.Code, rec.Body)
	}
}

func TestServer_RequestID(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/healthz", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("healthz status = %d, want 204", rec.Code)
	}
	id := rec.Header().Get(RequestIDHeader)
	if _, err := ulid.ParseStrict(id); err != nil {
		t.Errorf("request id %q is not a ULID: %v", id, err)
	}

	sent := newRequestID()
	rec = get(t, s, "/healthz", map[string]string{RequestIDHeader: sent})
	if got := rec.Header().Get(RequestIDHeader); got != sent {
		t.Errorf("request id = %q, want client id %q", got, sent)
	}

	rec = get(t, s, "/healthz", map[string]string{RequestIDHeader: "not-a-ulid"})
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-ulid" {
		t.Error("invalid client request id should be replaced")
	}
}

func TestServer_Metrics(t *testing.T) {
	s := testServer(t)

	get(t, s, "/students/STD-bogus", nil)
	get(t, s, "/students", nil)

	rec := get(t, s, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`veil_http_requests_total{method="GET",route="/students",status="200"} 1`,
		`veil_boundary_rejected_total{route="/students/{id}"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Error("New() without config should return error")
	}
}
