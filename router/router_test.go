package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/json"
	"github.com/zoobzio/veil/yaml"
)

var errNoLesson = errors.New("no lesson found")

type lesson struct {
	ID        string `json:"id" yaml:"id" hashid:"student"`
	TeacherID string `json:"teacherId" yaml:"teacherId" hashid:"teacher"`
	Title     string `json:"title" yaml:"title"`
}

func (lesson) VeilComposite() {}

func (l lesson) Clone() lesson { return l }

func testServer(t *testing.T) (*Server, *veil.Obfuscator) {
	t.Helper()
	veil.Reset()

	obf, err := veil.NewObfuscator(veil.Config{Salt: "router-test", MinLength: 6})
	if err != nil {
		t.Fatalf("NewObfuscator() error: %v", err)
	}

	lessons := map[string]lesson{
		"42": {ID: "42", TeacherID: "7", Title: "Algebra"},
	}

	s := New(veil.NewInterceptor(obf), json.New(), yaml.New())
	s.MapError(errNoLesson, http.StatusNotFound)

	s.MustHandle(Route{
		Method:  http.MethodGet,
		Pattern: "/lessons/{id}",
		Name:    "getLesson",
		Args:    []Binder{Path("id", veil.Student)},
		Handler: func(_ context.Context, args []any) (any, error) {
			l, ok := lessons[args[0].(string)]
			if !ok {
				return nil, errNoLesson
			}
			return &l, nil
		},
	})
	s.MustHandle(Route{
		Method:  http.MethodPost,
		Pattern: "/lessons",
		Name:    "createLesson",
		Args:    []Binder{Body[lesson]()},
		Status:  http.StatusCreated,
		Handler: func(_ context.Context, args []any) (any, error) {
			in := args[0].(*lesson)
			out := *in
			out.ID = "43"
			return &out, nil
		},
	})
	s.MustHandle(Route{
		Method:  http.MethodDelete,
		Pattern: "/lessons/{id}",
		Name:    "deleteLesson",
		Args:    []Binder{Path("id", veil.Student)},
		Handler: func(_ context.Context, _ []any) (any, error) {
			return nil, nil
		},
	})
	s.MustHandle(Route{
		Method:  http.MethodGet,
		Pattern: "/broken",
		Name:    "broken",
		Handler: func(_ context.Context, _ []any) (any, error) {
			return nil, errors.New("database offline at 10.0.0.3")
		},
	})

	return s, obf
}

func token(t *testing.T, obf *veil.Obfuscator, n int64, d veil.Domain) string {
	t.Helper()
	tok, err := obf.Encode(n, d)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return tok
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_GetDecodesPathAndEncodesResult(t *testing.T) {
	s, obf := testServer(t)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/lessons/"+token(t, obf, 42, veil.Student), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got lesson
	if err := json.New().Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if want := token(t, obf, 42, veil.Student); got.ID != want {
		t.Errorf("id = %q, want %q", got.ID, want)
	}
	if want := token(t, obf, 7, veil.Teacher); got.TeacherID != want {
		t.Errorf("teacherId = %q, want %q", got.TeacherID, want)
	}
	if got.Title != "Algebra" {
		t.Errorf("title = %q, want Algebra", got.Title)
	}
}

func TestServer_BadTokens(t *testing.T) {
	s, obf := testServer(t)

	tests := []struct {
		name string
		path string
	}{
		{"garbage", "/lessons/not-a-token"},
		{"wrong domain", "/lessons/" + token(t, obf, 42, veil.Teacher)},
		{"prefix only", "/lessons/STD-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
			}

			var body ErrorBody
			if err := json.New().Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if body.Status != http.StatusBadRequest || body.Error == "" {
				t.Errorf("error body = %+v", body)
			}
		})
	}
}

func TestServer_MappedAndInternalErrors(t *testing.T) {
	s, obf := testServer(t)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/lessons/"+token(t, obf, 99, veil.Student), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown lesson status = %d, want 404", rec.Code)
	}

	rec = do(s, httptest.NewRequest(http.MethodGet, "/broken", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("broken status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Errorf("internal error leaked cause: %s", rec.Body)
	}
}

func TestServer_PostBodyYAML(t *testing.T) {
	s, obf := testServer(t)

	body := "title: Geometry\nteacherId: " + token(t, obf, 7, veil.Teacher) + "\n"
	req := httptest.NewRequest(http.MethodPost, "/lessons", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/yaml")
	req.Header.Set("Accept", "application/yaml")

	rec := do(s, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", ct)
	}

	var got lesson
	if err := yaml.New().Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if want := token(t, obf, 43, veil.Student); got.ID != want {
		t.Errorf("id = %q, want %q", got.ID, want)
	}
	if want := token(t, obf, 7, veil.Teacher); got.TeacherID != want {
		t.Errorf("teacherId = %q, want %q", got.TeacherID, want)
	}
}

func TestServer_PostBodyBadToken(t *testing.T) {
	s, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/lessons", strings.NewReader(`{"teacherId":"TCH-zzzz"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := do(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestServer_Negotiation(t *testing.T) {
	s, obf := testServer(t)
	path := "/lessons/" + token(t, obf, 42, veil.Student)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	if rec := do(s, req); rec.Code != http.StatusNotAcceptable {
		t.Errorf("unacceptable status = %d, want 406", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json;q=0.5, application/yaml")
	rec := do(s, req)
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", ct)
	}

	req = httptest.NewRequest(http.MethodPost, "/lessons", strings.NewReader("<lesson/>"))
	req.Header.Set("Content-Type", "application/xml")
	if rec := do(s, req); rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("unsupported body status = %d, want 415", rec.Code)
	}
}

func TestServer_PostBodyTooLarge(t *testing.T) {
	s, obf := testServer(t)

	title := strings.Repeat("x", maxBodySize)
	body := `{"teacherId":"` + token(t, obf, 7, veil.Teacher) + `","title":"` + title + `"}`
	req := httptest.NewRequest(http.MethodPost, "/lessons", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := do(s, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}

	var got ErrorBody
	if err := json.New().Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !strings.Contains(got.Error, ErrBodyTooLarge.Error()) {
		t.Errorf("error = %q, want %q", got.Error, ErrBodyTooLarge)
	}
}

func TestServer_NilResult(t *testing.T) {
	s, obf := testServer(t)

	rec := do(s, httptest.NewRequest(http.MethodDelete, "/lessons/"+token(t, obf, 42, veil.Student), nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestServer_HandleValidation(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name  string
		route Route
	}{
		{"no name", Route{Method: http.MethodGet, Pattern: "/x", Handler: func(context.Context, []any) (any, error) { return nil, nil }}},
		{"no handler", Route{Method: http.MethodGet, Pattern: "/x", Name: "x"}},
		{"zero binder", Route{Method: http.MethodGet, Pattern: "/x", Name: "x", Args: []Binder{{}}, Handler: func(context.Context, []any) (any, error) { return nil, nil }}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Handle(tt.route); !errors.Is(err, ErrInvalidRoute) {
				t.Errorf("Handle() error = %v, want ErrInvalidRoute", err)
			}
		})
	}
}

func TestServer_StatusOf(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"param", &veil.ParamError{Err: veil.ErrInvalidParam}, http.StatusBadRequest},
		{"missing", &veil.ParamError{Err: veil.ErrMissingParam}, http.StatusBadRequest},
		{"unmarshal", &veil.CodecError{Err: veil.ErrUnmarshal}, http.StatusBadRequest},
		{"transform", &veil.TransformError{Err: veil.ErrTransform}, http.StatusInternalServerError},
		{"mapped", errNoLesson, http.StatusNotFound},
		{"too large", fmt.Errorf("%w: limit is 1 bytes", ErrBodyTooLarge), http.StatusRequestEntityTooLarge},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %d, want %d", got, tt.want)
			}
		})
	}
}
