package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/floraguard/pkg/routes"
)

func echoPath(param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.PathValue(param)))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/plants",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: echoPath("")},
			{Method: "GET", Pattern: "/{name}", Handler: echoPath("name")},
			{Method: "DELETE", Pattern: "/{name}", Handler: echoPath("name")},
		},
	})

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"list", "GET", "/plants", http.StatusOK, ""},
		{"get", "GET", "/plants/nerium_oleander", http.StatusOK, "nerium_oleander"},
		{"delete", "DELETE", "/plants/nerium_oleander", http.StatusOK, "nerium_oleander"},
		{"method not allowed", "POST", "/plants/nerium_oleander", http.StatusMethodNotAllowed, ""},
		{"unknown prefix", "GET", "/languages", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("body: got %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRegisterChildren(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/languages",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: echoPath("")},
		},
		Children: []routes.Group{
			{
				Prefix: "/bundles",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{code}", Handler: echoPath("code")},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/languages/bundles/zh-CN", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("nested route: got %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "zh-CN" {
		t.Errorf("path value: got %q, want zh-CN", got)
	}
}

func TestRegisterWildcard(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: echoPath("key")},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/storage/plants/oleander/1.jpg", nil))

	if got := rec.Body.String(); got != "plants/oleander/1.jpg" {
		t.Errorf("key: got %q, want plants/oleander/1.jpg", got)
	}
}

func TestRegisterGuard(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	tests := []struct {
		name       string
		guard      func(http.Handler) http.Handler
		method     string
		path       string
		wantStatus int
	}{
		{"open read", deny, "GET", "/plants/oleander", http.StatusOK},
		{"guarded write", deny, "PUT", "/plants/oleander", http.StatusUnauthorized},
		{"guard inherited by child", deny, "DELETE", "/storage/languages/es.json", http.StatusUnauthorized},
		{"nil guard leaves writes open", nil, "PUT", "/plants/oleander", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			routes.Register(mux, routes.Group{
				Guard: tt.guard,
				Children: []routes.Group{
					{
						Prefix: "/plants",
						Routes: []routes.Route{
							{Method: "GET", Pattern: "/{name}", Handler: echoPath("name")},
							{Method: "PUT", Pattern: "/{name}", Handler: echoPath("name"), Guarded: true},
						},
					},
					{
						Prefix: "/storage",
						Routes: []routes.Route{
							{Method: "DELETE", Pattern: "/{key...}", Handler: echoPath("key"), Guarded: true},
						},
					},
				},
			})

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
