package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAPI() *API {
	api := NewAPI()
	api.Get("/users/:id", func(params, query Params) any {
		return map[string]string{"id": params["id"], "fields": query["fields"]}
	})
	api.Post("/users", func(Params, Params) any { return "created" })
	api.Put("/users/:id", func(Params, Params) any { return "put" })
	api.Patch("/users/:id", func(Params, Params) any { return "patched" })
	api.Delete("/users/:id", func(Params, Params) any { return "deleted" })
	return api
}

func TestAPIHandle(t *testing.T) {
	api := newTestAPI()

	out, ok := api.Handle(http.MethodGet, "/users/7?ignored=1", Params{"fields": "name"})
	if !ok {
		t.Fatal("GET /users/7 should match")
	}
	got := out.(map[string]string)
	if got["id"] != "7" || got["fields"] != "name" {
		t.Errorf("result = %v", got)
	}

	for method, want := range map[string]string{
		http.MethodPut:    "put",
		http.MethodPatch:  "patched",
		http.MethodDelete: "deleted",
	} {
		if out, _ := api.Handle(method, "/users/7", nil); out != want {
			t.Errorf("%s = %v, want %s", method, out, want)
		}
	}

	if _, ok := api.Handle(http.MethodPost, "/users/7", nil); ok {
		t.Error("POST /users/7 has no route")
	}
	if out, ok := api.Handle(http.MethodPost, "/users", nil); !ok || out != "created" {
		t.Errorf("POST /users = %v, %v", out, ok)
	}
}

func TestAPIServeHTTP(t *testing.T) {
	api := newTestAPI()

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/3?fields=email", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "3" || body["fields"] != "email" {
		t.Errorf("body = %v", body)
	}

	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
