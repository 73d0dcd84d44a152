package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":        {nil, http.StatusOK},
		"config":     {ConfigError("x").Build(), http.StatusBadRequest},
		"not found":  {NotFoundError("x").Build(), http.StatusNotFound},
		"markdown":   {MarkdownError("x").Build(), http.StatusUnprocessableEntity},
		"runtime":    {RuntimeError("x").Build(), http.StatusServiceUnavailable},
		"filesystem": {FileSystemError("x").Build(), http.StatusInternalServerError},
		"plain":      {errors.New("x"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := a.StatusCodeFor(tc.err); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	a.WriteErrorResponse(rec, req, NotFoundError("included file not found").WithContext("path", "a.md").Build())

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	var body HTTPErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "not_found" || body.Error != "included file not found" {
		t.Errorf("unexpected payload: %+v", body)
	}
	if body.Details["path"] != "a.md" {
		t.Errorf("expected path detail, got %+v", body.Details)
	}
}
