package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nuwanwp/docapi/internal/auth"
	"github.com/nuwanwp/docapi/internal/store"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	srv := NewServer(store.NewMemoryStore(), tokens, "memory")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeJSON(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

// TestRootMetadata tests the service metadata endpoint
func TestRootMetadata(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON(t, resp.Body)
	if body["version"] != Version {
		t.Errorf("version mismatch: %v", body["version"])
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected permissive CORS header")
	}
}

// TestCreateThenGet tests document creation and retrieval through the API
func TestCreateThenGet(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 1})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON(t, resp.Body)
	data, ok := created["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing data envelope: %v", created)
	}
	id, ok := data["_id"].(string)
	if !ok || id == "" {
		t.Fatalf("expected string _id, got %T %v", data["_id"], data["_id"])
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/items/id/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	fetched := decodeJSON(t, resp.Body)["data"].(map[string]interface{})
	if fetched["a"] != 1.0 {
		t.Errorf("field a mismatch: %v", fetched["a"])
	}
	if _, ok := fetched["created_at"].(string); !ok {
		t.Errorf("created_at not rendered as string: %T", fetched["created_at"])
	}
}

// TestListCount tests the list envelope
func TestListCount(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/items", nil)
	body := decodeJSON(t, resp.Body)
	if body["count"] != 0.0 {
		t.Errorf("expected count 0, got %v", body["count"])
	}
	if _, ok := body["data"].([]interface{}); !ok {
		t.Errorf("expected empty array, got %T", body["data"])
	}

	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 1})
	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 2})

	resp = doJSON(t, http.MethodGet, ts.URL+"/items", nil)
	body = decodeJSON(t, resp.Body)
	if body["count"] != 2.0 {
		t.Errorf("expected count 2, got %v", body["count"])
	}
}

// TestUpdatePartialMerge tests that untouched fields survive an update
func TestUpdatePartialMerge(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 1, "b": 2})
	id := decodeJSON(t, resp.Body)["data"].(map[string]interface{})["_id"].(string)

	resp = doJSON(t, http.MethodPut, ts.URL+"/items/"+id, map[string]interface{}{"b": 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeJSON(t, resp.Body)["data"].(map[string]interface{})
	if data["a"] != 1.0 {
		t.Errorf("untouched field a changed: %v", data["a"])
	}
	if data["b"] != 3.0 {
		t.Errorf("field b not merged: %v", data["b"])
	}
}

// TestDeleteThenGet tests removal and the resulting 404
func TestDeleteThenGet(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 1})
	id := decodeJSON(t, resp.Body)["data"].(map[string]interface{})["_id"].(string)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/items/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	deleted := decodeJSON(t, resp.Body)
	if deleted["message"] != "Document deleted successfully" {
		t.Errorf("unexpected message: %v", deleted["message"])
	}
	if deleted["data"].(map[string]interface{})["a"] != 1.0 {
		t.Errorf("deleted document content lost: %v", deleted["data"])
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/items/id/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

// TestMalformedID tests the malformed-id to 400 mapping on every id route
func TestMalformedID(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/id/not-an-id", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("get: expected 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPut, ts.URL+"/items/not-an-id", map[string]interface{}{"a": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("put: expected 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, ts.URL+"/items/not-an-id", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("delete: expected 400, got %d", resp.StatusCode)
	}
}

// TestInvalidBody tests the malformed-JSON to 400 mapping
func TestInvalidBody(t *testing.T) {
	ts := setupServer(t)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/items", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

// TestFilterCoercion tests typed equality filtering and the filter echo
func TestFilterCoercion(t *testing.T) {
	ts := setupServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 1, "flag": true})
	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": 1, "flag": false})
	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"a": "1", "flag": true})

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/filter?a=1&flag=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON(t, resp.Body)
	if body["count"] != 1.0 {
		t.Fatalf("expected 1 match, got %v", body["count"])
	}
	filters, ok := body["filters"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing filters echo: %v", body)
	}
	if filters["a"] != 1.0 || filters["flag"] != true {
		t.Errorf("filter echo wrong: %v", filters)
	}
}

// TestFilterStringMatch tests that uncoercible values match as strings
func TestFilterStringMatch(t *testing.T) {
	ts := setupServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"name": "abc"})
	doJSON(t, http.MethodPost, ts.URL+"/items", map[string]interface{}{"name": "xyz"})

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/filter?name=abc", nil)
	body := decodeJSON(t, resp.Body)
	if body["count"] != 1.0 {
		t.Errorf("expected 1 match, got %v", body["count"])
	}
}
