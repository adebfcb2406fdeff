package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BookPayload returns a create/update request body with every field set.
func BookPayload(name string, pageCount, readPage int, reading bool) map[string]any {
	return map[string]any{
		"name":      name,
		"year":      2023,
		"author":    "Test Author",
		"summary":   "A test book summary",
		"publisher": "Test Publisher",
		"pageCount": pageCount,
		"readPage":  readPage,
		"reading":   reading,
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing.
// DecodeErr is set when a non-empty body is not a JSON object.
type RecordResponse struct {
	Code      int
	Header    http.Header
	Body      map[string]interface{}
	Raw       string
	DecodeErr error
}

// Data returns the "data" object of an API envelope, or nil.
func (rr RecordResponse) Data() map[string]interface{} {
	data, _ := rr.Body["data"].(map[string]interface{})
	return data
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	rr := RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    string(bodyBytes),
	}
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, &rr.Body); err != nil {
			rr.DecodeErr = fmt.Errorf("decode response body %q: %w", rr.Raw, err)
		}
	}
	return rr
}

// Serve runs r through h and records the response.
func Serve(h http.Handler, r *http.Request) RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return RecordHTTPResponse(w)
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}

// AssertResponseBody checks if the response body contains expected field
func AssertResponseBody(t interface {
	Errorf(format string, args ...any)
}, body map[string]interface{}, key string, expectedValue interface{}) {
	if body == nil {
		t.Errorf("response body is not a JSON object, cannot check key %q", key)
		return
	}
	value, ok := body[key]
	if !ok {
		t.Errorf("response body missing key %q", key)
		return
	}
	if value != expectedValue {
		t.Errorf("got %v for key %q, want %v", value, key, expectedValue)
	}
}
