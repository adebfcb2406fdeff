package testutil

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingT struct {
	errors []string
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestServe_DecodesEnvelope(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"bookId":"abc"}}`))
	})

	res := Serve(h, NewRequest(http.MethodGet, "/books", nil))

	require.NoError(t, res.DecodeErr)
	assert.Equal(t, "abc", res.Data()["bookId"])
	AssertResponseBody(t, res.Body, "status", "success")
}

func TestServe_RecordsDecodeError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	res := Serve(h, NewRequest(http.MethodGet, "/healthz", nil))

	require.Error(t, res.DecodeErr)
	assert.Contains(t, res.DecodeErr.Error(), `"ok"`)
	assert.Equal(t, "ok", res.Raw)
	assert.Nil(t, res.Body)

	rec := &recordingT{}
	AssertResponseBody(rec, res.Body, "status", "success")
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "not a JSON object")
}

func TestServe_EmptyBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := Serve(h, NewRequest(http.MethodOptions, "/books", nil))

	assert.NoError(t, res.DecodeErr)
	AssertResponseCode(t, res.Code, http.StatusNoContent)
}
