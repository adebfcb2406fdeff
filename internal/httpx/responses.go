package httpx

import (
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Response is the envelope of every JSON body the API writes.
type Response struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = jsonCodec.NewEncoder(w).Encode(body)
}

// JSONSuccess writes a success envelope. message and data may be empty.
func JSONSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// JSONFail writes a client-error envelope.
func JSONFail(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Response{
		Status:  StatusFail,
		Message: message,
	})
}

// JSONError writes a server-error envelope tagged with the request ID.
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, statusCode, Response{
		Status:    StatusError,
		Message:   message,
		RequestID: RequestIDFrom(r),
	})
}

// DecodeJSON reads body to the end and unmarshals it into v. Read errors,
// including *http.MaxBytesError, are returned unwrapped.
func DecodeJSON(body io.Reader, v any) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return jsonCodec.Unmarshal(raw, v)
}

// IsBodyTooLarge reports whether err came from a body cut off by http.MaxBytesReader.
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
