package api

import (
	"bytes"
	"encoding/json"

	"github.com/trakli/webui/internal/parsererror"
)

// Envelope is a decoded API response. The API answers either
// {"data": {"last_sync": ..., "data": T}} (Wrapped) or
// {"last_sync": ..., "data": T}.
type Envelope[T any] struct {
	Data     T
	LastSync string
	Wrapped  bool
}

type rawEnvelope struct {
	Success  *bool           `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	LastSync string          `json:"last_sync"`
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// DecodeEnvelope resolves the envelope variant of body once and decodes its
// payload into T.
func DecodeEnvelope[T any](endpoint string, body []byte) (Envelope[T], error) {
	var out Envelope[T]

	var outer rawEnvelope
	if err := json.Unmarshal(body, &outer); err != nil {
		return out, &parsererror.ShapeError{Endpoint: endpoint, Reason: "body is not a JSON object", Err: err}
	}
	if outer.Success != nil && !*outer.Success {
		return out, &parsererror.ShapeError{Endpoint: endpoint, Reason: "request reported failure: " + outer.Message}
	}
	if isNull(outer.Data) {
		return out, &parsererror.ShapeError{Endpoint: endpoint, Reason: "missing data"}
	}

	payload := outer.Data
	out.LastSync = outer.LastSync

	if bytes.HasPrefix(bytes.TrimSpace(outer.Data), []byte("{")) {
		var inner rawEnvelope
		if err := json.Unmarshal(outer.Data, &inner); err == nil && !isNull(inner.Data) {
			payload = inner.Data
			out.LastSync = inner.LastSync
			out.Wrapped = true
		}
	}

	if err := json.Unmarshal(payload, &out.Data); err != nil {
		return Envelope[T]{}, &parsererror.ShapeError{Endpoint: endpoint, Reason: "payload does not match the expected type", Err: err}
	}
	return out, nil
}
