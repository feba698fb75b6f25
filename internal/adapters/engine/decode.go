package engine

import (
	"bytes"
	"encoding/json"
	"route-engine-client/internal/domain"
)

// decodeResponse turns an engine payload into a typed response. Payloads
// reporting a no-result code become ErrEmptyResponse; any other code but
// "Ok" becomes failKind.
func decodeResponse[T any](backend domain.Backend, payload []byte, failKind error) (*T, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, &domain.EngineError{
			Backend: backend,
			Kind:    domain.ErrEmptyResponse,
			Message: "engine returned an empty payload",
		}
	}

	out := new(T)
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, &domain.EngineError{
			Backend: backend,
			Kind:    domain.ErrDecode,
			Message: excerptPayload(payload),
			Err:     err,
		}
	}

	r, ok := any(out).(domain.Response)
	if !ok {
		return out, nil
	}
	if err := statusError(backend, domain.StatusOf(r), 0, failKind); err != nil {
		return nil, err
	}
	return out, nil
}

// statusError maps a non-Ok response status onto an EngineError, or returns
// nil for "Ok".
func statusError(backend domain.Backend, st domain.Status, status int, failKind error) error {
	if st.Code == domain.CodeOk {
		return nil
	}

	msg := st.Code
	if st.Message != "" {
		msg += ": " + st.Message
	}

	kind := failKind
	if domain.IsEmptyCode(st.Code) {
		kind = domain.ErrEmptyResponse
	}
	return &domain.EngineError{Backend: backend, Kind: kind, Status: status, Message: msg}
}

func excerptPayload(payload []byte) string {
	const limit = 200
	if len(payload) <= limit {
		return string(payload)
	}
	return string(payload[:limit]) + "..."
}

// decodeStatus reads only the status fields of a payload.
func decodeStatus(payload []byte, st *domain.Status) error {
	return json.Unmarshal(payload, st)
}
