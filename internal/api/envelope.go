package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned by single-item calls whose data is null or [].
var ErrEmptyPayload = errors.New("empty response payload")

// envelope is {message, data} or {success, message, data}.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// decodeList accepts an array or a single object. Null or missing data is an
// empty, non-nil slice.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if isNull(raw) {
		return []T{}, nil
	}
	t := bytes.TrimSpace(raw)
	switch t[0] {
	case '[':
		var out []T
		if err := json.Unmarshal(t, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	case '{':
		var one T
		if err := json.Unmarshal(t, &one); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		return []T{one}, nil
	default:
		return nil, fmt.Errorf("decode list: unexpected payload %.20q", t)
	}
}

// decodeOne accepts a single object or an array, taking its first element.
func decodeOne[T any](raw json.RawMessage) (T, error) {
	var zero T
	list, err := decodeList[T](raw)
	if err != nil {
		return zero, err
	}
	if len(list) == 0 {
		return zero, ErrEmptyPayload
	}
	return list[0], nil
}
