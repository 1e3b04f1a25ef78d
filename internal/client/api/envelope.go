package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform body of every auth service response.
type Envelope struct {
	Code      int             `json:"code"`
	Msg       string          `json:"msg"`
	Success   bool            `json:"success"`
	Timestamp *int64          `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the payload is present and not JSON null.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Decode checks Success and unmarshals the payload into a T. A missing or
// null payload yields the zero T.
func Decode[T any](env *Envelope) (T, error) {
	var out T
	if !env.Success {
		return out, &RejectedError{Code: env.Code, Msg: env.Msg}
	}
	if !env.HasData() {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}
