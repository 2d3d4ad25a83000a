package dispatch

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the uniform backend response wrapper. Code 0 is success.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Total   *int64 `json:"total,omitempty"`
}

// Page is the paginated list shape produced from a list envelope. Success
// is always true on a returned Page; failures surface as errors instead.
type Page[T any] struct {
	Data    []T   `json:"data"`
	Total   int64 `json:"total"`
	Success bool  `json:"success"`
}

// CodeMissing is the code reported by an *EnvelopeError for a body that
// carries no code field.
const CodeMissing = -1

// wireEnvelope tells an absent code apart from code 0.
type wireEnvelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int64          `json:"total"`
}

// decodeEnvelope reads an envelope from r. A nonzero or missing code yields
// an *EnvelopeError carrying the raw envelope.
func decodeEnvelope(r io.Reader) (Envelope[json.RawMessage], error) {
	var wire wireEnvelope
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return Envelope[json.RawMessage]{}, fmt.Errorf("%w: decode envelope: %v", ErrRequestFailed, err)
	}

	env := Envelope[json.RawMessage]{Code: CodeMissing, Message: wire.Message, Data: wire.Data, Total: wire.Total}
	if wire.Code == nil {
		return env, &EnvelopeError{Envelope: env}
	}
	env.Code = *wire.Code
	if env.Code != 0 {
		return env, &EnvelopeError{Envelope: env}
	}
	return env, nil
}

func unmarshalData[T any](raw json.RawMessage, out *T) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrRequestFailed, err)
	}
	return nil
}
