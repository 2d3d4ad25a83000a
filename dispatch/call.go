package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
)

// Send performs req and returns the unwrapped envelope data.
func Send[T any](ctx context.Context, d *Dispatcher, req Request) (T, error) {
	var out T
	err := d.Do(ctx, req, func(resp *http.Response) error {
		env, err := decodeEnvelope(resp.Body)
		if err != nil {
			return err
		}
		return unmarshalData(env.Data, &out)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// SendEnvelope performs req and returns the whole successful envelope.
func SendEnvelope[T any](ctx context.Context, d *Dispatcher, req Request) (Envelope[T], error) {
	var out Envelope[T]
	err := d.Do(ctx, req, func(resp *http.Response) error {
		env, err := decodeEnvelope(resp.Body)
		if err != nil {
			return err
		}
		out.Code, out.Message, out.Total = env.Code, env.Message, env.Total
		return unmarshalData(env.Data, &out.Data)
	})
	if err != nil {
		return Envelope[T]{}, err
	}
	return out, nil
}

// Paginate performs a list call and adapts the envelope to a [Page].
func Paginate[T any](ctx context.Context, d *Dispatcher, req Request) (Page[T], error) {
	env, err := SendEnvelope[[]T](ctx, d, req)
	if err != nil {
		return Page[T]{}, err
	}
	page := Page[T]{Data: env.Data, Success: true}
	if page.Data == nil {
		page.Data = []T{}
	}
	if env.Total != nil {
		page.Total = *env.Total
	}
	return page, nil
}

// SendRaw performs req and returns the envelope data undecoded.
func SendRaw(ctx context.Context, d *Dispatcher, req Request) (json.RawMessage, error) {
	return Send[json.RawMessage](ctx, d, req)
}
