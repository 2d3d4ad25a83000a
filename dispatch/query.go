package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// encodeQuery renders params as a query string without the leading "?".
// params may be url.Values, map[string]string, map[string]any, or any value
// that marshals to a JSON object. Nil values are skipped; slices are joined
// with commas; nested objects are sent as JSON.
func encodeQuery(params any) (string, error) {
	switch p := params.(type) {
	case nil:
		return "", nil
	case url.Values:
		return p.Encode(), nil
	case map[string]string:
		values := url.Values{}
		for k, v := range p {
			values.Set(k, v)
		}
		return values.Encode(), nil
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	if bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return "", fmt.Errorf("params must encode to a JSON object: %w", err)
	}

	values := url.Values{}
	for k, v := range fields {
		s, ok := queryValue(v)
		if !ok {
			continue
		}
		values.Set(k, s)
	}
	return values.Encode(), nil
}

func queryValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := queryValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
}

func appendQuery(rawURL, query string) string {
	if query == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + query
	}
	return rawURL + "?" + query
}
