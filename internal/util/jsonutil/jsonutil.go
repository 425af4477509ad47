package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// ErrNotObject is returned by DecodeObject when the payload is valid JSON but
// not an object.
var ErrNotObject = errors.New("jsonutil: payload is not a JSON object")

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
// Source code travels through most payloads, so escaping would mangle it.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeIndent writes v to w as indented JSON without HTML escaping.
func EncodeIndent(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DecodeObject parses raw as a single JSON object. Trailing data after the
// object is an error. An object that was itself encoded as a JSON string is
// unwrapped.
func DecodeObject(raw []byte) (map[string]any, error) {
	var obj map[string]any
	if err := UnmarshalFlex(raw, &obj); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, err
		}
		return nil, ErrNotObject
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}

var unicodeEscape = regexp.MustCompile(`\\u[0-9a-fA-F]{4}(?:\\u[0-9a-fA-F]{4})?`)

// UnescapeUnicodeString converts literal JSON unicode escapes left in a decoded
// string, e.g. "\u003e" -> ">". Other backslashes are kept as they are.
func UnescapeUnicodeString(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}
	var firstErr error
	out := unicodeEscape.ReplaceAllStringFunc(s, func(m string) string {
		var r string
		if err := json.Unmarshal([]byte(`"`+m+`"`), &r); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return m
		}
		return r
	})
	return out, firstErr
}

// NormalizeJSONUnicode parses JSON bytes and recursively unescapes any remaining
// double-escaped unicode sequences (e.g. "\\u003e") inside string values.
// A payload that is a JSON document quoted as a string is unwrapped, up to two
// levels deep.
func NormalizeJSONUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return nil, err
	}
	for range 2 {
		s, ok := anyVal.(string)
		if !ok {
			break
		}
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			break
		}
		anyVal = inner
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// 1) Direct unmarshal
// 2) Normalize and unmarshal
// Model output sometimes carries double-escaped unicode sequences.
func UnmarshalFlex(raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	norm, nerr := NormalizeJSONUnicode(raw)
	if nerr != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// deepUnescape recursively traverses maps and slices,
// unescaping unicode sequences in all string values.
func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
