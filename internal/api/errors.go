package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Error is a non-2xx response from the backend. FastAPI-style services put a
// "detail" field in the body, either a plain string or a list of field
// errors; both are preserved here so callers can choose how to render them.
type Error struct {
	StatusCode int
	Detail     string // string detail, or JSON-encoded detail of another shape
	Fields     []FieldError
}

// FieldError is one entry of a validation-error detail list.
type FieldError struct {
	Loc []string
	Msg string
}

func (f *FieldError) UnmarshalJSON(data []byte) error {
	var w struct {
		Loc json.RawMessage `json:"loc"`
		Msg string          `json:"msg"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	f.Msg = w.Msg
	f.Loc = locStrings(w.Loc)
	return nil
}

// locStrings flattens a loc that is either a bare string or an array of
// strings and indices, e.g. ["body", 0, "isbn"].
func locStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var parts []any
	if err := dec.Decode(&parts); err != nil {
		return nil
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, fmt.Sprint(p))
	}
	return out
}

func (e *Error) Error() string {
	if msg := e.DetailMessage(); msg != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// DetailMessage renders the structured detail the way the UI shows it:
// field errors as "<loc.joined.by.dots>: <msg>" joined by "; ", otherwise
// the raw detail. Other components rely on this exact formatting.
func (e *Error) DetailMessage() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, strings.Join(f.Loc, ".")+": "+f.Msg)
		}
		return strings.Join(parts, "; ")
	}
	return e.Detail
}

// parseError builds an *Error from an error-status response body. Bodies
// without a recognizable detail field keep an empty Detail; the status code
// alone still identifies the failure.
func parseError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	var w struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &w); err != nil || len(w.Detail) == 0 {
		return e
	}
	var s string
	if err := json.Unmarshal(w.Detail, &s); err == nil {
		e.Detail = s
		return e
	}
	var fields []FieldError
	if err := json.Unmarshal(w.Detail, &fields); err == nil && len(fields) > 0 {
		e.Fields = fields
		return e
	}
	e.Detail = string(w.Detail)
	return e
}
