// Package output defines the machine-readable envelope every --json
// command emits: exactly one JSON object per line, {ok, data, meta} on
// success and {ok, error, meta} on failure, so scripts can parse stdout
// without sniffing which command produced it.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// SchemaVersion is stamped into every meta block. Bump the major part
// when a change would break existing consumers.
const SchemaVersion = "1.0.0"

// Meta identifies the envelope: which command produced it, when, and
// under which schema. Stream fields stay zero outside bounded streams.
type Meta struct {
	Command       string    `json:"command"`
	SchemaVersion string    `json:"schema_version"`
	Version       string    `json:"version,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	DurationMS    float64   `json:"duration_ms,omitempty"`
	TS            time.Time `json:"ts"`
	Stream        bool      `json:"stream,omitempty"`
	Seq           int64     `json:"seq,omitempty"`
	EOF           bool      `json:"eof,omitempty"`
}

type SuccessEnvelope struct {
	Ok   bool `json:"ok"`
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

type ErrorEnvelope struct {
	Ok    bool      `json:"ok"`
	Error ErrorBody `json:"error"`
	Meta  Meta      `json:"meta"`
}

// ErrorBody carries a stable machine code alongside the human message.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewMeta stamps a meta block for a single-shot command response.
func NewMeta(command, version string) Meta {
	return Meta{
		Command:       command,
		SchemaVersion: SchemaVersion,
		Version:       version,
		TS:            time.Now().UTC(),
	}
}

// NewStreamMeta stamps a meta block for one element of a bounded
// stream. Seq starts at 1; eof marks the last element so line-oriented
// readers know when to stop.
func NewStreamMeta(command, version string, seq int64, eof bool) Meta {
	meta := NewMeta(command, version)
	meta.Stream = true
	meta.Seq = seq
	meta.EOF = eof
	return meta
}

// WithDuration records the elapsed time since start on the meta block.
func WithDuration(meta Meta, start time.Time) Meta {
	meta.DurationMS = float64(time.Since(start).Milliseconds())
	return meta
}

// WriteSuccess emits one success envelope line to w.
func WriteSuccess(w io.Writer, meta Meta, data any) error {
	return writeLine(w, SuccessEnvelope{Ok: true, Data: data, Meta: meta})
}

// WriteError emits one error envelope line to w. Blank code or message
// fall back to placeholders so the envelope shape never degrades.
func WriteError(w io.Writer, meta Meta, code, message string, details map[string]any) error {
	if code == "" {
		code = "unknown"
	}
	if message == "" {
		message = "unknown error"
	}
	body := ErrorBody{Code: code, Message: message, Details: details}
	return writeLine(w, ErrorEnvelope{Ok: false, Error: body, Meta: meta})
}

// writeLine encodes payload as a single newline-terminated JSON object.
// HTML escaping is off: raw METAR text and URLs pass through readable.
func writeLine(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
