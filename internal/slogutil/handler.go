// Package slogutil provides the slog handler and logger helpers used by bugbear.
package slogutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PathKey is hoisted in front of the message, the way diagnostics print.
const PathKey = "path"

const clockFormat = "15:04:05.000"

// Handler writes one line per record:
//
//	15:04:05.000 [warn] pkg/mod.py: Result cache unavailable | error="disk full"
//
// The clock is omitted for records without a time. Groups are flattened
// into dotted keys; WithGroup is accepted but does not qualify later keys.
type Handler struct {
	w     io.Writer
	level slog.Leveler
	mu    *sync.Mutex

	// path and attrs come from WithAttrs; attrs is already rendered.
	path  string
	attrs []byte
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &Handler{w: w, level: level, mu: &sync.Mutex{}}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	path := h.path
	attrs := slices.Clip(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == PathKey && a.Value.Kind() == slog.KindString {
			path = a.Value.String()
			return true
		}
		attrs = appendAttr(attrs, "", a)
		return true
	})

	buf := make([]byte, 0, 128+len(attrs))
	if !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, clockFormat)
		buf = append(buf, ' ')
	}
	buf = append(buf, '[')
	buf = append(buf, levelString(r.Level)...)
	buf = append(buf, "] "...)
	if path != "" {
		buf = append(buf, path...)
		buf = append(buf, ": "...)
	}
	buf = append(buf, r.Message...)
	if len(attrs) > 0 {
		buf = append(buf, " |"...)
		buf = append(buf, attrs...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		if a.Key == PathKey && a.Value.Kind() == slog.KindString {
			clone.path = a.Value.String()
			continue
		}
		clone.attrs = appendAttr(clone.attrs, "", a)
	}
	return &clone
}

// WithGroup returns h unchanged.
func (h *Handler) WithGroup(string) slog.Handler { return h }

// appendAttr renders a as " key=value", flattening groups under prefix.
func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return buf
	}
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			buf = appendAttr(buf, key, ga)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, key...)
	buf = append(buf, '=')
	return append(buf, formatValue(v)...)
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
