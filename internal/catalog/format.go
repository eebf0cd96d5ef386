package catalog

import (
	"strconv"
	"strings"
)

// Format substitutes args into a Python format string. Supported fields are
// `{}`, `{N}` and the `!r` conversion; `{{` and `}}` are literal braces.
// Fields referring to a missing argument expand to nothing.
func Format(template string, args ...string) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch {
		case ch == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			field := template[i+1 : i+end]
			i += end

			repr := false
			if f, ok := strings.CutSuffix(field, "!r"); ok {
				field, repr = f, true
			}
			idx := next
			if field == "" {
				next++
			} else if n, err := strconv.Atoi(field); err == nil {
				idx = n
			} else {
				continue
			}
			if idx < 0 || idx >= len(args) {
				continue
			}
			if repr {
				b.WriteString(Repr(args[idx]))
			} else {
				b.WriteString(args[idx])
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Repr quotes s the way Python's repr() quotes a str: single quotes unless
// the text contains a single quote and no double quote.
func Repr(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
