package latex

import "strings"

// Escape neutralizes every character LaTeX treats specially so arbitrary
// user text renders literally instead of being interpreted as markup.
// It is pure and total: every rune has a defined mapping, nothing is
// rejected. It is NOT idempotent - callers escape each raw field exactly
// once.
func Escape(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '$':
			b.WriteString(`\$`)
		case '&':
			b.WriteString(`\&`)
		case '#':
			b.WriteString(`\#`)
		case '_':
			b.WriteString(`\_`)
		case '%':
			b.WriteString(`\%`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// EscapeJoin escapes each element then joins with sep, so list fields
// cannot smuggle markup through the separator either.
func EscapeJoin(items []string, sep string) string {
	if len(items) == 0 {
		return ""
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Escape(s)
	}
	return strings.Join(out, sep)
}
