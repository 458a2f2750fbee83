// Package compose merges vision results with the user's description and
// turns the merged text into a short LinkedIn post via a language model.
package compose

import (
	"math"
	"strconv"
	"strings"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
)

// Combine renders the three labelled sections consumed by the generator:
//
//	Detected Texts: [('Hello', '99.1')]
//	Detected Labels: [('Sign', '87.0')]
//	Event Description: launch day
//
// It is pure: identical arguments always produce an identical string.
func Combine(text, labels []core.Detection, userText string) string {
	var b strings.Builder

	b.WriteString("Detected Texts: ")
	writeDetections(&b, text)
	b.WriteString("\nDetected Labels: ")
	writeDetections(&b, labels)
	b.WriteString("\nEvent Description: ")
	b.WriteString(userText)
	b.WriteString("\n")

	return b.String()
}

// writeDetections renders a list of (text, confidence) pairs with the
// confidence as a quoted numeric string.
func writeDetections(b *strings.Builder, ds []core.Detection) {
	b.WriteByte('[')

	for i, d := range ds {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteByte('(')
		writeQuoted(b, d.Text)
		b.WriteString(", ")
		writeQuoted(b, FormatConfidence(d.Confidence))
		b.WriteByte(')')
	}

	b.WriteByte(']')
}

// writeQuoted wraps s in single quotes, or in double quotes when s holds a
// single quote and no double quote. Only the chosen quote is escaped.
func writeQuoted(b *strings.Builder, s string) {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	b.WriteRune(quote)

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteRune(quote)
}

// FormatConfidence renders a score with the shortest single-precision form
// (the vision service reports float32). Finite values always carry a decimal.
func FormatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 32)
	if !math.IsNaN(c) && !math.IsInf(c, 0) && !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
