package coderepair

import (
	"regexp"
	"strings"
)

var tagToken = regexp.MustCompile(`<(/?)([A-Za-z][\w.]*)((?:[^<>"']|"[^"]*"|'[^']*')*?)(/?)>`)

// Void elements never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// repairTagBalance appends closing tags for unterminated elements. Like the
// bracket pass it only ever appends at end of text; elements the document
// closed out of order are popped through rather than re-opened.
func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func repairTagBalance(src string) string {
	var stack []string

	for _, m := range tagToken.FindAllStringSubmatchIndex(src, -1) {
		closing := m[3] > m[2]
		name := src[m[4]:m[5]]
		selfClose := m[9] > m[8]

		// An identifier directly before "<" makes an opening token look
		// like a generic parameter list (List<Item>), so it is not read
		// as a tag. Closing tags can never be generics.
		if !closing && m[0] > 0 && isWordByte(src[m[0]-1]) {
			continue
		}

		if selfClose || voidElements[strings.ToLower(name)] {
			continue
		}
		if !closing {
			stack = append(stack, name)
			continue
		}
		// Closing tag: pop to the matching open, dropping anything the
		// document abandoned above it. A stray close matches nothing and
		// is ignored.
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i] == name {
				stack = stack[:i]
				break
			}
		}
	}

	if len(stack) == 0 {
		return src
	}

	var b strings.Builder
	b.WriteString(src)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString("</")
		b.WriteString(stack[i])
		b.WriteString(">")
	}
	return b.String()
}
