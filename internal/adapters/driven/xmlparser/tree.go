package xmlparser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// element is a minimal XML DOM node: enough structure to extract
// records from, and to re-serialize one record element for the
// Raw XML tab.
type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	text     string
}

// parseTree builds the element tree from an XML token stream.
// Namespaces are not expected in game data files; local names are used
// as-is.
func parseTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)

	var stack []*element
	var root *element
	rootClosed := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			elem := &element{
				name:  t.Name.Local,
				attrs: copyAttrs(t.Attr),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, elem)
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && root != nil {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, fmt.Errorf("unexpected character data outside root element")
				}
				continue
			}
			stack[len(stack)-1].text += string(t)
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}

	return root, nil
}

func copyAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	return out
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' { // byte order mark
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// attr returns the named attribute's value, or "".
func (e *element) attr(name string) string {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// childText returns the trimmed text of the first child with the given
// tag, or "".
func (e *element) childText(name string) string {
	for _, c := range e.children {
		if c.name == name {
			return strings.TrimSpace(c.text)
		}
	}
	return ""
}

// textContent concatenates all text beneath the element, trimmed.
func (e *element) textContent() string {
	var b strings.Builder
	e.appendText(&b)
	return strings.TrimSpace(b.String())
}

func (e *element) appendText(b *strings.Builder) {
	b.WriteString(e.text)
	for _, c := range e.children {
		c.appendText(b)
	}
}

// prettyXML serializes one element with two-space indentation.
// Leaf elements render on a single line; empty leaves self-close.
func prettyXML(e *element) string {
	var buf bytes.Buffer
	writePretty(&buf, e, 0)
	return buf.String()
}

func writePretty(buf *bytes.Buffer, e *element, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.name)
	for _, a := range e.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name.Local)
		buf.WriteString(`="`)
		buf.WriteString(escapeXML(a.Value))
		buf.WriteByte('"')
	}

	text := strings.TrimSpace(e.text)
	if len(e.children) == 0 {
		if text == "" {
			buf.WriteString(" />")
			buf.WriteByte('\n')
			return
		}
		buf.WriteByte('>')
		buf.WriteString(escapeXML(text))
		buf.WriteString("</")
		buf.WriteString(e.name)
		buf.WriteString(">\n")
		return
	}

	buf.WriteString(">\n")
	if text != "" {
		buf.WriteString(strings.Repeat("  ", depth+1))
		buf.WriteString(escapeXML(text))
		buf.WriteByte('\n')
	}
	for _, c := range e.children {
		writePretty(buf, c, depth+1)
	}
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(e.name)
	buf.WriteString(">\n")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
