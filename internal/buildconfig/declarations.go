package buildconfig

import (
	"bytes"
	"strings"
)

// declarations returns the top-level properties of the object opened by
// Anchor, mapped to their source expressions. Nested objects, strings and
// comments are skipped, so `site:` inside an integration's options is not a
// declaration. ok is false when src has no Anchor.
func declarations(src []byte) (decl map[string]string, ok bool) {
	idx := bytes.Index(src, []byte(Anchor))
	if idx < 0 {
		return nil, false
	}
	decl = make(map[string]string)
	s := &scanner{src: src, pos: idx + len(Anchor)}
	for {
		s.skipSpace()
		if s.eof() || s.peek() == '}' {
			return decl, true
		}
		if s.peek() == ',' {
			s.pos++
			continue
		}
		key := s.key()
		s.skipSpace()
		if key != "" && !s.eof() && s.peek() == ':' {
			s.pos++
			decl[key] = s.value()
			continue
		}
		// shorthand, spread or method
		s.value()
	}
}

type scanner struct {
	src []byte
	pos int
}

func (s *scanner) eof() bool  { return s.pos >= len(s.src) }
func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) at(prefix string) bool {
	return bytes.HasPrefix(s.src[s.pos:], []byte(prefix))
}

// skipSpace advances past whitespace and comments.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch {
		case isSpace(s.peek()):
			s.pos++
		case s.at("//"):
			if i := bytes.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
				s.pos += i + 1
			} else {
				s.pos = len(s.src)
			}
		case s.at("/*"):
			if i := bytes.Index(s.src[s.pos+2:], []byte("*/")); i >= 0 {
				s.pos += i + 4
			} else {
				s.pos = len(s.src)
			}
		default:
			return
		}
	}
}

// skipString advances past the string literal that starts at pos.
func (s *scanner) skipString() {
	quote := s.peek()
	s.pos++
	for !s.eof() {
		c := s.peek()
		s.pos++
		switch c {
		case '\\':
			s.pos++
		case quote:
			return
		}
	}
}

func (s *scanner) key() string {
	start := s.pos
	switch c := s.peek(); {
	case c == '\'' || c == '"':
		s.skipString()
		if s.pos-1 <= start {
			return ""
		}
		return string(s.src[start+1 : s.pos-1])
	case isIdent(c):
		for !s.eof() && isIdent(s.peek()) {
			s.pos++
		}
		return string(s.src[start:s.pos])
	}
	return ""
}

// value advances to the next ',' or '}' at the current nesting level and
// returns the trimmed text before it.
func (s *scanner) value() string {
	start := s.pos
	depth := 0
	for !s.eof() {
		c := s.peek()
		switch {
		case c == '\'' || c == '"' || c == '`':
			s.skipString()
			continue
		case s.at("//") || s.at("/*"):
			s.skipSpace()
			continue
		case c == '{' || c == '[' || c == '(':
			depth++
		case c == '}' && depth == 0:
			return s.text(start)
		case c == '}' || c == ']' || c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			return s.text(start)
		}
		s.pos++
	}
	return s.text(start)
}

func (s *scanner) text(start int) string {
	end := min(s.pos, len(s.src))
	return strings.TrimSpace(string(s.src[start:end]))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
