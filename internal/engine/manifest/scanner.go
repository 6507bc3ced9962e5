package manifest

import (
	"errors"
	"fmt"
	"strings"
)

type containerKind int

const (
	kindRoot containerKind = iota
	kindTable
	kindArrayTable
	kindInline
)

// container is a place new keys can be written into.
type container struct {
	kind containerKind
	path []string
	// headerEnd is the offset just past the header line of a table.
	headerEnd int
	// open and close are the brace offsets of an inline table.
	open, close int
}

// entry is one key/value pair with the byte range of its value.
type entry struct {
	container int
	path      []string
	rel       []string
	valStart  int
	valEnd    int
	// lineEnd is the offset past the line terminator, or -1 inside inline tables.
	lineEnd int
}

// scanner records the layout of a TOML document that go-toml already accepted.
type scanner struct {
	src        []byte
	pos        int
	containers []container
	entries    []entry
}

func scan(src []byte) ([]container, []entry, error) {
	s := &scanner{
		src:        src,
		containers: []container{{kind: kindRoot}},
	}
	if err := s.run(); err != nil {
		return nil, nil, fmt.Errorf("offset %d: %w", s.pos, err)
	}
	return s.containers, s.entries, nil
}

func (s *scanner) run() error {
	current := 0
	for {
		s.skipSpace()
		if s.eof() {
			return nil
		}

		switch c := s.src[s.pos]; c {
		case '\n':
			s.pos++
		case '\r':
			if !s.consumeNewline() {
				return errors.New("stray carriage return")
			}
		case '#':
			s.skipComment()
		case '[':
			idx, err := s.header()
			if err != nil {
				return err
			}
			current = idx
		default:
			if err := s.keyValue(current); err != nil {
				return err
			}
		}
	}
}

func (s *scanner) header() (int, error) {
	kind := kindTable
	s.pos++
	if s.peek('[') {
		kind = kindArrayTable
		s.pos++
	}

	s.skipSpace()
	path, err := s.key()
	if err != nil {
		return 0, err
	}
	s.skipSpace()

	closing := "]"
	if kind == kindArrayTable {
		closing = "]]"
	}
	if !strings.HasPrefix(string(s.src[s.pos:]), closing) {
		return 0, errors.New("unterminated table header")
	}
	s.pos += len(closing)

	if err := s.lineTail(); err != nil {
		return 0, err
	}

	s.containers = append(s.containers, container{kind: kind, path: path, headerEnd: s.pos})
	return len(s.containers) - 1, nil
}

func (s *scanner) keyValue(current int) error {
	rel, err := s.key()
	if err != nil {
		return err
	}
	s.skipSpace()
	if !s.peek('=') {
		return errors.New("expected '=' after key")
	}
	s.pos++
	s.skipSpace()

	path := join(s.containers[current].path, rel)
	start := s.pos
	if err := s.value(path); err != nil {
		return err
	}
	end := s.pos

	if err := s.lineTail(); err != nil {
		return err
	}

	s.entries = append(s.entries, entry{
		container: current,
		path:      path,
		rel:       rel,
		valStart:  start,
		valEnd:    end,
		lineEnd:   s.pos,
	})
	return nil
}

// key reads a possibly dotted key.
func (s *scanner) key() ([]string, error) {
	var parts []string
	for {
		s.skipSpace()
		part, err := s.simpleKey()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)

		s.skipSpace()
		if !s.peek('.') {
			return parts, nil
		}
		s.pos++
	}
}

func (s *scanner) simpleKey() (string, error) {
	if s.eof() {
		return "", errors.New("expected key")
	}

	switch s.src[s.pos] {
	case '"':
		start := s.pos
		if err := s.basicString(); err != nil {
			return "", err
		}
		return unquoteBasic(string(s.src[start+1 : s.pos-1])), nil
	case '\'':
		start := s.pos
		if err := s.literalString(); err != nil {
			return "", err
		}
		return string(s.src[start+1 : s.pos-1]), nil
	}

	start := s.pos
	for !s.eof() && isBareKeyChar(s.src[s.pos]) {
		s.pos++
	}
	if start == s.pos {
		return "", errors.New("expected key")
	}
	return string(s.src[start:s.pos]), nil
}

// value reads one value. path is nil for values nested in arrays.
func (s *scanner) value(path []string) error {
	if s.eof() {
		return errors.New("expected value")
	}

	switch s.src[s.pos] {
	case '"':
		if s.hasPrefix(`"""`) {
			return s.multilineString('"')
		}
		return s.basicString()
	case '\'':
		if s.hasPrefix(`'''`) {
			return s.multilineString('\'')
		}
		return s.literalString()
	case '[':
		return s.array()
	case '{':
		return s.inlineTable(path)
	default:
		return s.scalar()
	}
}

func (s *scanner) basicString() error {
	s.pos++
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return nil
		case '\n':
			return errors.New("newline in string")
		default:
			s.pos++
		}
	}
	return errors.New("unterminated string")
}

func (s *scanner) literalString() error {
	s.pos++
	for !s.eof() {
		switch s.src[s.pos] {
		case '\'':
			s.pos++
			return nil
		case '\n':
			return errors.New("newline in string")
		default:
			s.pos++
		}
	}
	return errors.New("unterminated string")
}

// multilineString reads a triple quoted string. Up to two extra quotes
// directly before the closing delimiter belong to the content.
func (s *scanner) multilineString(quote byte) error {
	s.pos += 3
	for !s.eof() {
		c := s.src[s.pos]
		if c == '\\' && quote == '"' {
			s.pos += 2
			continue
		}
		if c != quote {
			s.pos++
			continue
		}

		n := 0
		for s.pos+n < len(s.src) && s.src[s.pos+n] == quote && n < 5 {
			n++
		}
		s.pos += n
		if n >= 3 {
			return nil
		}
	}
	return errors.New("unterminated multi-line string")
}

func (s *scanner) array() error {
	s.pos++
	for {
		s.skipBlank()
		if s.eof() {
			return errors.New("unterminated array")
		}
		if s.peek(']') {
			s.pos++
			return nil
		}

		if err := s.value(nil); err != nil {
			return err
		}

		s.skipBlank()
		switch {
		case s.peek(','):
			s.pos++
		case s.peek(']'):
		default:
			return errors.New("expected ',' or ']' in array")
		}
	}
}

func (s *scanner) inlineTable(path []string) error {
	idx := -1
	if path != nil {
		s.containers = append(s.containers, container{kind: kindInline, path: path, open: s.pos})
		idx = len(s.containers) - 1
	}
	s.pos++

	for {
		s.skipBlank()
		if s.eof() {
			return errors.New("unterminated inline table")
		}
		if s.peek('}') {
			if idx >= 0 {
				s.containers[idx].close = s.pos
			}
			s.pos++
			return nil
		}

		rel, err := s.key()
		if err != nil {
			return err
		}
		s.skipSpace()
		if !s.peek('=') {
			return errors.New("expected '=' in inline table")
		}
		s.pos++
		s.skipSpace()

		var inner []string
		if path != nil {
			inner = join(path, rel)
		}
		start := s.pos
		if err := s.value(inner); err != nil {
			return err
		}
		if idx >= 0 {
			s.entries = append(s.entries, entry{
				container: idx,
				path:      inner,
				rel:       rel,
				valStart:  start,
				valEnd:    s.pos,
				lineEnd:   -1,
			})
		}

		s.skipBlank()
		switch {
		case s.peek(','):
			s.pos++
		case s.peek('}'):
		default:
			return errors.New("expected ',' or '}' in inline table")
		}
	}
}

// scalar reads a number, boolean or date-time.
func (s *scanner) scalar() error {
	start := s.pos
	for !s.eof() && !isScalarEnd(s.src[s.pos]) {
		s.pos++
		// Local date-times may separate date and time with a space.
		if s.pos-start == 10 && isDate(s.src[start:s.pos]) &&
			s.pos+1 < len(s.src) && s.src[s.pos] == ' ' && isDigit(s.src[s.pos+1]) {
			s.pos++
		}
	}
	if start == s.pos {
		return errors.New("expected value")
	}
	return nil
}

// lineTail consumes trailing whitespace, an optional comment and the line terminator.
func (s *scanner) lineTail() error {
	s.skipSpace()
	if s.peek('#') {
		s.skipComment()
	}
	if s.eof() || s.consumeNewline() {
		return nil
	}
	return errors.New("expected end of line")
}

func (s *scanner) consumeNewline() bool {
	switch {
	case s.peek('\n'):
		s.pos++
		return true
	case s.hasPrefix("\r\n"):
		s.pos += 2
		return true
	}
	return false
}

func (s *scanner) skipSpace() {
	for !s.eof() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

// skipBlank skips whitespace, newlines and comments inside arrays and inline tables.
func (s *scanner) skipBlank() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		case '#':
			s.skipComment()
		default:
			return
		}
	}
}

func (s *scanner) skipComment() {
	for !s.eof() && s.src[s.pos] != '\n' && !s.hasPrefix("\r\n") {
		s.pos++
	}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek(c byte) bool { return !s.eof() && s.src[s.pos] == c }

func (s *scanner) hasPrefix(p string) bool { return strings.HasPrefix(string(s.src[s.pos:]), p) }

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '-'
}

func isScalarEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ']', '}', '#':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDate(b []byte) bool {
	for i, c := range b {
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if !isDigit(c) {
			return false
		}
	}
	return true
}

// unquoteBasic resolves the escapes that can appear in quoted keys.
func unquoteBasic(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	r := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\t`, "\t", `\n`, "\n", `\r`, "\r", `\b`, "\b", `\f`, "\f")
	return r.Replace(s)
}

func join(prefix, rel []string) []string {
	out := make([]string, 0, len(prefix)+len(rel))
	out = append(out, prefix...)
	return append(out, rel...)
}
