// Package manifest edits Cargo.toml files without disturbing their formatting.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

// Document is a parsed TOML file that can be edited in place.
// Bytes outside edited values are preserved exactly.
type Document struct {
	src        []byte
	newline    string
	data       map[string]any
	containers []container
	entries    []entry
}

// Field is one key of an InlineTable.
type Field struct {
	Key   string
	Value any
}

// InlineTable is an ordered table rendered as { k = v, ... }.
type InlineTable []Field

// Parse parses src into a Document.
func Parse(src []byte) (*Document, error) {
	data := map[string]any{}
	if err := toml.Unmarshal(src, &data); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrManifestParse.Error())
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			wrapped = zerr.With(zerr.With(wrapped, "line", row), "column", col)
		}
		return nil, wrapped
	}

	containers, entries, err := scan(src)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParse.Error())
	}

	return &Document{
		src:        src,
		newline:    detectNewline(src),
		data:       data,
		containers: containers,
		entries:    entries,
	}, nil
}

// Bytes returns the current document text.
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.src)
}

// Get returns the decoded value at path.
func (d *Document) Get(path ...string) (any, bool) {
	var cur any = d.data
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Table returns the table at path. A missing table is not an error;
// a non-table value anywhere along the path is.
func (d *Document) Table(path ...string) (map[string]any, bool, error) {
	cur := d.data
	for i, p := range path {
		v, ok := cur[p]
		if !ok {
			return nil, false, nil
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false, zerr.With(
				zerr.Wrap(fmt.Errorf("%s is not a table", strings.Join(path[:i+1], ".")), domain.ErrManifestStructure.Error()),
				"key", strings.Join(path[:i+1], "."),
			)
		}
		cur = m
	}
	return cur, true, nil
}

// Set writes v at path, creating tables as needed.
// Existing values are replaced in place so trailing comments survive.
// The edited text is parsed again before it is accepted.
func (d *Document) Set(path []string, v any) error {
	if len(path) < 1 {
		return zerr.Wrap(errors.New("empty key"), domain.ErrManifestEdit.Error())
	}
	tablePath, key := path[:len(path)-1], path[len(path)-1]
	if _, _, err := d.Table(tablePath...); err != nil {
		return err
	}

	lit, err := literal(v)
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestEdit.Error())
	}

	var out []byte
	switch {
	case d.findEntry(path) >= 0:
		e := d.entries[d.findEntry(path)]
		out = splice(d.src, e.valStart, e.valEnd, lit)
	case d.findContainer(tablePath) >= 0:
		out = d.insertInto(d.findContainer(tablePath), []string{key}, lit)
	case d.lastDotted(tablePath) >= 0:
		e := d.entries[d.lastDotted(tablePath)]
		c := d.containers[e.container]
		rel := path[len(c.path):]
		if c.kind == kindInline {
			out = d.insertInto(e.container, rel, lit)
		} else {
			out = d.insertLine(e.lineEnd, rel, lit)
		}
	case d.inlineAncestor(tablePath) >= 0:
		ci := d.inlineAncestor(tablePath)
		out = d.insertInto(ci, path[len(d.containers[ci].path):], lit)
	default:
		out = d.appendSection(tablePath, key, lit)
	}

	next, err := Parse(out)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestEdit.Error()), "key", strings.Join(path, "."))
	}
	*d = *next
	return nil
}

func (d *Document) findEntry(path []string) int {
	for i, e := range d.entries {
		if d.containers[e.container].kind == kindArrayTable {
			continue
		}
		if slices.Equal(e.path, path) {
			return i
		}
	}
	return -1
}

func (d *Document) findContainer(path []string) int {
	for i, c := range d.containers {
		if (c.kind == kindTable || c.kind == kindInline) && slices.Equal(c.path, path) {
			return i
		}
	}
	return -1
}

// lastDotted finds the last entry that defines tablePath through a dotted key.
func (d *Document) lastDotted(tablePath []string) int {
	found := -1
	for i, e := range d.entries {
		c := d.containers[e.container]
		if c.kind == kindArrayTable || len(c.path) >= len(tablePath) {
			continue
		}
		if len(e.path) > len(tablePath) && slices.Equal(e.path[:len(tablePath)], tablePath) {
			if found < 0 || e.valEnd > d.entries[found].valEnd {
				found = i
			}
		}
	}
	return found
}

// inlineAncestor finds the deepest inline table enclosing tablePath.
func (d *Document) inlineAncestor(tablePath []string) int {
	found := -1
	for i, c := range d.containers {
		if c.kind != kindInline || len(c.path) >= len(tablePath) {
			continue
		}
		if slices.Equal(tablePath[:len(c.path)], c.path) {
			if found < 0 || len(c.path) > len(d.containers[found].path) {
				found = i
			}
		}
	}
	return found
}

func (d *Document) insertInto(ci int, rel []string, lit string) []byte {
	c := d.containers[ci]
	if c.kind == kindInline {
		kv := renderKey(rel) + " = " + lit
		inner := d.src[c.open+1 : c.close]
		if len(bytes.TrimSpace(inner)) == 0 {
			return splice(d.src, c.open, c.close+1, "{ "+kv+" }")
		}
		at := c.close
		for at > c.open+1 && (d.src[at-1] == ' ' || d.src[at-1] == '\t') {
			at--
		}
		return splice(d.src, at, at, ", "+kv)
	}

	at := c.headerEnd
	for _, e := range d.entries {
		if e.container == ci && e.lineEnd > at {
			at = e.lineEnd
		}
	}
	return d.insertLine(at, rel, lit)
}

func (d *Document) insertLine(at int, rel []string, lit string) []byte {
	line := renderKey(rel) + " = " + lit + d.newline
	if at > 0 && d.src[at-1] != '\n' {
		line = d.newline + line
	}
	return splice(d.src, at, at, line)
}

func (d *Document) appendSection(tablePath []string, key, lit string) []byte {
	var b bytes.Buffer
	b.Write(d.src)
	if len(d.src) > 0 {
		if !bytes.HasSuffix(d.src, []byte("\n")) {
			b.WriteString(d.newline)
		}
		if !bytes.HasSuffix(d.src, []byte(d.newline+d.newline)) {
			b.WriteString(d.newline)
		}
	}
	b.WriteString("[" + renderKey(tablePath) + "]" + d.newline)
	b.WriteString(renderKey([]string{key}) + " = " + lit + d.newline)
	return b.Bytes()
}

func splice(src []byte, start, end int, text string) []byte {
	out := make([]byte, 0, len(src)-(end-start)+len(text))
	out = append(out, src[:start]...)
	out = append(out, text...)
	return append(out, src[end:]...)
}

func detectNewline(src []byte) string {
	i := bytes.IndexByte(src, '\n')
	if i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func renderKey(parts []string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		if bareKey.MatchString(p) {
			out[i] = p
		} else {
			out[i] = quote(p)
		}
	}
	return strings.Join(out, ".")
}

// literal renders v as a TOML value.
func literal(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = quote(s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case InlineTable:
		if len(v) == 0 {
			return "{}", nil
		}
		items := make([]string, len(v))
		for i, f := range v {
			lit, err := literal(f.Value)
			if err != nil {
				return "", err
			}
			items[i] = renderKey([]string{f.Key}) + " = " + lit
		}
		return "{ " + strings.Join(items, ", ") + " }", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
