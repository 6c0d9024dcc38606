package prompts

import (
	"strconv"
	"strings"
)

// ValueKind is the type of an example value in a reply schema
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindList
	KindObject
)

// Value is an example value in a reply schema. String examples may reference
// request parameters with template actions such as {{.Genre}}.
type Value struct {
	Kind   ValueKind
	Text   string
	Number int
	Items  []Value
	Fields []Field
}

// Field is a named value inside an object; order is preserved when rendering
type Field struct {
	Name  string
	Value Value
}

// Schema is the reply shape requested for a task: a top-level object
type Schema struct {
	Fields []Field
}

// Str is an example string value
func Str(s string) Value { return Value{Kind: KindString, Text: s} }

// Num is an example number value
func Num(n int) Value { return Value{Kind: KindNumber, Number: n} }

// List is an example array
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }

// Obj is an example object
func Obj(fields ...Field) Value { return Value{Kind: KindObject, Fields: fields} }

// F names a value
func F(name string, v Value) Field { return Field{Name: name, Value: v} }

// Names returns the top-level field names in order
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a field by a dotted path such as "craft_analysis.voice.score"
func (s Schema) Lookup(path string) (Value, bool) {
	fields := s.Fields
	var cur Value
	for _, part := range strings.Split(path, ".") {
		found := false
		for _, f := range fields {
			if f.Name == part {
				cur, found = f.Value, true
				break
			}
		}
		if !found {
			return Value{}, false
		}
		fields = cur.Fields
	}
	return cur, true
}

const indentUnit = "    "

// Render writes the schema as indented JSON-like text, keys in declaration
// order. String examples are written verbatim between quotes.
func (s Schema) Render() string {
	var b strings.Builder
	writeObject(&b, s.Fields, 0, false)
	return b.String()
}

func (v Value) isScalar() bool {
	return v.Kind == KindString || v.Kind == KindNumber
}

func allScalar(values []Value) bool {
	for _, v := range values {
		if !v.isScalar() {
			return false
		}
	}
	return true
}

func scalarFields(fields []Field) bool {
	for _, f := range fields {
		if !f.Value.isScalar() {
			return false
		}
	}
	return true
}

// writeObject renders an object. Small nested objects of scalars, such as
// {"score": 75, "feedback": "assessment"}, stay on one line.
func writeObject(b *strings.Builder, fields []Field, depth int, inline bool) {
	if inline {
		b.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			writeKey(b, f.Name)
			writeValue(b, f.Value, depth, false)
		}
		b.WriteByte('}')
		return
	}

	b.WriteString("{\n")
	for i, f := range fields {
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		writeKey(b, f.Name)
		nestedInline := f.Value.Kind == KindObject && depth >= 1 && scalarFields(f.Value.Fields)
		writeValue(b, f.Value, depth+1, nestedInline)
		if i < len(fields)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte('}')
}

func writeKey(b *strings.Builder, name string) {
	b.WriteByte('"')
	b.WriteString(name)
	b.WriteString(`": `)
}

func writeValue(b *strings.Builder, v Value, depth int, inline bool) {
	switch v.Kind {
	case KindString:
		b.WriteByte('"')
		b.WriteString(v.Text)
		b.WriteByte('"')
	case KindNumber:
		b.WriteString(strconv.Itoa(v.Number))
	case KindObject:
		writeObject(b, v.Fields, depth, inline)
	case KindList:
		writeList(b, v.Items, depth)
	}
}

func writeList(b *strings.Builder, items []Value, depth int) {
	if allScalar(items) {
		b.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item, depth, false)
		}
		b.WriteByte(']')
		return
	}

	b.WriteString("[\n")
	for i, item := range items {
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		writeValue(b, item, depth+1, false)
		if i < len(items)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte(']')
}
