// Package row implements the self-describing tuple encoding stored in
// slotted-page tuples: each value is tagged with its type so a row can be
// decoded without consulting the table schema.
package row

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Type tags identify the kind of value that follows in the byte stream.
const (
	tagLong byte = 0x00
	tagText byte = 0x01
	tagBool byte = 0x02
)

// Value is one column's worth of data in a Row. Exactly one of the
// fields is meaningful, as indicated by Kind.
type Value struct {
	Kind ValueKind
	Long int64
	Text string
	Bool bool
}

// ValueKind discriminates which field of a Value is populated.
type ValueKind int

const (
	KindLong ValueKind = iota
	KindText
	KindBool
)

// LongValue constructs an integer value.
func LongValue(v int64) Value { return Value{Kind: KindLong, Long: v} }

// TextValue constructs a string value.
func TextValue(v string) Value { return Value{Kind: KindText, Text: v} }

// BoolValue constructs a boolean value.
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// Row is an ordered list of column values, as stored in a single slotted
// page tuple.
type Row struct {
	Values []Value
}

// Encode serializes r into its tagged byte representation.
func (r Row) Encode() []byte {
	var buf []byte
	for _, v := range r.Values {
		switch v.Kind {
		case KindLong:
			b := make([]byte, 9)
			b[0] = tagLong
			binary.LittleEndian.PutUint64(b[1:], uint64(v.Long))
			buf = append(buf, b...)
		case KindText:
			text := []byte(v.Text)
			b := make([]byte, 5+len(text))
			b[0] = tagText
			binary.LittleEndian.PutUint32(b[1:5], uint32(len(text)))
			copy(b[5:], text)
			buf = append(buf, b...)
		case KindBool:
			b := make([]byte, 2)
			b[0] = tagBool
			if v.Bool {
				b[1] = 1
			}
			buf = append(buf, b...)
		}
	}
	return buf
}

// Decode parses the tagged byte representation produced by Encode back
// into a Row.
func Decode(data []byte) (Row, error) {
	var values []Value
	i := 0
	for i < len(data) {
		tag := data[i]
		i++
		switch tag {
		case tagLong:
			if i+8 > len(data) {
				return Row{}, fmt.Errorf("row: unexpected end of data for Long")
			}
			v := int64(binary.LittleEndian.Uint64(data[i : i+8]))
			i += 8
			values = append(values, LongValue(v))
		case tagText:
			if i+4 > len(data) {
				return Row{}, fmt.Errorf("row: unexpected end of data for Text length")
			}
			length := int(binary.LittleEndian.Uint32(data[i : i+4]))
			i += 4
			if i+length > len(data) {
				return Row{}, fmt.Errorf("row: unexpected end of data for Text content")
			}
			if !utf8.Valid(data[i : i+length]) {
				return Row{}, fmt.Errorf("row: invalid UTF-8 in Text")
			}
			values = append(values, TextValue(string(data[i:i+length])))
			i += length
		case tagBool:
			if i+1 > len(data) {
				return Row{}, fmt.Errorf("row: unexpected end of data for Bool")
			}
			values = append(values, BoolValue(data[i] != 0))
			i++
		default:
			return Row{}, fmt.Errorf("row: unknown type tag: %d", tag)
		}
	}
	return Row{Values: values}, nil
}
