// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of scalar held by a Value.
type Kind int

const (
	Null Kind = iota
	Text
	Number
)

// String returns the lower case name of the kind.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "null"
	}
}

// Value is a single cell. The zero Value is Null.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// NullValue returns an empty cell.
func NullValue() Value { return Value{} }

// TextValue returns a text cell. An empty string is still Text; callers that
// want blank cells to be Null should use Infer.
func TextValue(s string) Value { return Value{Kind: Text, Str: s} }

// NumberValue returns a numeric cell. NaN is treated as Null and negative
// zero is stored as zero.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	if f == 0 {
		f = 0
	}
	return Value{Kind: Number, Num: f}
}

// Infer converts raw cell text into a Value. Blank text (after trimming) is
// Null, anything that parses as a float is a Number, everything else is Text
// verbatim.
func Infer(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) {
		return NumberValue(f)
	}
	return TextValue(s)
}

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool { return v.Kind == Null }

// Equal compares kind and content. Two Nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Text:
		return v.Str == o.Str
	case Number:
		return v.Num == o.Num
	default:
		return true
	}
}

// String renders the value for display. Integral numbers drop the fractional
// part and Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Str
	case Number:
		if v.Num == 0 {
			return "0"
		}
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1e15 {
			return strconv.FormatFloat(v.Num, 'f', 0, 64)
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Interface returns the value as a plain Go scalar (nil, string or float64)
// for serializers.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case Text:
		return v.Str
	case Number:
		return v.Num
	default:
		return nil
	}
}

// appendKey writes an unambiguous encoding of the value to sb. Used to build
// row signatures.
func (v Value) appendKey(sb *strings.Builder) {
	switch v.Kind {
	case Text:
		sb.WriteByte('t')
		sb.WriteString(strconv.Itoa(len(v.Str)))
		sb.WriteByte(':')
		sb.WriteString(v.Str)
	case Number:
		sb.WriteByte('n')
		if v.Num == 0 {
			sb.WriteString("0;")
			return
		}
		sb.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
		sb.WriteByte(';')
	default:
		sb.WriteByte('_')
	}
}
