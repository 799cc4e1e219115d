package normalize

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// PyStr renders v the way Python's str() does for the label of a multi-level
// index: table.Tuple{"foo", "one"} becomes "('foo', 'one')" and a one-element
// tuple keeps its trailing comma, "(1,)".
func PyStr(v any) (string, error) {
	return pyStr("value", v)
}

func pyStr(path string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return pyRepr(path, v)
}

func pyRepr(path string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "None", nil
	case table.Tuple:
		return pyItems(path, x, "(", ")", len(x) == 1)
	case table.Scalar:
		return pyRepr(path, x.Value())
	case canon.Value:
		return pyRepr(path, x.Interface())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return "True", nil
		}
		return "False", nil
	case reflect.String:
		return pyQuote(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		switch {
		case math.IsNaN(f):
			return "nan", nil
		case math.IsInf(f, 1):
			return "inf", nil
		case math.IsInf(f, -1):
			return "-inf", nil
		}
		return canon.FormatFloat(f), nil
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return pyItems(path, items, "[", "]", false)
	}
	return "", errors.UnsupportedType(path, v)
}

func pyItems(path string, items []any, open, close string, trailingComma bool) (string, error) {
	var b strings.Builder
	b.WriteString(open)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := pyRepr(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	if trailingComma {
		b.WriteByte(',')
	}
	b.WriteString(close)
	return b.String(), nil
}

// pyQuote mirrors Python's str.__repr__: single quotes unless the text holds a
// single quote and no double quote.
func pyQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0xff && !unicode.IsPrint(r)):
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r) && r != ' ':
			if r > 0xffff {
				fmt.Fprintf(&b, `\U%08x`, r)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
