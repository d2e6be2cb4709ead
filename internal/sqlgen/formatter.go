package sqlgen

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// jsonNumber is the JSON number grammar. Only text matching it is written bare.
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Formatter renders identifiers and values as dialect-safe SQL text.
type Formatter interface {
	Name(identifier string) string
	Number(n int) string
	Value(v any) string
}

// Postgres formats for PostgreSQL. Identifiers are always quoted.
type Postgres struct{}

var _ Formatter = Postgres{}

func (Postgres) Name(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

func (Postgres) Number(n int) string {
	return strconv.Itoa(n)
}

// Value renders v as a literal. Strings are quoted; numbers and booleans are
// written bare; slices become ARRAY[...]; maps and structs are written as a
// JSON string literal.
func (p Postgres) Value(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return pq.QuoteLiteral(t)
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case json.Number:
		if jsonNumber.MatchString(string(t)) {
			return string(t)
		}
		return pq.QuoteLiteral(string(t))
	case time.Time:
		return pq.QuoteLiteral(t.Format(time.RFC3339Nano))
	case []byte:
		return pq.QuoteLiteral(`\x` + hex.EncodeToString(t))
	case json.RawMessage:
		return pq.QuoteLiteral(string(t))
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return pq.QuoteLiteral(fmt.Sprint(v))
		}
		if _, again := dv.(driver.Valuer); again {
			return pq.QuoteLiteral(fmt.Sprint(dv))
		}
		return p.Value(dv)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return p.Value(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return "'{}'"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = p.Value(rv.Index(i).Interface())
		}
		return "ARRAY[" + strings.Join(parts, ", ") + "]"
	case reflect.Map, reflect.Struct:
		data, err := json.Marshal(v)
		if err != nil {
			return pq.QuoteLiteral(fmt.Sprint(v))
		}
		return pq.QuoteLiteral(string(data))
	case reflect.String:
		return pq.QuoteLiteral(rv.String())
	case reflect.Bool:
		return p.Value(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), 64)
	}
	return pq.QuoteLiteral(fmt.Sprint(v))
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "'NaN'"
	case math.IsInf(f, 1):
		return "'Infinity'"
	case math.IsInf(f, -1):
		return "'-Infinity'"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
