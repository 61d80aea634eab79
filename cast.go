package rowcsv

import (
	"encoding"
	"reflect"
	"strconv"
	"time"
)

// parseText converts s into T using the standard library parsers, or the
// type's own UnmarshalText when *T implements encoding.TextUnmarshaler.
func parseText[T any](s string) (T, error) {
	var v T
	if u, ok := any(&v).(encoding.TextUnmarshaler); ok {
		err := u.UnmarshalText([]byte(s))
		return v, err
	}

	var err error
	switch p := any(&v).(type) {
	case *string:
		*p = s
	case *[]byte:
		*p = []byte(s)
	case *bool:
		*p, err = strconv.ParseBool(s)
	case *int:
		var n int64
		n, err = strconv.ParseInt(s, 10, strconv.IntSize)
		*p = int(n)
	case *int8:
		var n int64
		n, err = strconv.ParseInt(s, 10, 8)
		*p = int8(n)
	case *int16:
		var n int64
		n, err = strconv.ParseInt(s, 10, 16)
		*p = int16(n)
	case *int32:
		var n int64
		n, err = strconv.ParseInt(s, 10, 32)
		*p = int32(n)
	case *int64:
		*p, err = strconv.ParseInt(s, 10, 64)
	case *uint:
		var n uint64
		n, err = strconv.ParseUint(s, 10, strconv.IntSize)
		*p = uint(n)
	case *uint8:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 8)
		*p = uint8(n)
	case *uint16:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 16)
		*p = uint16(n)
	case *uint32:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 32)
		*p = uint32(n)
	case *uint64:
		*p, err = strconv.ParseUint(s, 10, 64)
	case *float32:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		*p = float32(f)
	case *float64:
		*p, err = strconv.ParseFloat(s, 64)
	case *time.Duration:
		*p, err = time.ParseDuration(s)
	default:
		err = ErrUnsupportedType
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
