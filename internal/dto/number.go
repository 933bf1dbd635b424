package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// maxExactFloat bounds the float64 magnitudes that still identify a single integer.
const maxExactFloat = 1 << 53

// Int converts a number received on the wire to an int.
// Non-integral values and values outside the int range are rejected with
// domain.ErrMalformedAction instead of being truncated or wrapped.
// Decode JSON with UseNumber to keep integers above 2^53 exact; plain float64
// values of that magnitude are rejected because they may already have been rounded.
func Int(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%w: %d is out of range", domain.ErrMalformedAction, n)
		}
		return int(n), nil
	case json.Number:
		return intFromString(n.String())
	case string:
		return intFromString(n)
	case float32:
		return intFromFloat(float64(n))
	case float64:
		return intFromFloat(n)
	}
	return 0, fmt.Errorf("%w: %v (%T) is not a number", domain.ErrMalformedAction, v, v)
}

func intFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not an integer", domain.ErrMalformedAction, f)
	}
	if math.Abs(f) >= maxExactFloat {
		return 0, fmt.Errorf("%w: %v cannot be represented exactly", domain.ErrMalformedAction, f)
	}
	return int(f), nil
}

func intFromString(s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	// Exponent and decimal forms ("1e3", "2.0") are accepted when they denote an integer.
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrMalformedAction, s)
	}
	if !r.IsInt() {
		return 0, fmt.Errorf("%w: %s is not an integer", domain.ErrMalformedAction, s)
	}
	num := r.Num()
	if !num.IsInt64() || num.Int64() < math.MinInt || num.Int64() > math.MaxInt {
		return 0, fmt.Errorf("%w: %s is out of range", domain.ErrMalformedAction, s)
	}
	return int(num.Int64()), nil
}

// intHook routes every int target through Int.
func intHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int || from.Kind() == reflect.Bool {
		return data, nil
	}
	return Int(data)
}

var _ mapstructure.DecodeHookFuncType = intHook
