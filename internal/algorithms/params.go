package algorithms

import (
	"fmt"
	"math"
)

// Params values arrive as float64 from JSON and the UI, and as int from Go
// callers. Both are accepted.
func floatParam(params map[string]interface{}, key string, def float64) (float64, error) {
	val, ok := params[key]
	if !ok {
		return def, nil
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParameter, key, val)
	}
}

func intParam(params map[string]interface{}, key string, def int) (int, error) {
	v, err := floatParam(params, key, float64(def))
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %g", ErrInvalidParameter, key, v)
	}
	return int(v), nil
}

func checkRange(key string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be between %g and %g", ErrInvalidParameter, key, lo, hi)
	}
	return nil
}
