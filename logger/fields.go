package logger

import (
	"sort"
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent   = "component"
	FieldAttemptID   = "attempt_id"
	FieldPhase       = "phase"
	FieldOutcome     = "outcome"
	FieldRedirectURI = "redirect_uri"
	FieldParamKeys   = "param_keys"
	FieldResultCode  = "result_code"
	FieldMethod      = "method"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// KeysOf returns the sorted keys of a parameter map. Use it instead of
// logging the map itself, which may hold tokens.
func KeysOf(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
